package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/reports"
)

// DashboardHandler handles the branch summary endpoint.
type DashboardHandler struct {
	uc *reports.DashboardUseCase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *reports.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Branch dashboard figures
// @Description  Sales, credit, refunds, low-stock count and expiring batches for a date window (defaults to the last 30 days).
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true   "Branch ID"
// @Param        from       query  string  false  "Window start (RFC3339)"
// @Param        to         query  string  false  "Window end (RFC3339)"
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from must be RFC3339"})
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to must be RFC3339"})
	}
	out, err := h.uc.Summary(c.Context(), GetOrganizationID(c), branchID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
