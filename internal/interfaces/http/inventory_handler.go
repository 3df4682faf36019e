package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
)

// InventoryHandler handles batch stock: restock, allocation, listings, expiry.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Restock godoc
// @Summary      Register a new stock batch
// @Description  Creates the batch and its purchase transaction in one unit of work.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "Batch and purchase data"
// @Success      201   {object}  dto.BatchDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Restock(c.Context(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AllocateStock godoc
// @Summary      Plan a stock allocation
// @Description  Returns which batches would cover the requested quantity, oldest first. Read-only: nothing is reserved.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateStockRequest  true  "Product, branch, quantity"
// @Success      200   {object}  dto.AllocateStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/allocate-stock [post]
func (h *InventoryHandler) AllocateStock(c *fiber.Ctx) error {
	var in dto.AllocateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.AllocateStock(GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      List stock batches of a branch
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true   "Branch ID"
// @Param        limit      query  int     false  "Limit"   default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {array}  dto.BatchDTO
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id is required"})
	}
	out, err := h.uc.ListStock(GetOrganizationID(c), branchID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExpiryAlerts godoc
// @Summary      Batches expiring within a window
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true   "Branch ID"
// @Param        days       query  int     false  "Window in days"  default(90)
// @Success      200        {array}  dto.ExpiryAlertDTO
// @Router       /api/inventory/expiry-alerts [get]
func (h *InventoryHandler) ExpiryAlerts(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id is required"})
	}
	days := c.QueryInt("days", 90)
	out, err := h.uc.ExpiryAlerts(GetOrganizationID(c), branchID, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
