package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/pos"
)

// ReturnHandler handles the sale-return lifecycle: request, review, process.
type ReturnHandler struct {
	uc *pos.ReturnUseCase
}

// NewReturnHandler builds the handler.
func NewReturnHandler(uc *pos.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Request a return for a sale
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Sale and returned lines"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.CreateReturn(GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Approve godoc
// @Summary      Approve a pending return
// @Description  Approved quantities may be lower than requested; only they are refunded and restocked.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Return ID"
// @Param        body  body  dto.ApproveReturnRequest  true  "Approved quantities"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.ApproveReturn(GetOrganizationID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Reject a pending return
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Return ID"
// @Param        body  body  dto.RejectReturnRequest  false  "Optional notes"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.RejectReturn(GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Process an approved return
// @Description  Restocks the approved quantities and applies the refund to the sale in one unit of work.
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Return ID"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/returns/{id}/process [post]
func (h *ReturnHandler) Process(c *fiber.Ctx) error {
	out, err := h.uc.ProcessReturn(c.Context(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get return by ID
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Return ID"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetReturn(GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
