package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/bulkorder"
	"github.com/medtrack/medtrack-api/internal/application/dto"
)

// BulkOrderHandler handles wholesale orders between pharmacies and suppliers.
type BulkOrderHandler struct {
	uc *bulkorder.UseCase
}

// NewBulkOrderHandler builds the handler.
func NewBulkOrderHandler(uc *bulkorder.UseCase) *BulkOrderHandler {
	return &BulkOrderHandler{uc: uc}
}

func actorFrom(c *fiber.Ctx) bulkorder.Actor {
	return bulkorder.Actor{
		UserID: GetUserID(c),
		OrgID:  GetOrganizationID(c),
		Role:   GetRole(c),
	}
}

// Create godoc
// @Summary      Create a bulk order (draft)
// @Tags         bulk-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBulkOrderRequest  true  "Supplier and requested lines"
// @Success      201   {object}  dto.BulkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bulk-orders [post]
func (h *BulkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBulkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items are required"})
	}
	out, err := h.uc.CreateOrder(actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get bulk order by ID
// @Description  Visible only to the buyer and supplier organizations of the order.
// @Tags         bulk-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Order ID"
// @Success      200  {object}  dto.BulkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bulk-orders/{id} [get]
func (h *BulkOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List bulk orders of the caller's organization
// @Tags         bulk-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.BulkOrderResponse
// @Router       /api/bulk-orders [get]
func (h *BulkOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListOrders(actorFrom(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Advance a bulk order through its lifecycle
// @Description  Action names an edge of the state machine (submit, confirm, reconfirm, ship, deliver, release, import, reject, cancel...). A 409 INVALID_TRANSITION means the edge does not exist for the caller's side and current status.
// @Tags         bulk-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Order ID"
// @Param        body  body  dto.BulkOrderStatusRequest  true  "Action plus per-action payload"
// @Success      200   {object}  dto.BulkOrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bulk-orders/{id}/status [post]
func (h *BulkOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.BulkOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action is required"})
	}
	out, err := h.uc.Transition(c.Context(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Record a buyer payment against a bulk order
// @Tags         bulk-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Order ID"
// @Param        body  body  dto.BulkOrderPaymentRequest  true  "Payment data"
// @Success      200   {object}  dto.BulkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bulk-orders/{id}/payments [post]
func (h *BulkOrderHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.BulkOrderPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.RecordPayment(c.Context(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
