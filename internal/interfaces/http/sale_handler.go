package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/pos"
)

// SaleHandler handles point-of-sale checkout and receipts.
type SaleHandler struct {
	saleUC    *pos.SaleUseCase
	receiptUC *pos.ReceiptUseCase
}

// NewSaleHandler builds the handler.
func NewSaleHandler(saleUC *pos.SaleUseCase, receiptUC *pos.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{saleUC: saleUC, receiptUC: receiptUC}
}

// Complete godoc
// @Summary      Complete a sale
// @Description  Deducts the allocated batches atomically. A 409 STOCK_CONFLICT means the allocation went stale; request a new one and retry.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteSaleRequest  true  "Cart with batch allocations"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sales/complete [post]
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items are required"})
	}
	out, err := h.saleUC.CompleteSale(c.Context(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get sale by ID
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Sale ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.saleUC.GetSale(GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Download the sale receipt as PDF
// @Tags         pos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "Sale ID"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	saleID := c.Params("id")
	pdfBytes, err := h.receiptUC.GenerateReceipt(c.Context(), GetOrganizationID(c), saleID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipt-`+saleID+`.pdf"`)
	return c.Send(pdfBytes)
}
