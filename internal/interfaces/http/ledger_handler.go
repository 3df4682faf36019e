package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/ledger"
)

// LedgerHandler handles supplier statements.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler builds the handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func statementQuery(c *fiber.Ctx) ledger.StatementQuery {
	return ledger.StatementQuery{
		OrganizationID: GetOrganizationID(c),
		BranchID:       c.Query("branch_id"),
		SupplierID:     c.Query("supplier_id"),
		SupplierName:   c.Query("supplier_name"),
	}
}

// Statement godoc
// @Summary      Supplier statement
// @Description  Reconciles purchases, bulk orders and payments into a running-balance statement, newest first. Select the supplier with supplier_id (platform account) or supplier_name (free-text supplier).
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        supplier_id    query  string  false  "Platform supplier user ID"
// @Param        supplier_name  query  string  false  "Free-text supplier name"
// @Param        branch_id      query  string  false  "Restrict to one branch"
// @Success      200  {object}  dto.SupplierStatementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/ledger [get]
func (h *LedgerHandler) Statement(c *fiber.Ctx) error {
	out, err := h.uc.Statement(statementQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportXML godoc
// @Summary      Export a supplier statement as XML
// @Tags         ledger
// @Security     Bearer
// @Produce      application/xml
// @Param        supplier_id    query  string  false  "Platform supplier user ID"
// @Param        supplier_name  query  string  false  "Free-text supplier name"
// @Param        branch_id      query  string  false  "Restrict to one branch"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/suppliers/ledger/export [get]
func (h *LedgerHandler) ExportXML(c *fiber.Ctx) error {
	out, err := h.uc.ExportStatementXML(statementQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="supplier-statement.xml"`)
	return c.Send(out)
}
