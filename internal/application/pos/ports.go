package pos

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// ReceiptLine one printable line of a receipt.
type ReceiptLine struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptData everything the PDF layer needs to render a receipt.
type ReceiptData struct {
	Sale         *entity.Sale
	Lines        []ReceiptLine
	Organization *entity.Organization
	Branch       *entity.Branch
	PatientName  string // empty for walk-ins
}

// ReceiptPDFGenerator renders a sale receipt. Implemented by the maroto
// adapter in infrastructure/pdf.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}
