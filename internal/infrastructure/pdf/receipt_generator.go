// Package pdf renders point-of-sale receipts with Maroto v2.
//
// A5 layout: pharmacy and branch header, sale number and date, customer,
// a line table (qty, product, unit price, subtotal) and the money block
// (subtotal, discount, tax, total, paid, credit or change).
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/pos"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 98, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ pos.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implements pos.ReceiptPDFGenerator using Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator builds the generator.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF renders the receipt and returns its bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, data *pos.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sale receipt "+data.Sale.SaleNumber, true).
		WithAuthor(data.Organization.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(data)...)

	m.AddRows(line.NewRow(2))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: pharmacy and branch on the left, sale number and date on the right.
func headerRow(data *pos.ReceiptData) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(data.Organization.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(data.Branch.Name+"  "+data.Branch.Address, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SALE RECEIPT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(data.Sale.SaleNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New(data.Sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func customerRow(data *pos.ReceiptData) core.Row {
	customer := data.PatientName
	if customer == "" {
		customer = "Walk-in customer"
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Customer: "+customer, props.Text{Size: 8, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(7).Add(
		h("Qty", 2, align.Center),
		h("Product", 5, align.Left),
		h("Unit", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableLineRows(lines []pos.ReceiptLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(3).Add(text.New(
				l.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return out
}

// totalsRows: one row per money line, credit or change only when non-zero.
func totalsRows(data *pos.ReceiptData) []core.Row {
	sale := data.Sale

	moneyRow := func(label string, amount decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		size := 8.0
		color := colorGray
		if bold {
			style = fontstyle.Bold
			size = 10
			color = colorPrimary
		}
		return row.New(5).Add(
			col.New(7),
			col.New(3).Add(text.New(label, props.Text{
				Style: style, Size: size, Align: align.Right, Color: color,
			})),
			col.New(2).Add(text.New(amount.StringFixed(2), props.Text{
				Style: style, Size: size, Align: align.Right, Color: color,
			})),
		)
	}

	rows := []core.Row{
		moneyRow("Subtotal", sale.Subtotal, false),
	}
	if sale.Discount.IsPositive() {
		rows = append(rows, moneyRow("Discount", sale.Discount.Neg(), false))
	}
	if sale.Tax.IsPositive() {
		rows = append(rows, moneyRow("Tax", sale.Tax, false))
	}
	rows = append(rows,
		moneyRow("TOTAL", sale.Total, true),
		moneyRow("Paid", sale.Paid, false),
	)
	if sale.Credit.IsPositive() {
		rows = append(rows, moneyRow("On credit", sale.Credit, false))
	}
	if sale.Change.IsPositive() {
		rows = append(rows, moneyRow("Change", sale.Change, false))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Keep this receipt for returns. Medicines are accepted back only in their original condition.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
