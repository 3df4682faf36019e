// Package xmlexport serializes supplier statements as XML documents for
// exchange with external accounting systems.
package xmlexport

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/ledger"
)

var _ ledger.StatementXMLBuilder = (*StatementBuilder)(nil)

// StatementBuilder builds the <SupplierStatement> document with etree.
type StatementBuilder struct{}

// NewStatementBuilder builds the builder.
func NewStatementBuilder() *StatementBuilder { return &StatementBuilder{} }

// Build serializes a reconciled statement. Entries keep the order the
// reconciler produced (newest first).
func (b *StatementBuilder) Build(statement *dto.SupplierStatementResponse) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("SupplierStatement")
	root.CreateAttr("generatedAt", time.Now().UTC().Format(time.RFC3339))

	supplier := root.CreateElement("Supplier")
	if statement.SupplierID != "" {
		supplier.CreateElement("ID").SetText(statement.SupplierID)
	}
	supplier.CreateElement("Name").SetText(statement.SupplierName)
	supplier.CreateElement("Type").SetText(statement.SupplierType)

	entries := root.CreateElement("Entries")
	entries.CreateAttr("count", fmt.Sprintf("%d", len(statement.Entries)))
	for _, e := range statement.Entries {
		entry := entries.CreateElement("Entry")
		entry.CreateAttr("sourceType", e.SourceType)
		if e.ReferenceID != "" {
			entry.CreateAttr("referenceID", e.ReferenceID)
		}
		entry.CreateElement("Date").SetText(e.Date.UTC().Format(time.RFC3339))
		entry.CreateElement("Description").SetText(e.Description)
		entry.CreateElement("PurchaseAmount").SetText(e.PurchaseAmount.StringFixed(2))
		entry.CreateElement("PaymentAmount").SetText(e.PaymentAmount.StringFixed(2))
		entry.CreateElement("RunningBalance").SetText(e.RunningBalance.StringFixed(2))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Purchases").SetText(statement.TotalPurchases.StringFixed(2))
	totals.CreateElement("Paid").SetText(statement.TotalPaid.StringFixed(2))
	totals.CreateElement("Credit").SetText(statement.TotalCredit.StringFixed(2))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serialize statement: %w", err)
	}
	return out, nil
}
