package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier ledger row types.
const (
	SupplierTypePlatform = "platform" // supplier is a registered supplier_admin user
	SupplierTypeCustom   = "custom"   // supplier is a free-text name

	LedgerSourcePurchase         = "purchase"
	LedgerSourcePurchasePayment  = "purchase_payment"
	LedgerSourceBulkOrder        = "bulk_order"
	LedgerSourceBulkOrderPayment = "bulk_order_payment"
)

// SupplierLedger is the persisted unified ledger row, written whenever a
// purchase, bulk order or payment is recorded. Statements are still computed
// from the source rows; this table is the durable trail for offline
// reconciliation of the two.
type SupplierLedger struct {
	ID                string
	OrganizationID    string
	BranchID          string
	SupplierType      string
	SupplierID        string
	SupplierName      string
	SourceType        string
	ReferenceID       string
	TransactionAmount decimal.Decimal
	PaidAmount        decimal.Decimal
	EntryDate         time.Time
	CreatedAt         time.Time
}
