package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryDTO one line of a reconciled supplier statement (newest first).
type LedgerEntryDTO struct {
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	SourceType     string          `json:"source_type"`
	ReferenceID    string          `json:"reference_id"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	PaymentAmount  decimal.Decimal `json:"payment_amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// SupplierStatementResponse reconciled statement plus summary totals.
type SupplierStatementResponse struct {
	SupplierID     string           `json:"supplier_id,omitempty"`
	SupplierName   string           `json:"supplier_name"`
	SupplierType   string           `json:"supplier_type"`
	Entries        []LedgerEntryDTO `json:"entries"`
	TotalPurchases decimal.Decimal  `json:"total_purchases"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	TotalCredit    decimal.Decimal  `json:"total_credit"`
}
