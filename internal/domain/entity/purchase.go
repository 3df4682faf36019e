package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseTransaction is one restock event from a supplier. A transaction with
// TotalAmount zero is payment-only: it exists to record an installment paid
// after the original purchase.
type PurchaseTransaction struct {
	ID             string
	OrganizationID string
	BranchID       string
	SupplierID     string // platform supplier user, empty for custom suppliers
	SupplierName   string
	InvoiceNumber  string
	TotalAmount    decimal.Decimal
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// IsPaymentOnly reports whether this transaction only records a payment.
func (t *PurchaseTransaction) IsPaymentOnly() bool {
	return t.TotalAmount.IsZero()
}

// PaymentRecord is one payment against a purchase transaction.
type PaymentRecord struct {
	ID            string
	TransactionID string
	PaidAmount    decimal.Decimal
	Method        string
	Notes         string
	CreatedAt     time.Time
}

// CreditAmount returns the outstanding credit of a transaction after a payment.
func CreditAmount(total, paid decimal.Decimal) decimal.Decimal {
	credit := total.Sub(paid)
	if credit.IsNegative() {
		return decimal.Zero
	}
	return credit
}
