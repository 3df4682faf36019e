package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return statuses. Stock is only restored on process (pending → approved → completed).
const (
	ReturnStatusPending   = "pending"
	ReturnStatusApproved  = "approved"
	ReturnStatusCompleted = "completed"
	ReturnStatusRejected  = "rejected"
)

// Return reason codes. Recorded for reporting only; processing is identical for all.
const (
	ReturnReasonDamaged         = "damaged"
	ReturnReasonExpired         = "expired"
	ReturnReasonWrongItem       = "wrong_item"
	ReturnReasonCustomerRequest = "customer_request"
	ReturnReasonOther           = "other"
)

// SaleReturn references an original sale and carries its own line items.
type SaleReturn struct {
	ID             string
	OrganizationID string
	BranchID       string
	SaleID         string
	Status         string
	Reason         string
	Notes          string
	RefundAmount   decimal.Decimal // set on approval
	CreatedBy      string
	ApprovedBy     string
	ProcessedBy    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReturnItem points at the original sale item line.
// QuantityAccepted defaults to QuantityReturned on approval.
type ReturnItem struct {
	ID               string
	ReturnID         string
	SaleItemID       string
	ProductID        string
	QuantityReturned int64
	QuantityAccepted int64
	UnitPrice        decimal.Decimal
	RefundAmount     decimal.Decimal
}
