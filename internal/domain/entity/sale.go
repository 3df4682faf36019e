package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Sale is the header of a point-of-sale transaction.
// Invariants: Total = Subtotal - Discount + Tax; Credit = max(0, Total - Paid).
type Sale struct {
	ID             string
	OrganizationID string
	BranchID       string
	PatientID      string // empty for anonymous walk-ins
	SaleNumber     string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Paid           decimal.Decimal
	Credit         decimal.Decimal
	Change         decimal.Decimal
	PaymentMethod  string // cash | card | mobile_money | credit
	Status         string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BatchAllocation records how many units of a sale line were drawn from one batch.
// Stored as a JSON list on the sale item.
type BatchAllocation struct {
	InventoryItemID string `json:"inventory_item_id"`
	Quantity        int64  `json:"allocated_quantity"`
}

// SaleItem is one product line of a sale. The sum of allocation quantities
// equals Quantity.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Allocations []BatchAllocation
}
