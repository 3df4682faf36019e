package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one stock batch of a product at a branch.
// Rows are append-only: quantity is decremented to zero by sales and restored
// by returns, but a batch is never physically deleted.
type InventoryItem struct {
	ID             string
	OrganizationID string
	BranchID       string
	ProductID      string
	SupplierID     string // platform supplier user, empty for custom suppliers
	SupplierName   string
	BatchNumber    string
	Quantity       int64
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	ExpiryDate     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExpired reports whether the batch expiry date has passed.
func (i *InventoryItem) IsExpired(now time.Time) bool {
	return !i.ExpiryDate.IsZero() && i.ExpiryDate.Before(now)
}

// HasStock reports whether the batch still has units available.
func (i *InventoryItem) HasStock() bool {
	return i.Quantity > 0
}
