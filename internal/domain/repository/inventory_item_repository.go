package repository

import (
	"time"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// InventoryItemRepository persistence port for stock batches.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	// ListAvailable returns batches with quantity > 0 for a product at a
	// branch, oldest created first (the canonical rotation order).
	ListAvailable(productID, branchID string) ([]*entity.InventoryItem, error)
	// ListByBranch pages through a branch's batches in the same
	// oldest-created-first order.
	ListByBranch(branchID string, limit, offset int) ([]*entity.InventoryItem, error)
	// DecrementQuantity atomically subtracts qty where quantity >= qty.
	// Returns domain.ErrStockConflict when the condition does not hold.
	DecrementQuantity(id string, qty int64) error
	IncrementQuantity(id string, qty int64) error
	// ExpiringWithin returns batches with stock expiring before the deadline.
	ExpiringWithin(orgID, branchID string, deadline time.Time) ([]*entity.InventoryItem, error)
}
