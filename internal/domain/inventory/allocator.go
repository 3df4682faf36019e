package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// Batch is the slice of an inventory row the allocator needs.
type Batch struct {
	ID          string
	BatchNumber string
	Quantity    int64
	UnitPrice   decimal.Decimal
	ExpiryDate  time.Time
	CreatedAt   time.Time
}

// Allocation is one batch draw inside a plan.
type Allocation struct {
	InventoryItemID  string
	BatchNumber      string
	Quantity         int64
	UnitPrice        decimal.Decimal
	ExpiryDate       time.Time
	RemainingInBatch int64
}

// Plan is the result of an allocation: which batches to draw and how much.
// Computing a plan does not mutate stock; the decrement happens when the sale
// is finalized, as an atomic conditional update per batch.
type Plan struct {
	Allocations    []Allocation
	TotalAllocated int64
}

// InsufficientStockError reports the shortfall when available < requested.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// Unwrap lets callers match with errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// Allocate walks batches oldest-created-first (the single stock rotation policy,
// for allocation, deallocation and listings alike) consuming
// min(batch.Quantity, remaining) from each until the request is covered.
func Allocate(batches []Batch, requested int64) (*Plan, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}

	ordered := make([]Batch, 0, len(batches))
	var available int64
	for _, b := range batches {
		if b.Quantity <= 0 {
			continue
		}
		ordered = append(ordered, b)
		available += b.Quantity
	}
	if available < requested {
		return nil, &InsufficientStockError{Requested: requested, Available: available}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	plan := &Plan{}
	remaining := requested
	for _, b := range ordered {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		plan.Allocations = append(plan.Allocations, Allocation{
			InventoryItemID:  b.ID,
			BatchNumber:      b.BatchNumber,
			Quantity:         take,
			UnitPrice:        b.UnitPrice,
			ExpiryDate:       b.ExpiryDate,
			RemainingInBatch: b.Quantity - take,
		})
		plan.TotalAllocated += take
		remaining -= take
	}
	return plan, nil
}

// BatchesFromItems projects inventory rows into allocator batches.
func BatchesFromItems(items []*entity.InventoryItem) []Batch {
	batches := make([]Batch, 0, len(items))
	for _, it := range items {
		batches = append(batches, Batch{
			ID:          it.ID,
			BatchNumber: it.BatchNumber,
			Quantity:    it.Quantity,
			UnitPrice:   it.SellingPrice,
			ExpiryDate:  it.ExpiryDate,
			CreatedAt:   it.CreatedAt,
		})
	}
	return batches
}
