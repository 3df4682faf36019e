package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/inventory"
)

func batch(id string, qty int64, createdDay int) inventory.Batch {
	return inventory.Batch{
		ID:          id,
		BatchNumber: "BN-" + id,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(10),
		ExpiryDate:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2026, 1, createdDay, 0, 0, 0, 0, time.UTC),
	}
}

// Oldest batch is drained first, the next batch covers the rest.
func TestAllocate_FIFOAcrossBatches(t *testing.T) {
	batches := []inventory.Batch{
		batch("B2", 10, 2),
		batch("B1", 5, 1),
	}

	plan, err := inventory.Allocate(batches, 7)
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "B1", plan.Allocations[0].InventoryItemID)
	assert.EqualValues(t, 5, plan.Allocations[0].Quantity)
	assert.EqualValues(t, 0, plan.Allocations[0].RemainingInBatch)
	assert.Equal(t, "B2", plan.Allocations[1].InventoryItemID)
	assert.EqualValues(t, 2, plan.Allocations[1].Quantity)
	assert.EqualValues(t, 8, plan.Allocations[1].RemainingInBatch)
	assert.EqualValues(t, 7, plan.TotalAllocated)
}

func TestAllocate_SingleBatchCoversRequest(t *testing.T) {
	plan, err := inventory.Allocate([]inventory.Batch{batch("B1", 20, 1)}, 4)
	require.NoError(t, err)

	require.Len(t, plan.Allocations, 1)
	assert.EqualValues(t, 4, plan.Allocations[0].Quantity)
	assert.EqualValues(t, 16, plan.Allocations[0].RemainingInBatch)
}

// Total allocated always equals the request when stock suffices, and no batch
// is ever over-drawn.
func TestAllocate_NeverOverdrawsBatch(t *testing.T) {
	batches := []inventory.Batch{
		batch("B1", 3, 1),
		batch("B2", 3, 2),
		batch("B3", 3, 3),
	}
	plan, err := inventory.Allocate(batches, 8)
	require.NoError(t, err)

	var total int64
	for _, a := range plan.Allocations {
		assert.LessOrEqual(t, a.Quantity, int64(3))
		total += a.Quantity
	}
	assert.EqualValues(t, 8, total)
	assert.EqualValues(t, 8, plan.TotalAllocated)
}

func TestAllocate_InsufficientStockReportsShortfall(t *testing.T) {
	batches := []inventory.Batch{
		batch("B1", 5, 1),
		batch("B2", 10, 2),
	}

	_, err := inventory.Allocate(batches, 16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insufficientErr *inventory.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.EqualValues(t, 16, insufficientErr.Requested)
	assert.EqualValues(t, 15, insufficientErr.Available)
}

func TestAllocate_SkipsEmptyBatches(t *testing.T) {
	batches := []inventory.Batch{
		batch("B0", 0, 1), // zeroed by an earlier sale
		batch("B1", 5, 2),
	}
	plan, err := inventory.Allocate(batches, 5)
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "B1", plan.Allocations[0].InventoryItemID)
}

func TestAllocate_RejectsNonPositiveRequest(t *testing.T) {
	_, err := inventory.Allocate([]inventory.Batch{batch("B1", 5, 1)}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Allocate([]inventory.Batch{batch("B1", 5, 1)}, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
