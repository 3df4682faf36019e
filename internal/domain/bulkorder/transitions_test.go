package bulkorder_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/bulkorder"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// The full happy path from draft to imported, each step by the right side.
func TestNext_HappyPath(t *testing.T) {
	steps := []struct {
		from   entity.BulkOrderStatus
		action bulkorder.Action
		side   bulkorder.Side
		want   entity.BulkOrderStatus
	}{
		{entity.BulkOrderDraft, bulkorder.ActionSubmit, bulkorder.SideBuyer, entity.BulkOrderSubmitted},
		{entity.BulkOrderSubmitted, bulkorder.ActionStartReview, bulkorder.SideSupplier, entity.BulkOrderSupplierReviewing},
		{entity.BulkOrderSupplierReviewing, bulkorder.ActionConfirm, bulkorder.SideSupplier, entity.BulkOrderSupplierConfirmed},
		{entity.BulkOrderSupplierConfirmed, bulkorder.ActionReconfirm, bulkorder.SideBuyer, entity.BulkOrderBuyerReconfirming},
		{entity.BulkOrderReadyToShip, bulkorder.ActionShip, bulkorder.SideSupplier, entity.BulkOrderShipped},
		{entity.BulkOrderShipped, bulkorder.ActionDeliver, bulkorder.SideBuyer, entity.BulkOrderDelivered},
		{entity.BulkOrderDelivered, bulkorder.ActionRelease, bulkorder.SideSupplier, entity.BulkOrderReleased},
		{entity.BulkOrderReleased, bulkorder.ActionComplete, bulkorder.SideSupplier, entity.BulkOrderCompleted},
		{entity.BulkOrderCompleted, bulkorder.ActionImport, bulkorder.SideBuyer, entity.BulkOrderImported},
	}

	for _, s := range steps {
		got, err := bulkorder.Next(s.from, s.action, s.side)
		require.NoError(t, err, "%s + %s", s.from, s.action)
		assert.Equal(t, s.want, got)
	}
}

func TestNext_WrongSideIsForbidden(t *testing.T) {
	// Only the supplier may confirm.
	_, err := bulkorder.Next(entity.BulkOrderSubmitted, bulkorder.ActionConfirm, bulkorder.SideBuyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Only the buyer may submit.
	_, err = bulkorder.Next(entity.BulkOrderDraft, bulkorder.ActionSubmit, bulkorder.SideSupplier)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Either side may mark delivery.
	_, err = bulkorder.Next(entity.BulkOrderShipped, bulkorder.ActionDeliver, bulkorder.SideSupplier)
	assert.NoError(t, err)
}

func TestNext_UndefinedEdgesRejected(t *testing.T) {
	cases := []struct {
		from   entity.BulkOrderStatus
		action bulkorder.Action
		side   bulkorder.Side
	}{
		{entity.BulkOrderDraft, bulkorder.ActionShip, bulkorder.SideSupplier},
		{entity.BulkOrderDraft, bulkorder.ActionImport, bulkorder.SideBuyer},
		{entity.BulkOrderSubmitted, bulkorder.ActionReconfirm, bulkorder.SideBuyer},
		{entity.BulkOrderSupplierRejected, bulkorder.ActionSubmit, bulkorder.SideBuyer}, // terminal
		{entity.BulkOrderImported, bulkorder.ActionDeliver, bulkorder.SideBuyer},        // terminal
		{entity.BulkOrderCancelled, bulkorder.ActionSubmit, bulkorder.SideBuyer},        // terminal
		{entity.BulkOrderShipped, bulkorder.ActionShip, bulkorder.SideSupplier},         // no self loop
	}
	for _, c := range cases {
		_, err := bulkorder.Next(c.from, c.action, c.side)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s + %s", c.from, c.action)
	}
}

func TestNext_RejectAllowedFromSubmittedAndReviewing(t *testing.T) {
	got, err := bulkorder.Next(entity.BulkOrderSubmitted, bulkorder.ActionReject, bulkorder.SideSupplier)
	require.NoError(t, err)
	assert.Equal(t, entity.BulkOrderSupplierRejected, got)

	got, err = bulkorder.Next(entity.BulkOrderSupplierReviewing, bulkorder.ActionReject, bulkorder.SideSupplier)
	require.NoError(t, err)
	assert.Equal(t, entity.BulkOrderSupplierRejected, got)
}

func TestNext_LegacyPaymentCompletedCanShip(t *testing.T) {
	// Older data may sit in payment_completed even though full payment now
	// resolves to ready_to_ship; those orders still move forward.
	got, err := bulkorder.Next(entity.BulkOrderPaymentCompleted, bulkorder.ActionShip, bulkorder.SideSupplier)
	require.NoError(t, err)
	assert.Equal(t, entity.BulkOrderShipped, got)
}

func TestStatusForPayment(t *testing.T) {
	total := decimal.NewFromInt(100)

	assert.Equal(t, entity.BulkOrderPaymentPending, bulkorder.StatusForPayment(total, decimal.Zero))
	assert.Equal(t, entity.BulkOrderPaymentPartial, bulkorder.StatusForPayment(total, decimal.NewFromInt(40)))
	assert.Equal(t, entity.BulkOrderReadyToShip, bulkorder.StatusForPayment(total, decimal.NewFromInt(100)))
	assert.Equal(t, entity.BulkOrderReadyToShip, bulkorder.StatusForPayment(total, decimal.NewFromInt(120)))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, bulkorder.IsTerminal(entity.BulkOrderSupplierRejected))
	assert.True(t, bulkorder.IsTerminal(entity.BulkOrderBuyerCancelled))
	assert.True(t, bulkorder.IsTerminal(entity.BulkOrderCancelled))
	assert.True(t, bulkorder.IsTerminal(entity.BulkOrderImported))
	assert.False(t, bulkorder.IsTerminal(entity.BulkOrderDraft))
	assert.False(t, bulkorder.IsTerminal(entity.BulkOrderCompleted))
}
