package bulkorder

import (
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// Action is a request against a bulk order's lifecycle.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionStartReview   Action = "start_review"
	ActionConfirm       Action = "confirm"
	ActionReject        Action = "reject"
	ActionReconfirm     Action = "reconfirm"
	ActionCancel        Action = "cancel"
	ActionRecordPayment Action = "record_payment"
	ActionShip          Action = "ship"
	ActionDeliver       Action = "deliver"
	ActionRelease       Action = "release"
	ActionComplete      Action = "complete"
	ActionImport        Action = "import"
)

// Side identifies which side of the order the actor belongs to.
type Side string

const (
	SideBuyer    Side = "buyer"
	SideSupplier Side = "supplier"
	SideAny      Side = "any"
)

// edge is one legal transition: the status it leads to and the side allowed to take it.
type edge struct {
	next entity.BulkOrderStatus
	side Side
}

// dynamicPayment marks edges whose destination depends on amounts
// (see StatusForPayment).
const dynamicPayment = entity.BulkOrderStatus("_payment")

// transitions is the single source of truth for the order lifecycle. Every
// endpoint consults it; nothing else decides legality.
//
// buyer_reviewing and buyer_confirmed are declared statuses kept for data
// recorded by older clients; no edge produces them anymore. payment_completed
// is in the same boat: full payment now resolves straight to ready_to_ship
// (StatusForPayment), but orders recorded in payment_completed keep their
// ship edge so they can still move forward.
var transitions = map[entity.BulkOrderStatus]map[Action]edge{
	entity.BulkOrderDraft: {
		ActionSubmit: {entity.BulkOrderSubmitted, SideBuyer},
		ActionCancel: {entity.BulkOrderCancelled, SideBuyer},
	},
	entity.BulkOrderSubmitted: {
		ActionStartReview: {entity.BulkOrderSupplierReviewing, SideSupplier},
		ActionConfirm:     {entity.BulkOrderSupplierConfirmed, SideSupplier},
		ActionReject:      {entity.BulkOrderSupplierRejected, SideSupplier},
	},
	entity.BulkOrderSupplierReviewing: {
		ActionConfirm: {entity.BulkOrderSupplierConfirmed, SideSupplier},
		ActionReject:  {entity.BulkOrderSupplierRejected, SideSupplier},
	},
	entity.BulkOrderSupplierConfirmed: {
		ActionReconfirm: {entity.BulkOrderBuyerReconfirming, SideBuyer},
		ActionCancel:    {entity.BulkOrderBuyerCancelled, SideBuyer},
	},
	entity.BulkOrderBuyerReconfirming: {
		ActionRecordPayment: {dynamicPayment, SideBuyer},
	},
	entity.BulkOrderPaymentPending: {
		ActionRecordPayment: {dynamicPayment, SideBuyer},
	},
	entity.BulkOrderPaymentPartial: {
		ActionRecordPayment: {dynamicPayment, SideBuyer},
	},
	entity.BulkOrderPaymentCompleted: {
		ActionShip: {entity.BulkOrderShipped, SideSupplier},
	},
	entity.BulkOrderReadyToShip: {
		ActionShip: {entity.BulkOrderShipped, SideSupplier},
	},
	entity.BulkOrderShipped: {
		ActionDeliver: {entity.BulkOrderDelivered, SideAny},
	},
	entity.BulkOrderDelivered: {
		ActionRelease: {entity.BulkOrderReleased, SideSupplier},
	},
	entity.BulkOrderReleased: {
		ActionComplete: {entity.BulkOrderCompleted, SideSupplier},
	},
	entity.BulkOrderCompleted: {
		ActionImport: {entity.BulkOrderImported, SideBuyer},
	},
}

// Next resolves the status an action leads to from the current one, checking
// that the actor's side is allowed. Returns domain.ErrInvalidTransition for
// anything not in the table and domain.ErrForbidden for the wrong side.
func Next(current entity.BulkOrderStatus, action Action, side Side) (entity.BulkOrderStatus, error) {
	edges, ok := transitions[current]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	e, ok := edges[action]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	if e.side != SideAny && e.side != side {
		return "", domain.ErrForbidden
	}
	return e.next, nil
}

// CanAct reports whether the action is legal from the current status for the side.
func CanAct(current entity.BulkOrderStatus, action Action, side Side) bool {
	_, err := Next(current, action, side)
	return err == nil
}

// StatusForPayment resolves the destination of a payment edge from the amounts:
// nothing paid keeps the order waiting, a partial payment marks it partial, and
// covering the total makes it ready to ship.
func StatusForPayment(total, paid decimal.Decimal) entity.BulkOrderStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return entity.BulkOrderPaymentPending
	case paid.LessThan(total):
		return entity.BulkOrderPaymentPartial
	default:
		return entity.BulkOrderReadyToShip
	}
}

// IsTerminal reports whether no action can leave the status.
func IsTerminal(s entity.BulkOrderStatus) bool {
	_, ok := transitions[s]
	return !ok
}
