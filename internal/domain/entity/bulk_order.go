package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BulkOrderStatus is the lifecycle state of an inter-organization order.
type BulkOrderStatus string

// Bulk order statuses. The legal edges between them live in the
// domain/bulkorder transition table; status itself is the source of truth,
// the status log is audit only.
const (
	BulkOrderDraft             BulkOrderStatus = "draft"
	BulkOrderSubmitted         BulkOrderStatus = "submitted"
	BulkOrderSupplierReviewing BulkOrderStatus = "supplier_reviewing"
	BulkOrderSupplierConfirmed BulkOrderStatus = "supplier_confirmed"
	BulkOrderSupplierRejected  BulkOrderStatus = "supplier_rejected"
	BulkOrderBuyerReviewing    BulkOrderStatus = "buyer_reviewing"
	BulkOrderBuyerConfirmed    BulkOrderStatus = "buyer_confirmed"
	BulkOrderBuyerReconfirming BulkOrderStatus = "buyer_reconfirming"
	BulkOrderBuyerCancelled    BulkOrderStatus = "buyer_cancelled"
	BulkOrderPaymentPending    BulkOrderStatus = "payment_pending"
	BulkOrderPaymentPartial    BulkOrderStatus = "payment_partial"
	BulkOrderPaymentCompleted  BulkOrderStatus = "payment_completed"
	BulkOrderReadyToShip       BulkOrderStatus = "ready_to_ship"
	BulkOrderShipped           BulkOrderStatus = "shipped"
	BulkOrderDelivered         BulkOrderStatus = "delivered"
	BulkOrderCompleted         BulkOrderStatus = "completed"
	BulkOrderReleased          BulkOrderStatus = "released"
	BulkOrderImported          BulkOrderStatus = "imported"
	BulkOrderCancelled         BulkOrderStatus = "cancelled"
)

// Bulk order payment types and methods.
const (
	PaymentTypeAdvance     = "advance"
	PaymentTypeInstallment = "installment"
	PaymentTypeFinal       = "final"

	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMobileMoney  = "mobile_money"
)

// Default markup applied to unit cost when importing a delivered order into
// buyer inventory without an explicit selling price.
var DefaultImportMarkup = decimal.NewFromFloat(1.2)

// BulkOrder is an order placed by a buyer organization against a supplier
// organization, fulfilled from the supplier's branch stock.
type BulkOrder struct {
	ID               string
	OrderNumber      string
	BuyerOrgID       string
	BuyerBranchID    string
	SupplierOrgID    string
	SupplierBranchID string
	SupplierUserID   string
	Status           BulkOrderStatus
	TotalAmount      decimal.Decimal
	PaidAmount       decimal.Decimal
	TrackingNumber   string
	Carrier          string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RemainingAmount returns TotalAmount - PaidAmount, clamped at zero.
func (o *BulkOrder) RemainingAmount() decimal.Decimal {
	remaining := o.TotalAmount.Sub(o.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// BulkOrderItem is one product line: requested by the buyer, confirmed by the
// supplier, finalized by the buyer on reconfirmation.
type BulkOrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	RequestedQty int64
	ConfirmedQty int64
	FinalQty     int64
	UnitPrice    decimal.Decimal
	Cancelled    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveQty is the quantity the order currently stands at for this line.
func (i *BulkOrderItem) EffectiveQty() int64 {
	if i.Cancelled {
		return 0
	}
	if i.FinalQty > 0 {
		return i.FinalQty
	}
	if i.ConfirmedQty > 0 {
		return i.ConfirmedQty
	}
	return i.RequestedQty
}

// BulkOrderPayment is one typed payment against an order.
type BulkOrderPayment struct {
	ID          string
	OrderID     string
	PaymentType string // advance | installment | final
	Method      string // cash | bank_transfer | mobile_money
	Amount      decimal.Decimal
	Reference   string
	RecordedBy  string
	CreatedAt   time.Time
}

// BulkOrderStatusLog is one append-only audit row per transition.
type BulkOrderStatusLog struct {
	ID         string
	OrderID    string
	FromStatus BulkOrderStatus
	ToStatus   BulkOrderStatus
	Notes      string
	ActorID    string
	CreatedAt  time.Time
}
