package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BulkOrderItemRequest one requested line when creating an order.
type BulkOrderItemRequest struct {
	ProductID    string          `json:"product_id"`
	RequestedQty int64           `json:"requested_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// CreateBulkOrderRequest body for POST /api/bulk-orders.
type CreateBulkOrderRequest struct {
	BuyerBranchID    string                 `json:"buyer_branch_id"`
	SupplierOrgID    string                 `json:"supplier_org_id"`
	SupplierBranchID string                 `json:"supplier_branch_id"`
	SupplierUserID   string                 `json:"supplier_user_id"`
	Notes            string                 `json:"notes"`
	Items            []BulkOrderItemRequest `json:"items"`
}

// BulkOrderItemUpdate per-item adjustment during confirm/reconfirm.
type BulkOrderItemUpdate struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Cancel    bool            `json:"cancel"`
}

// BulkOrderStatusRequest body for POST /api/bulk-orders/:id/status.
// Action drives the transition table; Items applies per-item changes on
// confirm (supplier) and reconfirm (buyer); tracking fields apply on ship;
// SellingPrices applies on import (product_id -> price, cost*markup otherwise).
type BulkOrderStatusRequest struct {
	Action         string                     `json:"action"`
	Notes          string                     `json:"notes"`
	Items          []BulkOrderItemUpdate      `json:"items"`
	TrackingNumber string                     `json:"tracking_number"`
	Carrier        string                     `json:"carrier"`
	SellingPrices  map[string]decimal.Decimal `json:"selling_prices"`
}

// BulkOrderPaymentRequest body for POST /api/bulk-orders/:id/payments.
type BulkOrderPaymentRequest struct {
	PaymentType string          `json:"payment_type"` // advance | installment | final
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
}

// BulkOrderItemResponse one order line.
type BulkOrderItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	RequestedQty int64           `json:"requested_quantity"`
	ConfirmedQty int64           `json:"confirmed_quantity"`
	FinalQty     int64           `json:"final_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Cancelled    bool            `json:"cancelled"`
}

// BulkOrderPaymentResponse one recorded payment.
type BulkOrderPaymentResponse struct {
	ID          string          `json:"id"`
	PaymentType string          `json:"payment_type"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BulkOrderStatusLogResponse one audit row.
type BulkOrderStatusLogResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Notes      string    `json:"notes,omitempty"`
	ActorID    string    `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BulkOrderResponse full view of an order.
type BulkOrderResponse struct {
	ID              string                       `json:"id"`
	OrderNumber     string                       `json:"order_number"`
	BuyerOrgID      string                       `json:"buyer_org_id"`
	BuyerBranchID   string                       `json:"buyer_branch_id"`
	SupplierOrgID   string                       `json:"supplier_org_id"`
	SupplierUserID  string                       `json:"supplier_user_id"`
	Status          string                       `json:"status"`
	TotalAmount     decimal.Decimal              `json:"total_amount"`
	PaidAmount      decimal.Decimal              `json:"total_paid_amount"`
	RemainingAmount decimal.Decimal              `json:"remaining_amount"`
	TrackingNumber  string                       `json:"tracking_number,omitempty"`
	Carrier         string                       `json:"carrier,omitempty"`
	Items           []BulkOrderItemResponse      `json:"items,omitempty"`
	Payments        []BulkOrderPaymentResponse   `json:"payments,omitempty"`
	StatusLogs      []BulkOrderStatusLogResponse `json:"status_logs,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}
