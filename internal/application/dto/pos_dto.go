package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartAllocationDTO batch draw the client obtained from allocate-stock.
type CartAllocationDTO struct {
	InventoryItemID string `json:"inventory_item_id"`
	Quantity        int64  `json:"allocated_quantity"`
}

// CartItemDTO one line of a sale cart.
type CartItemDTO struct {
	ProductID   string              `json:"product_id"`
	Quantity    int64               `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"` // zero = use batch selling price
	Allocations []CartAllocationDTO `json:"allocated_batches"`
}

// CompleteSaleRequest body for POST /api/pos/sales/complete.
type CompleteSaleRequest struct {
	BranchID      string          `json:"branch_id"`
	PatientID     string          `json:"patient_id"` // empty = walk-in
	Items         []CartItemDTO   `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Paid          decimal.Decimal `json:"paid"`
	PaymentMethod string          `json:"payment_method"`
}

// SaleItemResponse one persisted sale line.
type SaleItemResponse struct {
	ID          string              `json:"id"`
	ProductID   string              `json:"product_id"`
	Quantity    int64               `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Allocations []CartAllocationDTO `json:"allocated_batches"`
}

// SaleResponse receipt-level view of a sale.
type SaleResponse struct {
	ID            string             `json:"sale_id"`
	SaleNumber    string             `json:"sale_number"`
	BranchID      string             `json:"branch_id"`
	PatientID     string             `json:"patient_id,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	Credit        decimal.Decimal    `json:"credit"`
	Change        decimal.Decimal    `json:"change"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ReturnItemRequest one line of a return request.
type ReturnItemRequest struct {
	SaleItemID       string `json:"sale_item_id"`
	QuantityReturned int64  `json:"quantity_returned"`
}

// CreateReturnRequest body for POST /api/pos/returns.
type CreateReturnRequest struct {
	SaleID string              `json:"sale_id"`
	Reason string              `json:"reason"`
	Notes  string              `json:"notes"`
	Items  []ReturnItemRequest `json:"items"`
}

// ApproveReturnRequest optional accepted-quantity overrides per item.
type ApproveReturnRequest struct {
	AcceptedQuantities map[string]int64 `json:"accepted_quantities"` // return_item_id -> qty
}

// RejectReturnRequest body for POST /api/pos/returns/:id/reject.
type RejectReturnRequest struct {
	Notes string `json:"notes"`
}

// ReturnItemResponse one persisted return line.
type ReturnItemResponse struct {
	ID               string          `json:"id"`
	SaleItemID       string          `json:"sale_item_id"`
	ProductID        string          `json:"product_id"`
	QuantityReturned int64           `json:"quantity_returned"`
	QuantityAccepted int64           `json:"quantity_accepted"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
}

// ReturnResponse view of a sale return.
type ReturnResponse struct {
	ID           string               `json:"id"`
	SaleID       string               `json:"sale_id"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason"`
	Notes        string               `json:"notes,omitempty"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	Items        []ReturnItemResponse `json:"items"`
	CreatedAt    time.Time            `json:"created_at"`
}
