package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest body for POST /api/inventory/restock. Creates a new batch and
// its purchase transaction.
type RestockRequest struct {
	ProductID     string          `json:"product_id"`
	BranchID      string          `json:"branch_id"`
	SupplierID    string          `json:"supplier_id"` // platform supplier user, optional
	SupplierName  string          `json:"supplier_name"`
	InvoiceNumber string          `json:"invoice_number"`
	BatchNumber   string          `json:"batch_number"`
	Quantity      int64           `json:"quantity"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// AllocateStockRequest body for POST /api/inventory/allocate-stock.
type AllocateStockRequest struct {
	ProductID string `json:"medicine_id"`
	BranchID  string `json:"branch_id"`
	Quantity  int64  `json:"quantity"`
}

// AllocationDTO one batch draw of an allocation plan.
type AllocationDTO struct {
	BatchID          string          `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	AllocatedQty     int64           `json:"allocated_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	RemainingInBatch int64           `json:"remaining_in_batch"`
}

// AllocateStockResponse plan for a requested quantity.
type AllocateStockResponse struct {
	ProductID      string          `json:"medicine_id"`
	Allocations    []AllocationDTO `json:"allocations"`
	TotalAllocated int64           `json:"total_allocated"`
}

// BatchDTO public view of a stock batch.
type BatchDTO struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	BranchID     string          `json:"branch_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int64           `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	SupplierName string          `json:"supplier_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExpiryAlertDTO one batch close to expiry.
type ExpiryAlertDTO struct {
	BatchDTO
	DaysUntilExpiry int `json:"days_until_expiry"`
}
