package repository

import (
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// SaleRepository persistence port for sales and their items.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	GetItemByID(itemID string) (*entity.SaleItem, error)
	ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error)
	// ApplyRefund reduces the sale's totals after a processed return.
	ApplyRefund(saleID string, total, paid, credit decimal.Decimal, status string) error
}

// ReturnRepository persistence port for sale returns.
type ReturnRepository interface {
	Create(ret *entity.SaleReturn) error
	CreateItem(item *entity.ReturnItem) error
	GetByID(id string) (*entity.SaleReturn, error)
	GetItems(returnID string) ([]*entity.ReturnItem, error)
	Update(ret *entity.SaleReturn) error
	UpdateItem(item *entity.ReturnItem) error
	// AcceptedQuantity sums quantity_accepted for a sale item across all its
	// non-rejected returns, skipping excludeReturnID ("" skips none). Callers
	// use it to keep lifetime returns within the quantity sold.
	AcceptedQuantity(saleItemID, excludeReturnID string) (int64, error)
}
