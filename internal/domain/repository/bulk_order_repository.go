package repository

import (
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// BulkOrderRepository persistence port for inter-organization orders.
type BulkOrderRepository interface {
	Create(order *entity.BulkOrder) error
	CreateItem(item *entity.BulkOrderItem) error
	GetByID(id string) (*entity.BulkOrder, error)
	// GetForUpdate locks the order row for the remainder of the transaction.
	GetForUpdate(id string) (*entity.BulkOrder, error)
	GetItems(orderID string) ([]*entity.BulkOrderItem, error)
	UpdateItem(item *entity.BulkOrderItem) error
	UpdateStatus(id string, status entity.BulkOrderStatus) error
	UpdateTotals(id string, total, paid decimal.Decimal, status entity.BulkOrderStatus) error
	UpdateShipping(id string, trackingNumber, carrier string, status entity.BulkOrderStatus) error
	AddPayment(payment *entity.BulkOrderPayment) error
	ListPayments(orderID string) ([]*entity.BulkOrderPayment, error)
	AddStatusLog(log *entity.BulkOrderStatusLog) error
	ListStatusLogs(orderID string) ([]*entity.BulkOrderStatusLog, error)
	ListForOrganization(orgID string, limit, offset int) ([]*entity.BulkOrder, error)
	ListBySupplierUser(supplierUserID, buyerOrgID string) ([]*entity.BulkOrder, error)
}
