package repository

import "github.com/medtrack/medtrack-api/internal/domain/entity"

// PurchaseRepository persistence port for purchase transactions and payments.
type PurchaseRepository interface {
	CreateTransaction(tx *entity.PurchaseTransaction) error
	GetTransaction(id string) (*entity.PurchaseTransaction, error)
	ListTransactions(orgID, branchID string) ([]*entity.PurchaseTransaction, error)
	AddPayment(payment *entity.PaymentRecord) error
	ListPayments(transactionID string) ([]*entity.PaymentRecord, error)
}

// SupplierLedgerRepository persistence port for the durable ledger trail.
type SupplierLedgerRepository interface {
	Create(row *entity.SupplierLedger) error
	ListBySupplier(orgID, branchID, supplierID, supplierName string) ([]*entity.SupplierLedger, error)
}
