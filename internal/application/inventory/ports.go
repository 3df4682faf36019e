package inventory

import (
	"context"

	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// TxRepos is the set of repositories bound to one database transaction.
type TxRepos struct {
	Items      repository.InventoryItemRepository
	Sales      repository.SaleRepository
	Returns    repository.ReturnRepository
	Purchases  repository.PurchaseRepository
	BulkOrders repository.BulkOrderRepository
	Ledger     repository.SupplierLedgerRepository
}

// TxRunner runs a function inside a database transaction, passing repositories
// bound to that transaction. Guarantees atomicity for the inventory, sale and
// order engines.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
