package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implements InventoryItemRepository on PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository builds the persistence adapter for stock batches.
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, organization_id, branch_id, product_id, supplier_id, supplier_name, batch_number, quantity, cost_price, selling_price, expiry_date, created_at, updated_at`

// Create persists a new batch.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrganizationID, item.BranchID, item.ProductID,
		nullIfEmpty(item.SupplierID), item.SupplierName, item.BatchNumber, item.Quantity,
		item.CostPrice, item.SellingPrice, nullTime(item.ExpiryDate),
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID fetches one batch, nil when absent.
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// ListAvailable returns batches with stock for a product at a branch, oldest
// created first. This ordering is the stock rotation policy; the allocator
// relies on it.
func (r *InventoryItemRepo) ListAvailable(productID, branchID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE product_id = $1 AND branch_id = $2 AND quantity > 0
		ORDER BY created_at`
	return r.list(query, productID, branchID)
}

// ListByBranch returns all batches at a branch, oldest created first, the
// same rotation order ListAvailable uses.
func (r *InventoryItemRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items WHERE branch_id = $1
		ORDER BY created_at LIMIT $2 OFFSET $3`
	return r.list(query, branchID, limit, offset)
}

// DecrementQuantity subtracts qty only when the batch still holds at least
// that much. Zero rows affected means a concurrent sale drained the batch
// first; the caller gets ErrStockConflict and the transaction rolls back.
func (r *InventoryItemRepo) DecrementQuantity(id string, qty int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET quantity = quantity - $2, updated_at = now()
		 WHERE id = $1 AND quantity >= $2`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrStockConflict
	}
	return nil
}

// IncrementQuantity adds qty back to a batch (returns, order releases undone).
func (r *InventoryItemRepo) IncrementQuantity(id string, qty int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET quantity = quantity + $2, updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("increment inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExpiringWithin returns batches with stock expiring before the deadline.
func (r *InventoryItemRepo) ExpiringWithin(orgID, branchID string, deadline time.Time) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE organization_id = $1 AND branch_id = $2 AND quantity > 0
		AND expiry_date IS NOT NULL AND expiry_date <= $3
		ORDER BY expiry_date`
	return r.list(query, orgID, branchID, deadline)
}

func (r *InventoryItemRepo) list(query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	var supplierID *string
	var expiry *time.Time
	err := row.Scan(
		&item.ID, &item.OrganizationID, &item.BranchID, &item.ProductID,
		&supplierID, &item.SupplierName, &item.BatchNumber, &item.Quantity,
		&item.CostPrice, &item.SellingPrice, &expiry, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.SupplierID = emptyIfNull(supplierID)
	if expiry != nil {
		item.ExpiryDate = *expiry
	}
	return &item, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
