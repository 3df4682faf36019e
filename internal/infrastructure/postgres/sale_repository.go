package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implements SaleRepository on PostgreSQL. Batch allocations are
// stored as a JSONB column on the sale item.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository builds the persistence adapter for sales.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, organization_id, branch_id, patient_id, sale_number, subtotal, discount, tax, total, paid, credit, change, payment_method, status, created_by, created_at, updated_at`

// Create persists a sale header.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OrganizationID, sale.BranchID, nullIfEmpty(sale.PatientID),
		sale.SaleNumber, sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.Paid, sale.Credit, sale.Change, sale.PaymentMethod, sale.Status,
		sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persists one sale line with its allocation list.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	allocations, err := json.Marshal(item.Allocations)
	if err != nil {
		return fmt.Errorf("marshal allocations: %w", err)
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal, allocations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
		item.Subtotal, allocations,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID fetches one sale, nil when absent.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// GetItems returns a sale's lines.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal, allocations
		FROM sale_items WHERE sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleItem
	for rows.Next() {
		item, err := scanSaleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// GetItemByID fetches one sale line, nil when absent.
func (r *SaleRepo) GetItemByID(itemID string) (*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal, allocations
		FROM sale_items WHERE id = $1`
	item, err := scanSaleItem(r.q.QueryRow(context.Background(), query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale item: %w", err)
	}
	return item, nil
}

// ListByBranch returns a branch's sales, newest first.
func (r *SaleRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE branch_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

// ApplyRefund rewrites the sale's money columns after a processed return.
func (r *SaleRepo) ApplyRefund(saleID string, total, paid, credit decimal.Decimal, status string) error {
	query := `
		UPDATE sales SET total = $2, paid = $3, credit = $4, status = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, saleID, total, paid, credit, status)
	if err != nil {
		return fmt.Errorf("apply refund: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var patientID *string
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.BranchID, &patientID, &s.SaleNumber,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total, &s.Paid, &s.Credit, &s.Change,
		&s.PaymentMethod, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.PatientID = emptyIfNull(patientID)
	return &s, nil
}

func scanSaleItem(row pgx.Row) (*entity.SaleItem, error) {
	var item entity.SaleItem
	var allocations []byte
	err := row.Scan(
		&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice,
		&item.Subtotal, &allocations,
	)
	if err != nil {
		return nil, err
	}
	if len(allocations) > 0 {
		if err := json.Unmarshal(allocations, &item.Allocations); err != nil {
			return nil, fmt.Errorf("unmarshal allocations: %w", err)
		}
	}
	return &item, nil
}

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implements ReturnRepository on PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository builds the persistence adapter for sale returns.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persists a return header.
func (r *ReturnRepo) Create(ret *entity.SaleReturn) error {
	query := `
		INSERT INTO sale_returns (id, organization_id, branch_id, sale_id, status, reason, notes, refund_amount, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.OrganizationID, ret.BranchID, ret.SaleID, ret.Status, ret.Reason,
		ret.Notes, ret.RefundAmount, ret.CreatedBy, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// CreateItem persists one return line.
func (r *ReturnRepo) CreateItem(item *entity.ReturnItem) error {
	query := `
		INSERT INTO return_items (id, return_id, sale_item_id, product_id, quantity_returned, quantity_accepted, unit_price, refund_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ReturnID, item.SaleItemID, item.ProductID,
		item.QuantityReturned, item.QuantityAccepted, item.UnitPrice, item.RefundAmount,
	)
	if err != nil {
		return fmt.Errorf("insert return item: %w", err)
	}
	return nil
}

// GetByID fetches one return, nil when absent.
func (r *ReturnRepo) GetByID(id string) (*entity.SaleReturn, error) {
	query := `
		SELECT id, organization_id, branch_id, sale_id, status, reason, notes, refund_amount,
			created_by, approved_by, processed_by, created_at, updated_at
		FROM sale_returns WHERE id = $1`
	var ret entity.SaleReturn
	var approvedBy, processedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&ret.ID, &ret.OrganizationID, &ret.BranchID, &ret.SaleID, &ret.Status,
		&ret.Reason, &ret.Notes, &ret.RefundAmount, &ret.CreatedBy,
		&approvedBy, &processedBy, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	ret.ApprovedBy = emptyIfNull(approvedBy)
	ret.ProcessedBy = emptyIfNull(processedBy)
	return &ret, nil
}

// GetItems returns a return's lines.
func (r *ReturnRepo) GetItems(returnID string) ([]*entity.ReturnItem, error) {
	query := `
		SELECT id, return_id, sale_item_id, product_id, quantity_returned, quantity_accepted, unit_price, refund_amount
		FROM return_items WHERE return_id = $1`
	rows, err := r.q.Query(context.Background(), query, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReturnItem
	for rows.Next() {
		var item entity.ReturnItem
		if err := rows.Scan(
			&item.ID, &item.ReturnID, &item.SaleItemID, &item.ProductID,
			&item.QuantityReturned, &item.QuantityAccepted, &item.UnitPrice, &item.RefundAmount,
		); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

// Update rewrites a return header's mutable fields.
func (r *ReturnRepo) Update(ret *entity.SaleReturn) error {
	query := `
		UPDATE sale_returns SET status = $2, notes = $3, refund_amount = $4,
			approved_by = $5, processed_by = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.Status, ret.Notes, ret.RefundAmount,
		nullIfEmpty(ret.ApprovedBy), nullIfEmpty(ret.ProcessedBy), ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update return: %w", err)
	}
	return nil
}

// AcceptedQuantity sums what non-rejected returns already accepted for a sale
// item, optionally skipping one return.
func (r *ReturnRepo) AcceptedQuantity(saleItemID, excludeReturnID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(ri.quantity_accepted), 0)
		FROM return_items ri
		JOIN sale_returns sr ON sr.id = ri.return_id
		WHERE ri.sale_item_id = $1 AND sr.status <> 'rejected' AND sr.id <> $2`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, saleItemID, excludeReturnID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum accepted returns: %w", err)
	}
	return total, nil
}

// UpdateItem rewrites a return line's accepted quantity and refund.
func (r *ReturnRepo) UpdateItem(item *entity.ReturnItem) error {
	query := `
		UPDATE return_items SET quantity_accepted = $2, refund_amount = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuantityAccepted, item.RefundAmount,
	)
	if err != nil {
		return fmt.Errorf("update return item: %w", err)
	}
	return nil
}
