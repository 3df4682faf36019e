package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.BulkOrderRepository = (*BulkOrderRepo)(nil)

// BulkOrderRepo implements BulkOrderRepository on PostgreSQL.
type BulkOrderRepo struct {
	q Querier
}

// NewBulkOrderRepository builds the persistence adapter for bulk orders.
func NewBulkOrderRepository(q Querier) *BulkOrderRepo {
	return &BulkOrderRepo{q: q}
}

const orderColumns = `id, order_number, buyer_org_id, buyer_branch_id, supplier_org_id, supplier_branch_id, supplier_user_id, status, total_amount, paid_amount, tracking_number, carrier, notes, created_by, created_at, updated_at`

// Create persists an order header.
func (r *BulkOrderRepo) Create(order *entity.BulkOrder) error {
	query := `
		INSERT INTO bulk_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.BuyerOrgID, order.BuyerBranchID,
		order.SupplierOrgID, order.SupplierBranchID, order.SupplierUserID,
		order.Status, order.TotalAmount, order.PaidAmount, order.TrackingNumber,
		order.Carrier, order.Notes, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bulk order: %w", err)
	}
	return nil
}

// CreateItem persists one order line.
func (r *BulkOrderRepo) CreateItem(item *entity.BulkOrderItem) error {
	query := `
		INSERT INTO bulk_order_items (id, order_id, product_id, requested_qty, confirmed_qty, final_qty, unit_price, cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.RequestedQty, item.ConfirmedQty,
		item.FinalQty, item.UnitPrice, item.Cancelled, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bulk order item: %w", err)
	}
	return nil
}

// GetByID fetches one order, nil when absent.
func (r *BulkOrderRepo) GetByID(id string) (*entity.BulkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM bulk_orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate locks the order row for the remainder of the transaction.
// Concurrent payments against the same order serialize on this lock.
func (r *BulkOrderRepo) GetForUpdate(id string) (*entity.BulkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM bulk_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *BulkOrderRepo) getOne(query string, args ...any) (*entity.BulkOrder, error) {
	order, err := scanOrder(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bulk order: %w", err)
	}
	return order, nil
}

// GetItems returns an order's lines in insertion order.
func (r *BulkOrderRepo) GetItems(orderID string) ([]*entity.BulkOrderItem, error) {
	query := `
		SELECT id, order_id, product_id, requested_qty, confirmed_qty, final_qty, unit_price, cancelled, created_at, updated_at
		FROM bulk_order_items WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list bulk order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.BulkOrderItem
	for rows.Next() {
		var item entity.BulkOrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.RequestedQty,
			&item.ConfirmedQty, &item.FinalQty, &item.UnitPrice, &item.Cancelled,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bulk order item: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

// UpdateItem rewrites an order line's negotiable fields.
func (r *BulkOrderRepo) UpdateItem(item *entity.BulkOrderItem) error {
	query := `
		UPDATE bulk_order_items SET confirmed_qty = $2, final_qty = $3, unit_price = $4, cancelled = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ConfirmedQty, item.FinalQty, item.UnitPrice, item.Cancelled, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bulk order item: %w", err)
	}
	return nil
}

// UpdateStatus moves the order to a new status.
func (r *BulkOrderRepo) UpdateStatus(id string, status entity.BulkOrderStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE bulk_orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update bulk order status: %w", err)
	}
	return nil
}

// UpdateTotals rewrites amounts and status in one statement.
func (r *BulkOrderRepo) UpdateTotals(id string, total, paid decimal.Decimal, status entity.BulkOrderStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE bulk_orders SET total_amount = $2, paid_amount = $3, status = $4, updated_at = now() WHERE id = $1`,
		id, total, paid, status,
	)
	if err != nil {
		return fmt.Errorf("update bulk order totals: %w", err)
	}
	return nil
}

// UpdateShipping sets tracking info and moves the order to the shipped status.
func (r *BulkOrderRepo) UpdateShipping(id string, trackingNumber, carrier string, status entity.BulkOrderStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE bulk_orders SET tracking_number = $2, carrier = $3, status = $4, updated_at = now() WHERE id = $1`,
		id, trackingNumber, carrier, status,
	)
	if err != nil {
		return fmt.Errorf("update bulk order shipping: %w", err)
	}
	return nil
}

// AddPayment persists one payment row.
func (r *BulkOrderRepo) AddPayment(payment *entity.BulkOrderPayment) error {
	query := `
		INSERT INTO bulk_order_payments (id, order_id, payment_type, method, amount, reference, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.OrderID, payment.PaymentType, payment.Method,
		payment.Amount, payment.Reference, payment.RecordedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bulk order payment: %w", err)
	}
	return nil
}

// ListPayments returns an order's payments oldest first.
func (r *BulkOrderRepo) ListPayments(orderID string) ([]*entity.BulkOrderPayment, error) {
	query := `
		SELECT id, order_id, payment_type, method, amount, reference, recorded_by, created_at
		FROM bulk_order_payments WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list bulk order payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.BulkOrderPayment
	for rows.Next() {
		var p entity.BulkOrderPayment
		if err := rows.Scan(
			&p.ID, &p.OrderID, &p.PaymentType, &p.Method, &p.Amount, &p.Reference,
			&p.RecordedBy, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bulk order payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// AddStatusLog appends one audit row.
func (r *BulkOrderRepo) AddStatusLog(log *entity.BulkOrderStatusLog) error {
	query := `
		INSERT INTO bulk_order_status_logs (id, order_id, from_status, to_status, notes, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.OrderID, log.FromStatus, log.ToStatus, log.Notes, log.ActorID, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}

// ListStatusLogs returns the audit trail oldest first.
func (r *BulkOrderRepo) ListStatusLogs(orderID string) ([]*entity.BulkOrderStatusLog, error) {
	query := `
		SELECT id, order_id, from_status, to_status, notes, actor_id, created_at
		FROM bulk_order_status_logs WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.BulkOrderStatusLog
	for rows.Next() {
		var l entity.BulkOrderStatusLog
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.FromStatus, &l.ToStatus, &l.Notes, &l.ActorID, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// ListForOrganization returns orders where the organization is buyer or
// supplier, newest first.
func (r *BulkOrderRepo) ListForOrganization(orgID string, limit, offset int) ([]*entity.BulkOrder, error) {
	query := `SELECT ` + orderColumns + `
		FROM bulk_orders WHERE buyer_org_id = $1 OR supplier_org_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, orgID, limit, offset)
}

// ListBySupplierUser returns a buyer organization's orders placed with one supplier user.
func (r *BulkOrderRepo) ListBySupplierUser(supplierUserID, buyerOrgID string) ([]*entity.BulkOrder, error) {
	query := `SELECT ` + orderColumns + `
		FROM bulk_orders WHERE supplier_user_id = $1 AND buyer_org_id = $2
		ORDER BY created_at`
	return r.list(query, supplierUserID, buyerOrgID)
}

func (r *BulkOrderRepo) list(query string, args ...any) ([]*entity.BulkOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bulk orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.BulkOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bulk order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.BulkOrder, error) {
	var o entity.BulkOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.BuyerOrgID, &o.BuyerBranchID, &o.SupplierOrgID,
		&o.SupplierBranchID, &o.SupplierUserID, &o.Status, &o.TotalAmount,
		&o.PaidAmount, &o.TrackingNumber, &o.Carrier, &o.Notes, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
