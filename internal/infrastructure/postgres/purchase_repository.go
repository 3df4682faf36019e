package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implements PurchaseRepository on PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository builds the persistence adapter for purchase transactions.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, organization_id, branch_id, supplier_id, supplier_name, invoice_number, total_amount, notes, created_by, created_at`

// CreateTransaction persists a purchase transaction.
func (r *PurchaseRepo) CreateTransaction(tx *entity.PurchaseTransaction) error {
	query := `
		INSERT INTO purchase_transactions (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.OrganizationID, tx.BranchID, nullIfEmpty(tx.SupplierID),
		tx.SupplierName, tx.InvoiceNumber, tx.TotalAmount, tx.Notes, tx.CreatedBy, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase transaction: %w", err)
	}
	return nil
}

// GetTransaction fetches one transaction, nil when absent.
func (r *PurchaseRepo) GetTransaction(id string) (*entity.PurchaseTransaction, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_transactions WHERE id = $1`
	tx, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns an organization's purchases, optionally scoped to a
// branch, oldest first (statement order).
func (r *PurchaseRepo) ListTransactions(orgID, branchID string) ([]*entity.PurchaseTransaction, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchase_transactions
		WHERE organization_id = $1 AND ($2 = '' OR branch_id = $2)
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orgID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list purchase transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseTransaction
	for rows.Next() {
		tx, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// AddPayment persists one payment record.
func (r *PurchaseRepo) AddPayment(payment *entity.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (id, transaction_id, paid_amount, method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.TransactionID, payment.PaidAmount, payment.Method,
		payment.Notes, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}

// ListPayments returns a transaction's payments oldest first.
func (r *PurchaseRepo) ListPayments(transactionID string) ([]*entity.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, paid_amount, method, notes, created_at
		FROM payment_records WHERE transaction_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}
	defer rows.Close()

	var out []*entity.PaymentRecord
	for rows.Next() {
		var p entity.PaymentRecord
		if err := rows.Scan(
			&p.ID, &p.TransactionID, &p.PaidAmount, &p.Method, &p.Notes, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.PurchaseTransaction, error) {
	var tx entity.PurchaseTransaction
	var supplierID *string
	err := row.Scan(
		&tx.ID, &tx.OrganizationID, &tx.BranchID, &supplierID, &tx.SupplierName,
		&tx.InvoiceNumber, &tx.TotalAmount, &tx.Notes, &tx.CreatedBy, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.SupplierID = emptyIfNull(supplierID)
	return &tx, nil
}

var _ repository.SupplierLedgerRepository = (*SupplierLedgerRepo)(nil)

// SupplierLedgerRepo implements SupplierLedgerRepository on PostgreSQL.
// Rows are append-only; statements are computed from the source tables and
// this trail exists for offline reconciliation.
type SupplierLedgerRepo struct {
	q Querier
}

// NewSupplierLedgerRepository builds the persistence adapter for the ledger trail.
func NewSupplierLedgerRepository(q Querier) *SupplierLedgerRepo {
	return &SupplierLedgerRepo{q: q}
}

// Create appends one ledger row.
func (r *SupplierLedgerRepo) Create(row *entity.SupplierLedger) error {
	query := `
		INSERT INTO supplier_ledger (id, organization_id, branch_id, supplier_type, supplier_id, supplier_name, source_type, reference_id, transaction_amount, paid_amount, entry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		row.ID, row.OrganizationID, row.BranchID, row.SupplierType,
		nullIfEmpty(row.SupplierID), row.SupplierName, row.SourceType, row.ReferenceID,
		row.TransactionAmount, row.PaidAmount, row.EntryDate, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}

// ListBySupplier returns the trail for one supplier, by ID for platform
// suppliers or by recorded name for custom ones, oldest first.
func (r *SupplierLedgerRepo) ListBySupplier(orgID, branchID, supplierID, supplierName string) ([]*entity.SupplierLedger, error) {
	query := `
		SELECT id, organization_id, branch_id, supplier_type, supplier_id, supplier_name, source_type, reference_id, transaction_amount, paid_amount, entry_date, created_at
		FROM supplier_ledger
		WHERE organization_id = $1 AND ($2 = '' OR branch_id = $2)
		AND (($3 <> '' AND supplier_id = $3) OR ($3 = '' AND supplier_name = $4))
		ORDER BY entry_date`
	rows, err := r.q.Query(context.Background(), query, orgID, branchID, supplierID, supplierName)
	if err != nil {
		return nil, fmt.Errorf("list ledger rows: %w", err)
	}
	defer rows.Close()

	var out []*entity.SupplierLedger
	for rows.Next() {
		var row entity.SupplierLedger
		var sid *string
		if err := rows.Scan(
			&row.ID, &row.OrganizationID, &row.BranchID, &row.SupplierType, &sid,
			&row.SupplierName, &row.SourceType, &row.ReferenceID,
			&row.TransactionAmount, &row.PaidAmount, &row.EntryDate, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		row.SupplierID = emptyIfNull(sid)
		out = append(out, &row)
	}
	return out, rows.Err()
}
