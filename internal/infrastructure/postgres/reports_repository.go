package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

var _ repository.ReportsRepository = (*ReportsRepo)(nil)

// ReportsRepo read-only aggregates for the dashboard.
type ReportsRepo struct {
	q Querier
}

// NewReportsRepository builds the reports adapter.
func NewReportsRepository(q Querier) *ReportsRepo {
	return &ReportsRepo{q: q}
}

// SalesSummary aggregates a branch's sales over a period. Refunded amount is
// derived from completed returns in the same window.
func (r *ReportsRepo) SalesSummary(ctx context.Context, orgID, branchID string, from, to time.Time) (*repository.SalesSummaryResult, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(paid), 0),
			COALESCE(SUM(credit), 0)
		FROM sales
		WHERE organization_id = $1 AND branch_id = $2
		AND status IN ('completed', 'refunded')
		AND created_at >= $3 AND created_at < $4`
	var res repository.SalesSummaryResult
	err := r.q.QueryRow(ctx, query, orgID, branchID, from, to).Scan(
		&res.SaleCount, &res.TotalSales, &res.TotalPaid, &res.OutstandingCredit,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	refunds := `
		SELECT COALESCE(SUM(refund_amount), 0)
		FROM sale_returns
		WHERE organization_id = $1 AND branch_id = $2 AND status = 'completed'
		AND updated_at >= $3 AND updated_at < $4`
	if err := r.q.QueryRow(ctx, refunds, orgID, branchID, from, to).Scan(&res.RefundedAmount); err != nil {
		return nil, fmt.Errorf("refund summary: %w", err)
	}
	return &res, nil
}

// CountLowStockProducts counts products whose total on-hand quantity at the
// branch is at or below their reorder point.
func (r *ReportsRepo) CountLowStockProducts(ctx context.Context, orgID, branchID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		WHERE p.organization_id = $1 AND p.reorder_point > 0
		AND COALESCE((
			SELECT SUM(i.quantity) FROM inventory_items i
			WHERE i.product_id = p.id AND i.branch_id = $2
		), 0) <= p.reorder_point`
	var count int64
	if err := r.q.QueryRow(ctx, query, orgID, branchID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return count, nil
}

// CountExpiringBatches counts batches with stock expiring before the deadline.
func (r *ReportsRepo) CountExpiringBatches(ctx context.Context, orgID, branchID string, deadline time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM inventory_items
		WHERE organization_id = $1 AND branch_id = $2 AND quantity > 0
		AND expiry_date IS NOT NULL AND expiry_date <= $3`
	var count int64
	if err := r.q.QueryRow(ctx, query, orgID, branchID, deadline).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expiring batches: %w", err)
	}
	return count, nil
}
