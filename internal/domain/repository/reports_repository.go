package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult aggregate figures for a branch over a period.
type SalesSummaryResult struct {
	SaleCount         int64
	TotalSales        decimal.Decimal
	TotalPaid         decimal.Decimal
	OutstandingCredit decimal.Decimal
	RefundedAmount    decimal.Decimal
}

// ReportsRepository read-only aggregates for the dashboard.
type ReportsRepository interface {
	SalesSummary(ctx context.Context, orgID, branchID string, from, to time.Time) (*SalesSummaryResult, error)
	CountLowStockProducts(ctx context.Context, orgID, branchID string) (int64, error)
	CountExpiringBatches(ctx context.Context, orgID, branchID string, deadline time.Time) (int64, error)
}
