package reports

import (
	"context"
	"time"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// expiryHorizon is how far ahead the dashboard counts expiring batches.
const expiryHorizon = 90 * 24 * time.Hour

// DashboardUseCase aggregates branch figures for the home screen.
type DashboardUseCase struct {
	reportsRepo repository.ReportsRepository
}

// NewDashboardUseCase builds the dashboard use case.
func NewDashboardUseCase(reportsRepo repository.ReportsRepository) *DashboardUseCase {
	return &DashboardUseCase{reportsRepo: reportsRepo}
}

// Summary returns sales and stock figures for a branch over a period.
// A zero From/To defaults to the last 30 days.
func (uc *DashboardUseCase) Summary(ctx context.Context, orgID, branchID string, from, to time.Time) (*dto.DashboardSummaryResponse, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.Add(-30 * 24 * time.Hour)
	}
	if from.After(to) {
		return nil, domain.ErrInvalidInput
	}

	sales, err := uc.reportsRepo.SalesSummary(ctx, orgID, branchID, from, to)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.reportsRepo.CountLowStockProducts(ctx, orgID, branchID)
	if err != nil {
		return nil, err
	}
	expiring, err := uc.reportsRepo.CountExpiringBatches(ctx, orgID, branchID, time.Now().Add(expiryHorizon))
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryResponse{
		From:              from,
		To:                to,
		SaleCount:         sales.SaleCount,
		TotalSales:        sales.TotalSales,
		TotalPaid:         sales.TotalPaid,
		OutstandingCredit: sales.OutstandingCredit,
		RefundedAmount:    sales.RefundedAmount,
		LowStockProducts:  lowStock,
		ExpiringBatches:   expiring,
	}, nil
}
