package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// SaleUseCase finalizes sales: persists the header and items and decrements
// the allocated batches in one transaction. Each batch decrement is an atomic
// conditional update, so a cart whose allocation went stale fails with
// ErrStockConflict instead of overselling.
type SaleUseCase struct {
	txRunner    inventory.TxRunner
	saleRepo    repository.SaleRepository
	itemRepo    repository.InventoryItemRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	patientRepo repository.PatientRepository
}

// NewSaleUseCase builds the sale use case.
func NewSaleUseCase(
	txRunner inventory.TxRunner,
	saleRepo repository.SaleRepository,
	itemRepo repository.InventoryItemRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	patientRepo repository.PatientRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		patientRepo: patientRepo,
	}
}

// CompleteSale validates the cart, decrements every allocated batch and
// persists the sale. Totals: discounted = subtotal - discount;
// tax = discounted * taxRate; total = discounted + tax;
// credit = max(0, total - paid); change = max(0, paid - total).
func (uc *SaleUseCase) CompleteSale(ctx context.Context, orgID, userID string, in dto.CompleteSaleRequest) (*dto.SaleResponse, error) {
	if in.BranchID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() || in.TaxRate.IsNegative() || in.Paid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	if in.PatientID != "" {
		patient, _ := uc.patientRepo.GetByID(in.PatientID)
		if patient == nil || patient.OrganizationID != orgID {
			return nil, domain.ErrNotFound
		}
	}

	// Validate lines and ownership outside the transaction (read only).
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 || len(line.Allocations) == 0 {
			return nil, domain.ErrInvalidInput
		}
		var allocated int64
		for _, a := range line.Allocations {
			if a.InventoryItemID == "" || a.Quantity <= 0 {
				return nil, domain.ErrInvalidInput
			}
			allocated += a.Quantity
		}
		if allocated != line.Quantity {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.OrganizationID != orgID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	saleID := uuid.New().String()
	sale := &entity.Sale{
		ID:             saleID,
		OrganizationID: orgID,
		BranchID:       in.BranchID,
		PatientID:      in.PatientID,
		SaleNumber:     fmt.Sprintf("S-%d", now.Unix()),
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusCompleted,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var saleItems []*entity.SaleItem

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		subtotal := decimal.Zero
		saleItems = saleItems[:0]

		for _, line := range in.Items {
			unitPrice := line.UnitPrice
			for _, a := range line.Allocations {
				batch, err := r.Items.GetByID(a.InventoryItemID)
				if err != nil || batch == nil {
					return domain.ErrNotFound
				}
				if batch.ProductID != line.ProductID || batch.BranchID != in.BranchID {
					return domain.ErrInvalidInput
				}
				if unitPrice.IsZero() {
					unitPrice = batch.SellingPrice
				}
				// Conditional decrement; fails when the allocation went stale.
				if err := r.Items.DecrementQuantity(a.InventoryItemID, a.Quantity); err != nil {
					return err
				}
			}

			lineSubtotal := unitPrice.Mul(decimal.NewFromInt(line.Quantity))
			subtotal = subtotal.Add(lineSubtotal)
			allocations := make([]entity.BatchAllocation, 0, len(line.Allocations))
			for _, a := range line.Allocations {
				allocations = append(allocations, entity.BatchAllocation{
					InventoryItemID: a.InventoryItemID,
					Quantity:        a.Quantity,
				})
			}
			saleItems = append(saleItems, &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      saleID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitPrice:   unitPrice,
				Subtotal:    lineSubtotal,
				Allocations: allocations,
			})
		}

		discounted := subtotal.Sub(in.Discount)
		if discounted.IsNegative() {
			return domain.ErrInvalidInput
		}
		tax := discounted.Mul(in.TaxRate)
		total := discounted.Add(tax)

		sale.Subtotal = subtotal
		sale.Discount = in.Discount
		sale.Tax = tax
		sale.Total = total
		sale.Paid = in.Paid
		sale.Credit = maxZero(total.Sub(in.Paid))
		sale.Change = maxZero(in.Paid.Sub(total))

		if err := r.Sales.Create(sale); err != nil {
			return err
		}
		for _, item := range saleItems {
			if err := r.Sales.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, saleItems), nil
}

// GetSale returns a sale with its items, scoped to the caller's organization.
func (uc *SaleUseCase) GetSale(orgID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		SaleNumber:    sale.SaleNumber,
		BranchID:      sale.BranchID,
		PatientID:     sale.PatientID,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Paid:          sale.Paid,
		Credit:        sale.Credit,
		Change:        sale.Change,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		CreatedAt:     sale.CreatedAt,
	}
	for _, it := range items {
		allocations := make([]dto.CartAllocationDTO, 0, len(it.Allocations))
		for _, a := range it.Allocations {
			allocations = append(allocations, dto.CartAllocationDTO{
				InventoryItemID: a.InventoryItemID,
				Quantity:        a.Quantity,
			})
		}
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			Allocations: allocations,
		})
	}
	return resp
}
