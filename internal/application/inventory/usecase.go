package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	dominventory "github.com/medtrack/medtrack-api/internal/domain/inventory"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// UseCase inventory operations: restock, allocation plans, stock listings and
// expiry alerts. Restock is transactional because it writes the batch, the
// purchase transaction and the ledger trail together.
type UseCase struct {
	txRunner    TxRunner
	itemRepo    repository.InventoryItemRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewUseCase builds the inventory use case.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, productRepo: productRepo, branchRepo: branchRepo}
}

// Restock creates a new stock batch plus its purchase transaction, optional
// first payment and ledger rows, all in one transaction.
func (uc *UseCase) Restock(ctx context.Context, orgID, userID string, in dto.RestockRequest) (*dto.BatchDTO, error) {
	if in.ProductID == "" || in.BranchID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() || in.PaidAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	totalAmount := in.CostPrice.Mul(decimal.NewFromInt(in.Quantity))
	item := &entity.InventoryItem{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       in.BranchID,
		ProductID:      in.ProductID,
		SupplierID:     in.SupplierID,
		SupplierName:   in.SupplierName,
		BatchNumber:    in.BatchNumber,
		Quantity:       in.Quantity,
		CostPrice:      in.CostPrice,
		SellingPrice:   in.SellingPrice,
		ExpiryDate:     in.ExpiryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Items.Create(item); err != nil {
			return err
		}
		purchase := &entity.PurchaseTransaction{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			BranchID:       in.BranchID,
			SupplierID:     in.SupplierID,
			SupplierName:   in.SupplierName,
			InvoiceNumber:  in.InvoiceNumber,
			TotalAmount:    totalAmount,
			CreatedBy:      userID,
			CreatedAt:      now,
		}
		if err := r.Purchases.CreateTransaction(purchase); err != nil {
			return err
		}
		if in.PaidAmount.IsPositive() {
			payment := &entity.PaymentRecord{
				ID:            uuid.New().String(),
				TransactionID: purchase.ID,
				PaidAmount:    in.PaidAmount,
				Method:        in.PaymentMethod,
				CreatedAt:     now,
			}
			if err := r.Purchases.AddPayment(payment); err != nil {
				return err
			}
		}
		supplierType := entity.SupplierTypeCustom
		if in.SupplierID != "" {
			supplierType = entity.SupplierTypePlatform
		}
		row := &entity.SupplierLedger{
			ID:                uuid.New().String(),
			OrganizationID:    orgID,
			BranchID:          in.BranchID,
			SupplierType:      supplierType,
			SupplierID:        in.SupplierID,
			SupplierName:      in.SupplierName,
			SourceType:        entity.LedgerSourcePurchase,
			ReferenceID:       purchase.ID,
			TransactionAmount: totalAmount,
			PaidAmount:        in.PaidAmount,
			EntryDate:         now,
			CreatedAt:         now,
		}
		return r.Ledger.Create(row)
	})
	if err != nil {
		return nil, err
	}
	return toBatchDTO(item), nil
}

// AllocateStock computes a FIFO allocation plan for a requested quantity.
// It does not reserve or mutate stock; the conditional decrement at sale
// completion is what makes concurrent carts safe.
func (uc *UseCase) AllocateStock(orgID string, in dto.AllocateStockRequest) (*dto.AllocateStockResponse, error) {
	if in.ProductID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}

	items, err := uc.itemRepo.ListAvailable(in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}
	plan, err := dominventory.Allocate(dominventory.BatchesFromItems(items), in.Quantity)
	if err != nil {
		return nil, err
	}

	resp := &dto.AllocateStockResponse{ProductID: in.ProductID, TotalAllocated: plan.TotalAllocated}
	for _, a := range plan.Allocations {
		resp.Allocations = append(resp.Allocations, dto.AllocationDTO{
			BatchID:          a.InventoryItemID,
			BatchNumber:      a.BatchNumber,
			AllocatedQty:     a.Quantity,
			UnitPrice:        a.UnitPrice,
			ExpiryDate:       a.ExpiryDate,
			RemainingInBatch: a.RemainingInBatch,
		})
	}
	return resp, nil
}

// ListStock returns the branch's batches, oldest first.
func (uc *UseCase) ListStock(orgID, branchID string, page dto.PageRequest) ([]dto.BatchDTO, error) {
	branch, _ := uc.branchRepo.GetByID(branchID)
	if branch == nil || branch.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	items, err := uc.itemRepo.ListByBranch(branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchDTO, 0, len(items))
	for _, it := range items {
		out = append(out, *toBatchDTO(it))
	}
	return out, nil
}

// ExpiryAlerts returns batches with stock expiring within the coming days.
func (uc *UseCase) ExpiryAlerts(orgID, branchID string, days int) ([]dto.ExpiryAlertDTO, error) {
	if days <= 0 {
		days = 90
	}
	now := time.Now()
	items, err := uc.itemRepo.ExpiringWithin(orgID, branchID, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiryAlertDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ExpiryAlertDTO{
			BatchDTO:        *toBatchDTO(it),
			DaysUntilExpiry: int(it.ExpiryDate.Sub(now).Hours() / 24),
		})
	}
	return out, nil
}

func toBatchDTO(it *entity.InventoryItem) *dto.BatchDTO {
	return &dto.BatchDTO{
		ID:           it.ID,
		ProductID:    it.ProductID,
		BranchID:     it.BranchID,
		BatchNumber:  it.BatchNumber,
		Quantity:     it.Quantity,
		CostPrice:    it.CostPrice,
		SellingPrice: it.SellingPrice,
		ExpiryDate:   it.ExpiryDate,
		SupplierName: it.SupplierName,
		CreatedAt:    it.CreatedAt,
	}
}
