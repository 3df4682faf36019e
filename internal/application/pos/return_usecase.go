package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// ReturnUseCase drives the return lifecycle: pending → approved → completed,
// or pending → rejected. Approval only fixes accepted quantities and refund
// amounts; stock and sale totals move on process.
type ReturnUseCase struct {
	txRunner   inventory.TxRunner
	returnRepo repository.ReturnRepository
	saleRepo   repository.SaleRepository
	itemRepo   repository.InventoryItemRepository
}

// NewReturnUseCase builds the return use case.
func NewReturnUseCase(
	txRunner inventory.TxRunner,
	returnRepo repository.ReturnRepository,
	saleRepo repository.SaleRepository,
	itemRepo repository.InventoryItemRepository,
) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, returnRepo: returnRepo, saleRepo: saleRepo, itemRepo: itemRepo}
}

var validReasons = map[string]bool{
	entity.ReturnReasonDamaged:         true,
	entity.ReturnReasonExpired:         true,
	entity.ReturnReasonWrongItem:       true,
	entity.ReturnReasonCustomerRequest: true,
	entity.ReturnReasonOther:           true,
}

// CreateReturn registers a pending return against specific sale item lines.
func (uc *ReturnUseCase) CreateReturn(orgID, userID string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.SaleID == "" || len(in.Items) == 0 || !validReasons[in.Reason] {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted && sale.Status != entity.SaleStatusRefunded {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	ret := &entity.SaleReturn{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       sale.BranchID,
		SaleID:         sale.ID,
		Status:         entity.ReturnStatusPending,
		Reason:         in.Reason,
		Notes:          in.Notes,
		RefundAmount:   decimal.Zero,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var items []*entity.ReturnItem
	for _, line := range in.Items {
		if line.SaleItemID == "" || line.QuantityReturned <= 0 {
			return nil, domain.ErrInvalidInput
		}
		saleItem, err := uc.saleRepo.GetItemByID(line.SaleItemID)
		if err != nil || saleItem == nil || saleItem.SaleID != sale.ID {
			return nil, domain.ErrNotFound
		}
		if line.QuantityReturned > saleItem.Quantity {
			return nil, domain.ErrInvalidInput
		}
		// Lifetime cap: quantities already accepted by earlier returns plus
		// this request must stay within the quantity sold.
		accepted, err := uc.returnRepo.AcceptedQuantity(saleItem.ID, "")
		if err != nil {
			return nil, err
		}
		if accepted+line.QuantityReturned > saleItem.Quantity {
			return nil, domain.ErrConflict
		}
		items = append(items, &entity.ReturnItem{
			ID:               uuid.New().String(),
			ReturnID:         ret.ID,
			SaleItemID:       saleItem.ID,
			ProductID:        saleItem.ProductID,
			QuantityReturned: line.QuantityReturned,
			UnitPrice:        saleItem.UnitPrice,
			RefundAmount:     decimal.Zero,
		})
	}

	if err := uc.returnRepo.Create(ret); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := uc.returnRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}
	return toReturnResponse(ret, items), nil
}

// ApproveReturn moves pending → approved, sets accepted quantities (default:
// everything requested) and computes refund = accepted × unit price per line.
func (uc *ReturnUseCase) ApproveReturn(orgID, userID, returnID string, in dto.ApproveReturnRequest) (*dto.ReturnResponse, error) {
	ret, items, err := uc.getOwned(orgID, returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != entity.ReturnStatusPending {
		return nil, domain.ErrConflict
	}

	refundTotal := decimal.Zero
	for _, item := range items {
		accepted := item.QuantityReturned
		if override, ok := in.AcceptedQuantities[item.ID]; ok {
			if override < 0 || override > item.QuantityReturned {
				return nil, domain.ErrInvalidInput
			}
			accepted = override
		}
		// Re-check the lifetime cap here: another return for the same sale
		// item may have been accepted since this one was created.
		saleItem, err := uc.saleRepo.GetItemByID(item.SaleItemID)
		if err != nil || saleItem == nil {
			return nil, domain.ErrNotFound
		}
		prior, err := uc.returnRepo.AcceptedQuantity(item.SaleItemID, ret.ID)
		if err != nil {
			return nil, err
		}
		if prior+accepted > saleItem.Quantity {
			return nil, domain.ErrConflict
		}
		item.QuantityAccepted = accepted
		item.RefundAmount = item.UnitPrice.Mul(decimal.NewFromInt(accepted))
		refundTotal = refundTotal.Add(item.RefundAmount)
		if err := uc.returnRepo.UpdateItem(item); err != nil {
			return nil, err
		}
	}

	ret.Status = entity.ReturnStatusApproved
	ret.RefundAmount = refundTotal
	ret.ApprovedBy = userID
	ret.UpdatedAt = time.Now()
	if err := uc.returnRepo.Update(ret); err != nil {
		return nil, err
	}
	return toReturnResponse(ret, items), nil
}

// RejectReturn moves pending → rejected.
func (uc *ReturnUseCase) RejectReturn(orgID, userID, returnID, notes string) (*dto.ReturnResponse, error) {
	ret, items, err := uc.getOwned(orgID, returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != entity.ReturnStatusPending {
		return nil, domain.ErrConflict
	}
	ret.Status = entity.ReturnStatusRejected
	if notes != "" {
		ret.Notes = notes
	}
	ret.ApprovedBy = userID
	ret.UpdatedAt = time.Now()
	if err := uc.returnRepo.Update(ret); err != nil {
		return nil, err
	}
	return toReturnResponse(ret, items), nil
}

// ProcessReturn moves approved → completed: restores stock and reduces the
// parent sale's total, paid and credit by the refund, marking the sale
// refunded when its total reaches zero. Restoration goes to the originally
// allocated batches when they still exist, else to any open batch of the
// product, else to a fresh batch row.
func (uc *ReturnUseCase) ProcessReturn(ctx context.Context, orgID, userID, returnID string) (*dto.ReturnResponse, error) {
	ret, items, err := uc.getOwned(orgID, returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != entity.ReturnStatusApproved {
		return nil, domain.ErrConflict
	}
	sale, err := uc.saleRepo.GetByID(ret.SaleID)
	if err != nil || sale == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		for _, item := range items {
			if item.QuantityAccepted <= 0 {
				continue
			}
			if err := uc.restoreStock(r, sale, item, now); err != nil {
				return err
			}
		}

		newTotal := maxZero(sale.Total.Sub(ret.RefundAmount))
		newPaid := maxZero(sale.Paid.Sub(ret.RefundAmount))
		newCredit := maxZero(sale.Credit.Sub(ret.RefundAmount))
		status := sale.Status
		if newTotal.IsZero() {
			status = entity.SaleStatusRefunded
		}
		if err := r.Sales.ApplyRefund(sale.ID, newTotal, newPaid, newCredit, status); err != nil {
			return err
		}

		ret.Status = entity.ReturnStatusCompleted
		ret.ProcessedBy = userID
		ret.UpdatedAt = now
		return r.Returns.Update(ret)
	})
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret, items), nil
}

// GetReturn returns a sale return with its items.
func (uc *ReturnUseCase) GetReturn(orgID, returnID string) (*dto.ReturnResponse, error) {
	ret, items, err := uc.getOwned(orgID, returnID)
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret, items), nil
}

// restoreStock puts an accepted quantity back into inventory, preferring the
// batches the sale originally drew from.
func (uc *ReturnUseCase) restoreStock(r inventory.TxRepos, sale *entity.Sale, item *entity.ReturnItem, now time.Time) error {
	remaining := item.QuantityAccepted

	saleItem, err := r.Sales.GetItemByID(item.SaleItemID)
	if err != nil || saleItem == nil {
		return domain.ErrNotFound
	}
	for _, a := range saleItem.Allocations {
		if remaining == 0 {
			break
		}
		batch, err := r.Items.GetByID(a.InventoryItemID)
		if err != nil || batch == nil {
			continue // batch row gone, fall through to open batches
		}
		restore := a.Quantity
		if restore > remaining {
			restore = remaining
		}
		if err := r.Items.IncrementQuantity(batch.ID, restore); err != nil {
			return err
		}
		remaining -= restore
	}
	if remaining == 0 {
		return nil
	}

	// Original batches could not absorb everything: any open batch will do.
	open, err := r.Items.ListAvailable(item.ProductID, sale.BranchID)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return r.Items.IncrementQuantity(open[0].ID, remaining)
	}

	// No open batch left for the product: create one so stock is not lost.
	return r.Items.Create(&entity.InventoryItem{
		ID:             uuid.New().String(),
		OrganizationID: sale.OrganizationID,
		BranchID:       sale.BranchID,
		ProductID:      item.ProductID,
		BatchNumber:    "RET-" + item.ReturnID[:8],
		Quantity:       remaining,
		CostPrice:      item.UnitPrice,
		SellingPrice:   item.UnitPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (uc *ReturnUseCase) getOwned(orgID, returnID string) (*entity.SaleReturn, []*entity.ReturnItem, error) {
	ret, err := uc.returnRepo.GetByID(returnID)
	if err != nil {
		return nil, nil, err
	}
	if ret == nil || ret.OrganizationID != orgID {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.returnRepo.GetItems(returnID)
	if err != nil {
		return nil, nil, err
	}
	return ret, items, nil
}

func toReturnResponse(ret *entity.SaleReturn, items []*entity.ReturnItem) *dto.ReturnResponse {
	resp := &dto.ReturnResponse{
		ID:           ret.ID,
		SaleID:       ret.SaleID,
		Status:       ret.Status,
		Reason:       ret.Reason,
		Notes:        ret.Notes,
		RefundAmount: ret.RefundAmount,
		CreatedAt:    ret.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.ReturnItemResponse{
			ID:               it.ID,
			SaleItemID:       it.SaleItemID,
			ProductID:        it.ProductID,
			QuantityReturned: it.QuantityReturned,
			QuantityAccepted: it.QuantityAccepted,
			UnitPrice:        it.UnitPrice,
			RefundAmount:     it.RefundAmount,
		})
	}
	return resp
}
