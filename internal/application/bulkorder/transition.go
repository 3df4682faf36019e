package bulkorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	dombulk "github.com/medtrack/medtrack-api/internal/domain/bulkorder"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	dominv "github.com/medtrack/medtrack-api/internal/domain/inventory"
)

// Transition applies a lifecycle action to an order. The domain transition
// table decides legality; this layer performs the side effects each action
// carries (item updates, shipping info, stock movement, inventory import).
func (uc *UseCase) Transition(ctx context.Context, actor Actor, orderID string, in dto.BulkOrderStatusRequest) (*dto.BulkOrderResponse, error) {
	order, err := uc.ownedOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	side, _ := sideOf(order, actor)

	action := dombulk.Action(in.Action)
	switch action {
	case dombulk.ActionSubmit, dombulk.ActionStartReview, dombulk.ActionReject,
		dombulk.ActionCancel, dombulk.ActionDeliver:
		err = uc.simpleTransition(order, action, side, actor, in.Notes)
	case dombulk.ActionConfirm:
		err = uc.confirm(order, side, actor, in)
	case dombulk.ActionReconfirm:
		err = uc.reconfirm(ctx, order, side, actor, in)
	case dombulk.ActionShip:
		err = uc.ship(order, side, actor, in)
	case dombulk.ActionRelease:
		err = uc.release(ctx, order, side, actor, in.Notes)
	case dombulk.ActionImport:
		err = uc.importOrder(ctx, order, side, actor, in)
	case dombulk.ActionRecordPayment:
		// Payments carry amounts; they go through RecordPayment.
		return nil, domain.ErrInvalidInput
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	return uc.GetOrder(actor, orderID)
}

func (uc *UseCase) simpleTransition(order *entity.BulkOrder, action dombulk.Action, side dombulk.Side, actor Actor, notes string) error {
	next, err := dombulk.Next(order.Status, action, side)
	if err != nil {
		return err
	}
	if err := uc.orderRepo.UpdateStatus(order.ID, next); err != nil {
		return err
	}
	return uc.orderRepo.AddStatusLog(statusLog(order, order.Status, next, notes, actor.UserID, time.Now()))
}

// confirm moves the order to supplier_confirmed, applying the supplier's
// per-item adjustments and recomputing the total from effective quantities.
func (uc *UseCase) confirm(order *entity.BulkOrder, side dombulk.Side, actor Actor, in dto.BulkOrderStatusRequest) error {
	next, err := dombulk.Next(order.Status, dombulk.ActionConfirm, side)
	if err != nil {
		return err
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return err
	}
	byID := itemIndex(items)
	for _, upd := range in.Items {
		item, ok := byID[upd.ItemID]
		if !ok {
			return domain.ErrNotFound
		}
		if upd.Cancel {
			item.Cancelled = true
		} else {
			if upd.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			item.ConfirmedQty = upd.Quantity
			if upd.UnitPrice.IsPositive() {
				item.UnitPrice = upd.UnitPrice
			}
		}
		item.UpdatedAt = time.Now()
		if err := uc.orderRepo.UpdateItem(item); err != nil {
			return err
		}
	}
	if err := uc.orderRepo.UpdateTotals(order.ID, orderTotal(items), order.PaidAmount, next); err != nil {
		return err
	}
	return uc.orderRepo.AddStatusLog(statusLog(order, order.Status, next, in.Notes, actor.UserID, time.Now()))
}

// reconfirm moves the order to buyer_reconfirming, applying the buyer's final
// quantities (and cancellations) against what the supplier confirmed.
func (uc *UseCase) reconfirm(ctx context.Context, order *entity.BulkOrder, side dombulk.Side, actor Actor, in dto.BulkOrderStatusRequest) error {
	next, err := dombulk.Next(order.Status, dombulk.ActionReconfirm, side)
	if err != nil {
		return err
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return err
	}
	byID := itemIndex(items)
	for _, upd := range in.Items {
		item, ok := byID[upd.ItemID]
		if !ok {
			return domain.ErrNotFound
		}
		if upd.Cancel {
			item.Cancelled = true
		} else {
			if upd.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			// The buyer can only trim, never exceed the supplier's confirmation.
			confirmed := item.ConfirmedQty
			if confirmed == 0 {
				confirmed = item.RequestedQty
			}
			if upd.Quantity > confirmed {
				return domain.ErrInvalidInput
			}
			item.FinalQty = upd.Quantity
		}
		item.UpdatedAt = time.Now()
		if err := uc.orderRepo.UpdateItem(item); err != nil {
			return err
		}
	}
	total := orderTotal(items)
	if err := uc.orderRepo.UpdateTotals(order.ID, total, order.PaidAmount, next); err != nil {
		return err
	}
	if err := uc.orderRepo.AddStatusLog(statusLog(order, order.Status, next, in.Notes, actor.UserID, time.Now())); err != nil {
		return err
	}
	// Totals are locked from here on; record the durable ledger row for the order.
	return uc.writeOrderLedgerRow(ctx, order, total)
}

func (uc *UseCase) ship(order *entity.BulkOrder, side dombulk.Side, actor Actor, in dto.BulkOrderStatusRequest) error {
	next, err := dombulk.Next(order.Status, dombulk.ActionShip, side)
	if err != nil {
		return err
	}
	if in.TrackingNumber == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.orderRepo.UpdateShipping(order.ID, in.TrackingNumber, in.Carrier, next); err != nil {
		return err
	}
	return uc.orderRepo.AddStatusLog(statusLog(order, order.Status, next, in.Notes, actor.UserID, time.Now()))
}

// release deducts the effective quantities from the supplier branch's stock,
// oldest batches first, then walks the order through released to completed.
// The whole movement is one transaction: either all lines deduct or none do.
func (uc *UseCase) release(ctx context.Context, order *entity.BulkOrder, side dombulk.Side, actor Actor, notes string) error {
	released, err := dombulk.Next(order.Status, dombulk.ActionRelease, side)
	if err != nil {
		return err
	}
	completed, err := dombulk.Next(released, dombulk.ActionComplete, side)
	if err != nil {
		return err
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return err
	}

	return uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		for _, item := range items {
			qty := item.EffectiveQty()
			if qty == 0 {
				continue
			}
			batches, err := r.Items.ListAvailable(item.ProductID, order.SupplierBranchID)
			if err != nil {
				return err
			}
			plan, err := dominv.Allocate(dominv.BatchesFromItems(batches), qty)
			if err != nil {
				return err
			}
			for _, alloc := range plan.Allocations {
				if err := r.Items.DecrementQuantity(alloc.InventoryItemID, alloc.Quantity); err != nil {
					return err
				}
			}
		}
		now := time.Now()
		if err := r.BulkOrders.UpdateStatus(order.ID, released); err != nil {
			return err
		}
		if err := r.BulkOrders.AddStatusLog(statusLog(order, order.Status, released, notes, actor.UserID, now)); err != nil {
			return err
		}
		if err := r.BulkOrders.UpdateStatus(order.ID, completed); err != nil {
			return err
		}
		return r.BulkOrders.AddStatusLog(statusLog(order, released, completed, "", actor.UserID, now))
	})
}

// importOrder creates buyer-side inventory batches from a completed order.
// Cost is the order unit price; selling price comes from the request or
// defaults to cost with the standard markup.
func (uc *UseCase) importOrder(ctx context.Context, order *entity.BulkOrder, side dombulk.Side, actor Actor, in dto.BulkOrderStatusRequest) error {
	next, err := dombulk.Next(order.Status, dombulk.ActionImport, side)
	if err != nil {
		return err
	}
	items, err := uc.orderRepo.GetItems(order.ID)
	if err != nil {
		return err
	}
	supplierUser, err := uc.userRepo.GetByID(order.SupplierUserID)
	if err != nil {
		return err
	}
	supplierOrg, err := uc.orgRepo.GetByID(order.SupplierOrgID)
	if err != nil {
		return err
	}
	supplierName := ""
	if supplierOrg != nil {
		supplierName = supplierOrg.Name
	}

	return uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		now := time.Now()
		seq := 0
		for _, item := range items {
			qty := item.EffectiveQty()
			if qty == 0 {
				continue
			}
			seq++
			selling, ok := in.SellingPrices[item.ProductID]
			if !ok || !selling.IsPositive() {
				selling = item.UnitPrice.Mul(entity.DefaultImportMarkup)
			}
			batch := &entity.InventoryItem{
				ID:             uuid.New().String(),
				OrganizationID: order.BuyerOrgID,
				BranchID:       order.BuyerBranchID,
				ProductID:      item.ProductID,
				SupplierName:   supplierName,
				BatchNumber:    fmt.Sprintf("%s-%d", order.OrderNumber, seq),
				Quantity:       qty,
				CostPrice:      item.UnitPrice,
				SellingPrice:   selling,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if supplierUser != nil {
				batch.SupplierID = supplierUser.ID
			}
			if err := r.Items.Create(batch); err != nil {
				return err
			}
		}
		if err := r.BulkOrders.UpdateStatus(order.ID, next); err != nil {
			return err
		}
		return r.BulkOrders.AddStatusLog(statusLog(order, order.Status, next, in.Notes, actor.UserID, now))
	})
}

func (uc *UseCase) writeOrderLedgerRow(ctx context.Context, order *entity.BulkOrder, total decimal.Decimal) error {
	supplierName := ""
	if org, err := uc.orgRepo.GetByID(order.SupplierOrgID); err == nil && org != nil {
		supplierName = org.Name
	}
	return uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		return r.Ledger.Create(&entity.SupplierLedger{
			ID:                uuid.New().String(),
			OrganizationID:    order.BuyerOrgID,
			BranchID:          order.BuyerBranchID,
			SupplierType:      entity.SupplierTypePlatform,
			SupplierID:        order.SupplierUserID,
			SupplierName:      supplierName,
			SourceType:        entity.LedgerSourceBulkOrder,
			ReferenceID:       order.ID,
			TransactionAmount: total,
			PaidAmount:        decimal.Zero,
			EntryDate:         time.Now(),
			CreatedAt:         time.Now(),
		})
	})
}

func itemIndex(items []*entity.BulkOrderItem) map[string]*entity.BulkOrderItem {
	byID := make(map[string]*entity.BulkOrderItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return byID
}

func orderTotal(items []*entity.BulkOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		qty := it.EffectiveQty()
		if qty == 0 {
			continue
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(qty)))
	}
	return total
}
