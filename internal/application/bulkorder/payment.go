package bulkorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	dombulk "github.com/medtrack/medtrack-api/internal/domain/bulkorder"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

var validPaymentTypes = map[string]bool{
	entity.PaymentTypeAdvance:     true,
	entity.PaymentTypeInstallment: true,
	entity.PaymentTypeFinal:       true,
}

var validPaymentMethods = map[string]bool{
	entity.PaymentMethodCash:         true,
	entity.PaymentMethodBankTransfer: true,
	entity.PaymentMethodMobileMoney:  true,
}

// RecordPayment records a buyer payment against an order. The order row is
// locked for the transaction so concurrent payments serialize; the resulting
// status depends on how much of the total is now covered.
func (uc *UseCase) RecordPayment(ctx context.Context, actor Actor, orderID string, in dto.BulkOrderPaymentRequest) (*dto.BulkOrderResponse, error) {
	if !validPaymentTypes[in.PaymentType] || !validPaymentMethods[in.Method] {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.BulkOrders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		side, err := sideOf(order, actor)
		if err != nil {
			return err
		}
		if _, err := dombulk.Next(order.Status, dombulk.ActionRecordPayment, side); err != nil {
			return err
		}
		if in.Amount.GreaterThan(order.RemainingAmount()) {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		payment := &entity.BulkOrderPayment{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			PaymentType: in.PaymentType,
			Method:      in.Method,
			Amount:      in.Amount,
			Reference:   in.Reference,
			RecordedBy:  actor.UserID,
			CreatedAt:   now,
		}
		if err := r.BulkOrders.AddPayment(payment); err != nil {
			return err
		}

		paid := order.PaidAmount.Add(in.Amount)
		next := dombulk.StatusForPayment(order.TotalAmount, paid)
		if err := r.BulkOrders.UpdateTotals(orderID, order.TotalAmount, paid, next); err != nil {
			return err
		}
		if next != order.Status {
			if err := r.BulkOrders.AddStatusLog(statusLog(order, order.Status, next, in.Reference, actor.UserID, now)); err != nil {
				return err
			}
		}
		return r.Ledger.Create(&entity.SupplierLedger{
			ID:                uuid.New().String(),
			OrganizationID:    order.BuyerOrgID,
			BranchID:          order.BuyerBranchID,
			SupplierType:      entity.SupplierTypePlatform,
			SupplierID:        order.SupplierUserID,
			SourceType:        entity.LedgerSourceBulkOrderPayment,
			ReferenceID:       payment.ID,
			PaidAmount:        in.Amount,
			EntryDate:         now,
			CreatedAt:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.GetOrder(actor, orderID)
}
