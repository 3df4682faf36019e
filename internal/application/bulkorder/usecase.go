package bulkorder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	dombulk "github.com/medtrack/medtrack-api/internal/domain/bulkorder"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/domain/repository"
)

// Actor identifies who is acting on an order.
type Actor struct {
	UserID string
	OrgID  string
	Role   string
}

// UseCase drives the bulk order lifecycle. Every transition goes through the
// domain transition table and appends a status log row.
type UseCase struct {
	txRunner    inventory.TxRunner
	orderRepo   repository.BulkOrderRepository
	productRepo repository.ProductRepository
	orgRepo     repository.OrganizationRepository
	branchRepo  repository.BranchRepository
	userRepo    repository.UserRepository
}

// NewUseCase builds the bulk order use case.
func NewUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.BulkOrderRepository,
	productRepo repository.ProductRepository,
	orgRepo repository.OrganizationRepository,
	branchRepo repository.BranchRepository,
	userRepo repository.UserRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		orgRepo:     orgRepo,
		branchRepo:  branchRepo,
		userRepo:    userRepo,
	}
}

// CreateOrder opens a draft order from a buyer branch against a supplier
// organization and one of its supplier users.
func (uc *UseCase) CreateOrder(actor Actor, in dto.CreateBulkOrderRequest) (*dto.BulkOrderResponse, error) {
	if in.BuyerBranchID == "" || in.SupplierOrgID == "" || in.SupplierUserID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	buyerBranch, _ := uc.branchRepo.GetByID(in.BuyerBranchID)
	if buyerBranch == nil || buyerBranch.OrganizationID != actor.OrgID {
		return nil, domain.ErrNotFound
	}
	supplierOrg, _ := uc.orgRepo.GetByID(in.SupplierOrgID)
	if supplierOrg == nil || supplierOrg.OrgType != entity.OrgTypeSupplier {
		return nil, domain.ErrNotFound
	}
	supplierUser, _ := uc.userRepo.GetByID(in.SupplierUserID)
	if supplierUser == nil || supplierUser.OrganizationID != in.SupplierOrgID || supplierUser.Role != entity.RoleSupplierAdmin {
		return nil, domain.ErrNotFound
	}
	supplierBranchID := in.SupplierBranchID
	if supplierBranchID == "" {
		supplierBranchID = supplierUser.BranchID
	}
	supplierBranch, _ := uc.branchRepo.GetByID(supplierBranchID)
	if supplierBranch == nil || supplierBranch.OrganizationID != in.SupplierOrgID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	order := &entity.BulkOrder{
		ID:               uuid.New().String(),
		OrderNumber:      fmt.Sprintf("BO-%d", now.Unix()),
		BuyerOrgID:       actor.OrgID,
		BuyerBranchID:    in.BuyerBranchID,
		SupplierOrgID:    in.SupplierOrgID,
		SupplierBranchID: supplierBranchID,
		SupplierUserID:   in.SupplierUserID,
		Status:           entity.BulkOrderDraft,
		PaidAmount:       decimal.Zero,
		Notes:            in.Notes,
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	total := decimal.Zero
	var items []*entity.BulkOrderItem
	for _, line := range in.Items {
		if line.ProductID == "" || line.RequestedQty <= 0 || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, _ := uc.productRepo.GetByID(line.ProductID)
		if product == nil || product.OrganizationID != in.SupplierOrgID {
			return nil, domain.ErrNotFound
		}
		items = append(items, &entity.BulkOrderItem{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			RequestedQty: line.RequestedQty,
			UnitPrice:    line.UnitPrice,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.RequestedQty)))
	}
	order.TotalAmount = total

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := uc.orderRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(order, items, nil, nil), nil
}

// GetOrder returns an order with items, payments and the status log, scoped to
// either side of it.
func (uc *UseCase) GetOrder(actor Actor, orderID string) (*dto.BulkOrderResponse, error) {
	order, err := uc.ownedOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	items, err := uc.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.orderRepo.ListPayments(orderID)
	if err != nil {
		return nil, err
	}
	logs, err := uc.orderRepo.ListStatusLogs(orderID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, items, payments, logs), nil
}

// ListOrders returns the organization's orders, buyer or supplier side.
func (uc *UseCase) ListOrders(actor Actor, page dto.PageRequest) ([]dto.BulkOrderResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.ListForOrganization(actor.OrgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BulkOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *uc.toResponse(o, nil, nil, nil))
	}
	return out, nil
}

// sideOf resolves which side of the order the actor's organization is.
func sideOf(order *entity.BulkOrder, actor Actor) (dombulk.Side, error) {
	switch actor.OrgID {
	case order.BuyerOrgID:
		return dombulk.SideBuyer, nil
	case order.SupplierOrgID:
		return dombulk.SideSupplier, nil
	default:
		// The order is not visible outside its two organizations.
		return "", domain.ErrNotFound
	}
}

func (uc *UseCase) ownedOrder(actor Actor, orderID string) (*entity.BulkOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := sideOf(order, actor); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *UseCase) toResponse(
	order *entity.BulkOrder,
	items []*entity.BulkOrderItem,
	payments []*entity.BulkOrderPayment,
	logs []*entity.BulkOrderStatusLog,
) *dto.BulkOrderResponse {
	resp := &dto.BulkOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		BuyerOrgID:      order.BuyerOrgID,
		BuyerBranchID:   order.BuyerBranchID,
		SupplierOrgID:   order.SupplierOrgID,
		SupplierUserID:  order.SupplierUserID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		PaidAmount:      order.PaidAmount,
		RemainingAmount: order.RemainingAmount(),
		TrackingNumber:  order.TrackingNumber,
		Carrier:         order.Carrier,
		CreatedAt:       order.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.BulkOrderItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			RequestedQty: it.RequestedQty,
			ConfirmedQty: it.ConfirmedQty,
			FinalQty:     it.FinalQty,
			UnitPrice:    it.UnitPrice,
			Cancelled:    it.Cancelled,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.BulkOrderPaymentResponse{
			ID:          p.ID,
			PaymentType: p.PaymentType,
			Method:      p.Method,
			Amount:      p.Amount,
			Reference:   p.Reference,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, l := range logs {
		resp.StatusLogs = append(resp.StatusLogs, dto.BulkOrderStatusLogResponse{
			FromStatus: string(l.FromStatus),
			ToStatus:   string(l.ToStatus),
			Notes:      l.Notes,
			ActorID:    l.ActorID,
			CreatedAt:  l.CreatedAt,
		})
	}
	return resp
}

func statusLog(order *entity.BulkOrder, from, to entity.BulkOrderStatus, notes, actorID string, at time.Time) *entity.BulkOrderStatusLog {
	return &entity.BulkOrderStatusLog{
		ID:         uuid.New().String(),
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   to,
		Notes:      notes,
		ActorID:    actorID,
		CreatedAt:  at,
	}
}
