package bulkorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

type memOrderRepo struct {
	orders   map[string]*entity.BulkOrder
	items    map[string][]*entity.BulkOrderItem
	payments map[string][]*entity.BulkOrderPayment
	logs     map[string][]*entity.BulkOrderStatusLog
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders:   map[string]*entity.BulkOrder{},
		items:    map[string][]*entity.BulkOrderItem{},
		payments: map[string][]*entity.BulkOrderPayment{},
		logs:     map[string][]*entity.BulkOrderStatusLog{},
	}
}

func (m *memOrderRepo) Create(o *entity.BulkOrder) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) CreateItem(it *entity.BulkOrderItem) error {
	cp := *it
	m.items[it.OrderID] = append(m.items[it.OrderID], &cp)
	return nil
}

func (m *memOrderRepo) GetByID(id string) (*entity.BulkOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) GetForUpdate(id string) (*entity.BulkOrder, error) { return m.GetByID(id) }

func (m *memOrderRepo) GetItems(orderID string) ([]*entity.BulkOrderItem, error) {
	return m.items[orderID], nil
}

func (m *memOrderRepo) UpdateItem(it *entity.BulkOrderItem) error {
	for i, existing := range m.items[it.OrderID] {
		if existing.ID == it.ID {
			cp := *it
			m.items[it.OrderID][i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memOrderRepo) UpdateStatus(id string, status entity.BulkOrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memOrderRepo) UpdateTotals(id string, total, paid decimal.Decimal, status entity.BulkOrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.TotalAmount = total
	o.PaidAmount = paid
	o.Status = status
	return nil
}

func (m *memOrderRepo) UpdateShipping(id string, trackingNumber, carrier string, status entity.BulkOrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.TrackingNumber = trackingNumber
	o.Carrier = carrier
	o.Status = status
	return nil
}

func (m *memOrderRepo) AddPayment(p *entity.BulkOrderPayment) error {
	cp := *p
	m.payments[p.OrderID] = append(m.payments[p.OrderID], &cp)
	return nil
}

func (m *memOrderRepo) ListPayments(orderID string) ([]*entity.BulkOrderPayment, error) {
	return m.payments[orderID], nil
}

func (m *memOrderRepo) AddStatusLog(l *entity.BulkOrderStatusLog) error {
	cp := *l
	m.logs[l.OrderID] = append(m.logs[l.OrderID], &cp)
	return nil
}

func (m *memOrderRepo) ListStatusLogs(orderID string) ([]*entity.BulkOrderStatusLog, error) {
	return m.logs[orderID], nil
}

func (m *memOrderRepo) ListForOrganization(orgID string, limit, offset int) ([]*entity.BulkOrder, error) {
	var out []*entity.BulkOrder
	for _, o := range m.orders {
		if o.BuyerOrgID == orgID || o.SupplierOrgID == orgID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListBySupplierUser(supplierUserID, buyerOrgID string) ([]*entity.BulkOrder, error) {
	var out []*entity.BulkOrder
	for _, o := range m.orders {
		if o.SupplierUserID == supplierUserID && o.BuyerOrgID == buyerOrgID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memItemRepo struct {
	batches map[string]*entity.InventoryItem
}

func (m *memItemRepo) Create(it *entity.InventoryItem) error {
	cp := *it
	m.batches[it.ID] = &cp
	return nil
}

func (m *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	it, ok := m.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (m *memItemRepo) ListAvailable(productID, branchID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range m.batches {
		if it.ProductID == productID && it.BranchID == branchID && it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memItemRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.InventoryItem, error) {
	return nil, nil
}

func (m *memItemRepo) DecrementQuantity(id string, qty int64) error {
	it, ok := m.batches[id]
	if !ok || it.Quantity < qty {
		return domain.ErrStockConflict
	}
	it.Quantity -= qty
	return nil
}

func (m *memItemRepo) IncrementQuantity(id string, qty int64) error {
	it, ok := m.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity += qty
	return nil
}

func (m *memItemRepo) ExpiringWithin(orgID, branchID string, deadline time.Time) ([]*entity.InventoryItem, error) {
	return nil, nil
}

type memLedgerRepo struct {
	rows []*entity.SupplierLedger
}

func (m *memLedgerRepo) Create(row *entity.SupplierLedger) error {
	cp := *row
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memLedgerRepo) ListBySupplier(orgID, branchID, supplierID, supplierName string) ([]*entity.SupplierLedger, error) {
	return m.rows, nil
}

type memRunner struct {
	repos inventory.TxRepos
}

func (m *memRunner) Run(_ context.Context, fn func(r inventory.TxRepos) error) error {
	return fn(m.repos)
}

type stubOrgRepo struct{ orgs map[string]*entity.Organization }

func (s *stubOrgRepo) Create(*entity.Organization) error { return nil }
func (s *stubOrgRepo) GetByID(id string) (*entity.Organization, error) {
	return s.orgs[id], nil
}
func (s *stubOrgRepo) List(int, int) ([]*entity.Organization, error) { return nil, nil }
func (s *stubOrgRepo) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}
func (s *stubOrgRepo) EnableModule(string, string) error { return nil }

type stubBranchRepo struct{ branches map[string]*entity.Branch }

func (s *stubBranchRepo) Create(*entity.Branch) error { return nil }
func (s *stubBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return s.branches[id], nil
}
func (s *stubBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) { return nil, nil }

type stubUserRepo struct{ users map[string]*entity.User }

func (s *stubUserRepo) Create(*entity.User) error { return nil }
func (s *stubUserRepo) GetByID(id string) (*entity.User, error) {
	return s.users[id], nil
}
func (s *stubUserRepo) FindByEmail(string) (*entity.User, error) { return nil, domain.ErrUserNotFound }
func (s *stubUserRepo) GetByEmailAndOrganization(string, string) (*entity.User, error) {
	return nil, domain.ErrUserNotFound
}

type stubProductRepo struct{ products map[string]*entity.Product }

func (s *stubProductRepo) Create(*entity.Product) error { return nil }
func (s *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	return s.products[id], nil
}
func (s *stubProductRepo) GetByOrgAndSKU(string, string) (*entity.Product, error) { return nil, nil }
func (s *stubProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Update(*entity.Product) error { return nil }

type fixture struct {
	uc     *UseCase
	orders *memOrderRepo
	items  *memItemRepo
	ledger *memLedgerRepo

	buyer    Actor
	supplier Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orders := newMemOrderRepo()
	items := &memItemRepo{batches: map[string]*entity.InventoryItem{}}
	ledger := &memLedgerRepo{}
	runner := &memRunner{repos: inventory.TxRepos{
		Items:      items,
		BulkOrders: orders,
		Ledger:     ledger,
	}}

	orgs := &stubOrgRepo{orgs: map[string]*entity.Organization{
		"org-buyer":    {ID: "org-buyer", Name: "City Pharmacy", OrgType: entity.OrgTypePharmacy},
		"org-supplier": {ID: "org-supplier", Name: "Delta Distributors", OrgType: entity.OrgTypeSupplier},
	}}
	branches := &stubBranchRepo{branches: map[string]*entity.Branch{
		"br-buyer":    {ID: "br-buyer", OrganizationID: "org-buyer", Name: "Main"},
		"br-supplier": {ID: "br-supplier", OrganizationID: "org-supplier", Name: "Warehouse"},
	}}
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-supplier": {
			ID:             "u-supplier",
			OrganizationID: "org-supplier",
			BranchID:       "br-supplier",
			Role:           entity.RoleSupplierAdmin,
		},
	}}
	products := &stubProductRepo{products: map[string]*entity.Product{
		"prod-a": {ID: "prod-a", OrganizationID: "org-supplier", Name: "Amoxicillin 500mg"},
		"prod-b": {ID: "prod-b", OrganizationID: "org-supplier", Name: "Ibuprofen 200mg"},
	}}

	return &fixture{
		uc:     NewUseCase(runner, orders, products, orgs, branches, users),
		orders: orders,
		items:  items,
		ledger: ledger,
		buyer:  Actor{UserID: "u-buyer", OrgID: "org-buyer", Role: entity.RoleOrgAdmin},
		supplier: Actor{
			UserID: "u-supplier", OrgID: "org-supplier", Role: entity.RoleSupplierAdmin,
		},
	}
}

func (f *fixture) createOrder(t *testing.T) string {
	t.Helper()
	resp, err := f.uc.CreateOrder(f.buyer, dto.CreateBulkOrderRequest{
		BuyerBranchID:  "br-buyer",
		SupplierOrgID:  "org-supplier",
		SupplierUserID: "u-supplier",
		Items: []dto.BulkOrderItemRequest{
			{ProductID: "prod-a", RequestedQty: 100, UnitPrice: decimal.NewFromInt(5)},
			{ProductID: "prod-b", RequestedQty: 50, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	return resp.ID
}

func TestCreateOrderTotalsFromRequestedLines(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateOrder(f.buyer, dto.CreateBulkOrderRequest{
		BuyerBranchID:  "br-buyer",
		SupplierOrgID:  "org-supplier",
		SupplierUserID: "u-supplier",
		Items: []dto.BulkOrderItemRequest{
			{ProductID: "prod-a", RequestedQty: 100, UnitPrice: decimal.NewFromInt(5)},
			{ProductID: "prod-b", RequestedQty: 50, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.BulkOrderDraft), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(600)), "100*5 + 50*2")
	assert.True(t, resp.PaidAmount.IsZero())
}

func TestTransitionWrongSideForbidden(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)

	// Only the buyer may submit a draft.
	_, err := f.uc.Transition(context.Background(), f.supplier, id, dto.BulkOrderStatusRequest{Action: "submit"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransitionIllegalEdgeRejected(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)

	_, err := f.uc.Transition(context.Background(), f.buyer, id, dto.BulkOrderStatusRequest{Action: "ship"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirmAdjustsItemsAndTotal(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)

	_, err := f.uc.Transition(context.Background(), f.buyer, id, dto.BulkOrderStatusRequest{Action: "submit"})
	require.NoError(t, err)

	items, _ := f.orders.GetItems(id)
	resp, err := f.uc.Transition(context.Background(), f.supplier, id, dto.BulkOrderStatusRequest{
		Action: "confirm",
		Items: []dto.BulkOrderItemUpdate{
			{ItemID: items[0].ID, Quantity: 80, UnitPrice: decimal.NewFromInt(6)},
			{ItemID: items[1].ID, Cancel: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.BulkOrderSupplierConfirmed), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(480)), "80*6, cancelled line contributes nothing")
}

func TestPaymentFlowPartialThenReadyToShip(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)
	ctx := context.Background()

	for _, step := range []struct {
		actor  Actor
		action string
	}{
		{f.buyer, "submit"},
		{f.supplier, "confirm"},
		{f.buyer, "reconfirm"},
	} {
		_, err := f.uc.Transition(ctx, step.actor, id, dto.BulkOrderStatusRequest{Action: step.action})
		require.NoError(t, err)
	}

	resp, err := f.uc.RecordPayment(ctx, f.buyer, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeAdvance,
		Method:      entity.PaymentMethodBankTransfer,
		Amount:      decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BulkOrderPaymentPartial), resp.Status)
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(400)))

	resp, err = f.uc.RecordPayment(ctx, f.buyer, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeFinal,
		Method:      entity.PaymentMethodCash,
		Amount:      decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BulkOrderReadyToShip), resp.Status)
	assert.True(t, resp.RemainingAmount.IsZero())
	assert.Len(t, resp.Payments, 2)

	// Overpaying is rejected outright.
	_, err = f.uc.RecordPayment(ctx, f.buyer, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeFinal,
		Method:      entity.PaymentMethodCash,
		Amount:      decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSupplierSidePaymentForbidden(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)
	ctx := context.Background()

	for _, step := range []struct {
		actor  Actor
		action string
	}{
		{f.buyer, "submit"},
		{f.supplier, "confirm"},
		{f.buyer, "reconfirm"},
	} {
		_, err := f.uc.Transition(ctx, step.actor, id, dto.BulkOrderStatusRequest{Action: step.action})
		require.NoError(t, err)
	}

	_, err := f.uc.RecordPayment(ctx, f.supplier, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeAdvance,
		Method:      entity.PaymentMethodCash,
		Amount:      decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReleaseDeductsSupplierStockOldestFirst(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	f.items.batches["b1"] = &entity.InventoryItem{
		ID: "b1", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-a", Quantity: 60, CreatedAt: old,
	}
	f.items.batches["b2"] = &entity.InventoryItem{
		ID: "b2", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-a", Quantity: 100, CreatedAt: old.Add(time.Hour),
	}
	f.items.batches["b3"] = &entity.InventoryItem{
		ID: "b3", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-b", Quantity: 50, CreatedAt: old,
	}

	f.walkToDelivered(t, id)

	resp, err := f.uc.Transition(ctx, f.supplier, id, dto.BulkOrderStatusRequest{Action: "release"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BulkOrderCompleted), resp.Status)

	// 100 of prod-a: all 60 from the older batch, 40 from the newer.
	assert.EqualValues(t, 0, f.items.batches["b1"].Quantity)
	assert.EqualValues(t, 60, f.items.batches["b2"].Quantity)
	assert.EqualValues(t, 0, f.items.batches["b3"].Quantity)
}

func TestReleaseShortfallLeavesStockUntouched(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)

	f.items.batches["b1"] = &entity.InventoryItem{
		ID: "b1", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-a", Quantity: 30, CreatedAt: time.Now(),
	}

	f.walkToDelivered(t, id)

	_, err := f.uc.Transition(context.Background(), f.supplier, id, dto.BulkOrderStatusRequest{Action: "release"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	// The fake runner does not roll back, but the allocator fails before any
	// decrement, so the batch is untouched either way.
	assert.EqualValues(t, 30, f.items.batches["b1"].Quantity)

	order, _ := f.orders.GetByID(id)
	assert.Equal(t, entity.BulkOrderDelivered, order.Status)
}

func TestImportCreatesBuyerBatchesWithMarkup(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)
	ctx := context.Background()

	old := time.Now().Add(-time.Hour)
	f.items.batches["b1"] = &entity.InventoryItem{
		ID: "b1", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-a", Quantity: 100, CreatedAt: old,
	}
	f.items.batches["b2"] = &entity.InventoryItem{
		ID: "b2", OrganizationID: "org-supplier", BranchID: "br-supplier",
		ProductID: "prod-b", Quantity: 50, CreatedAt: old,
	}

	f.walkToDelivered(t, id)
	_, err := f.uc.Transition(ctx, f.supplier, id, dto.BulkOrderStatusRequest{Action: "release"})
	require.NoError(t, err)

	resp, err := f.uc.Transition(ctx, f.buyer, id, dto.BulkOrderStatusRequest{
		Action:        "import",
		SellingPrices: map[string]decimal.Decimal{"prod-b": decimal.NewFromInt(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BulkOrderImported), resp.Status)

	var prodA, prodB *entity.InventoryItem
	for _, b := range f.items.batches {
		if b.BranchID != "br-buyer" {
			continue
		}
		switch b.ProductID {
		case "prod-a":
			prodA = b
		case "prod-b":
			prodB = b
		}
	}
	require.NotNil(t, prodA)
	require.NotNil(t, prodB)
	assert.EqualValues(t, 100, prodA.Quantity)
	assert.True(t, prodA.CostPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, prodA.SellingPrice.Equal(decimal.NewFromInt(6)), "cost with default markup")
	assert.True(t, prodB.SellingPrice.Equal(decimal.NewFromInt(4)), "explicit selling price wins")
	assert.Equal(t, "Delta Distributors", prodA.SupplierName)
}

func TestPaymentsWriteLedgerRows(t *testing.T) {
	f := newFixture(t)
	id := f.createOrder(t)
	ctx := context.Background()

	for _, step := range []struct {
		actor  Actor
		action string
	}{
		{f.buyer, "submit"},
		{f.supplier, "confirm"},
		{f.buyer, "reconfirm"},
	} {
		_, err := f.uc.Transition(ctx, step.actor, id, dto.BulkOrderStatusRequest{Action: step.action})
		require.NoError(t, err)
	}
	_, err := f.uc.RecordPayment(ctx, f.buyer, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeAdvance,
		Method:      entity.PaymentMethodCash,
		Amount:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	var orderRows, paymentRows int
	for _, row := range f.ledger.rows {
		switch row.SourceType {
		case entity.LedgerSourceBulkOrder:
			orderRows++
			assert.True(t, row.TransactionAmount.Equal(decimal.NewFromInt(600)))
		case entity.LedgerSourceBulkOrderPayment:
			paymentRows++
			assert.True(t, row.PaidAmount.Equal(decimal.NewFromInt(100)))
		}
	}
	assert.Equal(t, 1, orderRows)
	assert.Equal(t, 1, paymentRows)
}

// walkToDelivered drives a draft order through payment and shipping.
func (f *fixture) walkToDelivered(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()

	for _, step := range []struct {
		actor  Actor
		action string
	}{
		{f.buyer, "submit"},
		{f.supplier, "confirm"},
		{f.buyer, "reconfirm"},
	} {
		_, err := f.uc.Transition(ctx, step.actor, id, dto.BulkOrderStatusRequest{Action: step.action})
		require.NoError(t, err)
	}

	order, err := f.orders.GetByID(id)
	require.NoError(t, err)
	_, err = f.uc.RecordPayment(ctx, f.buyer, id, dto.BulkOrderPaymentRequest{
		PaymentType: entity.PaymentTypeFinal,
		Method:      entity.PaymentMethodBankTransfer,
		Amount:      order.RemainingAmount(),
	})
	require.NoError(t, err)

	_, err = f.uc.Transition(ctx, f.supplier, id, dto.BulkOrderStatusRequest{
		Action:         "ship",
		TrackingNumber: "TRK-100",
		Carrier:        "DHL",
	})
	require.NoError(t, err)
	_, err = f.uc.Transition(ctx, f.buyer, id, dto.BulkOrderStatusRequest{Action: "deliver"})
	require.NoError(t, err)
}
