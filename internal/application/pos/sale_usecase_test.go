package pos

import (
	"context"
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

type memSaleRepo struct {
	sales map[string]*entity.Sale
	items map[string]*entity.SaleItem
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: map[string]*entity.Sale{}, items: map[string]*entity.SaleItem{}}
}

func (m *memSaleRepo) Create(s *entity.Sale) error {
	cp := *s
	m.sales[s.ID] = &cp
	return nil
}

func (m *memSaleRepo) CreateItem(it *entity.SaleItem) error {
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range m.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memSaleRepo) GetItemByID(itemID string) (*entity.SaleItem, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (m *memSaleRepo) ListByBranch(string, int, int) ([]*entity.Sale, error) { return nil, nil }

func (m *memSaleRepo) ApplyRefund(saleID string, total, paid, credit decimal.Decimal, status string) error {
	s, ok := m.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Total = total
	s.Paid = paid
	s.Credit = credit
	s.Status = status
	return nil
}

type memReturnRepo struct {
	returns map[string]*entity.SaleReturn
	items   map[string][]*entity.ReturnItem
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{returns: map[string]*entity.SaleReturn{}, items: map[string][]*entity.ReturnItem{}}
}

func (m *memReturnRepo) Create(r *entity.SaleReturn) error {
	cp := *r
	m.returns[r.ID] = &cp
	return nil
}

func (m *memReturnRepo) CreateItem(it *entity.ReturnItem) error {
	cp := *it
	m.items[it.ReturnID] = append(m.items[it.ReturnID], &cp)
	return nil
}

func (m *memReturnRepo) GetByID(id string) (*entity.SaleReturn, error) {
	r, ok := m.returns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReturnRepo) GetItems(returnID string) ([]*entity.ReturnItem, error) {
	return m.items[returnID], nil
}

func (m *memReturnRepo) Update(r *entity.SaleReturn) error {
	cp := *r
	m.returns[r.ID] = &cp
	return nil
}

func (m *memReturnRepo) UpdateItem(it *entity.ReturnItem) error {
	for i, existing := range m.items[it.ReturnID] {
		if existing.ID == it.ID {
			cp := *it
			m.items[it.ReturnID][i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memReturnRepo) AcceptedQuantity(saleItemID, excludeReturnID string) (int64, error) {
	var total int64
	for _, ret := range m.returns {
		if ret.ID == excludeReturnID || ret.Status == entity.ReturnStatusRejected {
			continue
		}
		for _, it := range m.items[ret.ID] {
			if it.SaleItemID == saleItemID {
				total += it.QuantityAccepted
			}
		}
	}
	return total, nil
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

func (m *memItemRepo) ListByBranch(string, int, int) ([]*entity.InventoryItem, error) {
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

func (m *memItemRepo) ExpiringWithin(string, string, time.Time) ([]*entity.InventoryItem, error) {
	return nil, nil
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

type stubBranchRepo struct{ branches map[string]*entity.Branch }

func (s *stubBranchRepo) Create(*entity.Branch) error { return nil }
func (s *stubBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return s.branches[id], nil
}
func (s *stubBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) { return nil, nil }

type stubPatientRepo struct{ patients map[string]*entity.Patient }

func (s *stubPatientRepo) Create(*entity.Patient) error { return nil }
func (s *stubPatientRepo) GetByID(id string) (*entity.Patient, error) {
	return s.patients[id], nil
}
func (s *stubPatientRepo) ListByOrganization(string, int, int) ([]*entity.Patient, error) {
	return nil, nil
}

type memRunner struct{ repos inventory.TxRepos }

func (m *memRunner) Run(_ context.Context, fn func(r inventory.TxRepos) error) error {
	return fn(m.repos)
}

type posFixture struct {
	sales   *SaleUseCase
	returns *ReturnUseCase

	saleRepo   *memSaleRepo
	returnRepo *memReturnRepo
	items      *memItemRepo
}

func newPosFixture(t *testing.T) *posFixture {
	t.Helper()

	saleRepo := newMemSaleRepo()
	returnRepo := newMemReturnRepo()
	items := &memItemRepo{batches: map[string]*entity.InventoryItem{}}
	runner := &memRunner{repos: inventory.TxRepos{
		Items:   items,
		Sales:   saleRepo,
		Returns: returnRepo,
	}}

	products := &stubProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", OrganizationID: "org-1", Name: "Paracetamol 500mg"},
	}}
	branches := &stubBranchRepo{branches: map[string]*entity.Branch{
		"br-1": {ID: "br-1", OrganizationID: "org-1", Name: "Main"},
	}}
	patients := &stubPatientRepo{patients: map[string]*entity.Patient{}}

	old := time.Now().Add(-24 * time.Hour)
	items.batches["b1"] = &entity.InventoryItem{
		ID: "b1", OrganizationID: "org-1", BranchID: "br-1", ProductID: "prod-1",
		Quantity: 5, SellingPrice: decimal.NewFromInt(10), CreatedAt: old,
	}
	items.batches["b2"] = &entity.InventoryItem{
		ID: "b2", OrganizationID: "org-1", BranchID: "br-1", ProductID: "prod-1",
		Quantity: 10, SellingPrice: decimal.NewFromInt(10), CreatedAt: old.Add(time.Hour),
	}

	return &posFixture{
		sales:      NewSaleUseCase(runner, saleRepo, items, products, branches, patients),
		returns:    NewReturnUseCase(runner, returnRepo, saleRepo, items),
		saleRepo:   saleRepo,
		returnRepo: returnRepo,
		items:      items,
	}
}

func (f *posFixture) completeSale(t *testing.T, paid decimal.Decimal) *dto.SaleResponse {
	t.Helper()
	resp, err := f.sales.CompleteSale(context.Background(), "org-1", "u-1", dto.CompleteSaleRequest{
		BranchID: "br-1",
		Items: []dto.CartItemDTO{{
			ProductID: "prod-1",
			Quantity:  10,
			Allocations: []dto.CartAllocationDTO{
				{InventoryItemID: "b1", Quantity: 5},
				{InventoryItemID: "b2", Quantity: 5},
			},
		}},
		Paid:          paid,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	return resp
}

func TestCompleteSaleCreditWhenUnderpaid(t *testing.T) {
	f := newPosFixture(t)

	// 10 units at the batch selling price of 10, paid 60 of 100.
	resp := f.completeSale(t, decimal.NewFromInt(60))

	assert.True(t, resp.Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Credit.Equal(decimal.NewFromInt(40)))
	assert.True(t, resp.Change.IsZero())
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)

	assert.EqualValues(t, 0, f.items.batches["b1"].Quantity)
	assert.EqualValues(t, 5, f.items.batches["b2"].Quantity)
}

func TestCompleteSaleChangeWhenOverpaid(t *testing.T) {
	f := newPosFixture(t)

	resp := f.completeSale(t, decimal.NewFromInt(120))

	assert.True(t, resp.Credit.IsZero())
	assert.True(t, resp.Change.Equal(decimal.NewFromInt(20)))
}

func TestCompleteSaleDiscountAndTax(t *testing.T) {
	f := newPosFixture(t)

	resp, err := f.sales.CompleteSale(context.Background(), "org-1", "u-1", dto.CompleteSaleRequest{
		BranchID: "br-1",
		Items: []dto.CartItemDTO{{
			ProductID:   "prod-1",
			Quantity:    5,
			Allocations: []dto.CartAllocationDTO{{InventoryItemID: "b1", Quantity: 5}},
		}},
		Discount:      decimal.NewFromInt(10),
		TaxRate:       decimal.NewFromFloat(0.1),
		Paid:          decimal.NewFromInt(44),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// subtotal 50, discounted 40, tax 4, total 44.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.Tax.Equal(decimal.NewFromInt(4)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(44)))
	assert.True(t, resp.Credit.IsZero())
}

func TestCompleteSaleStaleAllocationConflicts(t *testing.T) {
	f := newPosFixture(t)
	f.items.batches["b1"].Quantity = 2

	_, err := f.sales.CompleteSale(context.Background(), "org-1", "u-1", dto.CompleteSaleRequest{
		BranchID: "br-1",
		Items: []dto.CartItemDTO{{
			ProductID:   "prod-1",
			Quantity:    5,
			Allocations: []dto.CartAllocationDTO{{InventoryItemID: "b1", Quantity: 5}},
		}},
		Paid: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrStockConflict)
}

func TestCompleteSaleAllocationMismatchRejected(t *testing.T) {
	f := newPosFixture(t)

	_, err := f.sales.CompleteSale(context.Background(), "org-1", "u-1", dto.CompleteSaleRequest{
		BranchID: "br-1",
		Items: []dto.CartItemDTO{{
			ProductID:   "prod-1",
			Quantity:    5,
			Allocations: []dto.CartAllocationDTO{{InventoryItemID: "b1", Quantity: 3}},
		}},
		Paid: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturnLifecycleRefundMath(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	// Sale of 100 with 60 paid leaves 40 on credit.
	sale := f.completeSale(t, decimal.NewFromInt(60))

	created, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonDamaged,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 3,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusPending, created.Status)

	// Approve 2 of the 3 requested units: refund 2 x 10.
	approved, err := f.returns.ApproveReturn("org-1", "u-2", created.ID, dto.ApproveReturnRequest{
		AcceptedQuantities: map[string]int64{created.Items[0].ID: 2},
	})
	require.NoError(t, err)
	assert.True(t, approved.RefundAmount.Equal(decimal.NewFromInt(20)))

	b1Before := f.items.batches["b1"].Quantity

	processed, err := f.returns.ProcessReturn(ctx, "org-1", "u-2", created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusCompleted, processed.Status)

	// Stock goes back to an originally allocated batch.
	assert.EqualValues(t, b1Before+2, f.items.batches["b1"].Quantity)

	// total 100-20=80, paid 60-20=40, credit 40-20=20.
	after, err := f.saleRepo.GetByID(sale.ID)
	require.NoError(t, err)
	assert.True(t, after.Total.Equal(decimal.NewFromInt(80)))
	assert.True(t, after.Paid.Equal(decimal.NewFromInt(40)))
	assert.True(t, after.Credit.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, entity.SaleStatusCompleted, after.Status)
}

func TestFullReturnMarksSaleRefunded(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	sale := f.completeSale(t, decimal.NewFromInt(100))

	created, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonCustomerRequest,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 10,
		}},
	})
	require.NoError(t, err)
	_, err = f.returns.ApproveReturn("org-1", "u-2", created.ID, dto.ApproveReturnRequest{})
	require.NoError(t, err)
	_, err = f.returns.ProcessReturn(ctx, "org-1", "u-2", created.ID)
	require.NoError(t, err)

	after, err := f.saleRepo.GetByID(sale.ID)
	require.NoError(t, err)
	assert.True(t, after.Total.IsZero())
	assert.Equal(t, entity.SaleStatusRefunded, after.Status)

	// All ten units are back in stock.
	assert.EqualValues(t, 5, f.items.batches["b1"].Quantity)
	assert.EqualValues(t, 10, f.items.batches["b2"].Quantity)
}

func TestRejectReturnLeavesEverythingUntouched(t *testing.T) {
	f := newPosFixture(t)

	sale := f.completeSale(t, decimal.NewFromInt(100))
	created, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonOther,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 1,
		}},
	})
	require.NoError(t, err)

	rejected, err := f.returns.RejectReturn("org-1", "u-2", created.ID, "not eligible")
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusRejected, rejected.Status)

	// Processing a rejected return is a conflict.
	_, err = f.returns.ProcessReturn(context.Background(), "org-1", "u-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	after, err := f.saleRepo.GetByID(sale.ID)
	require.NoError(t, err)
	assert.True(t, after.Total.Equal(decimal.NewFromInt(100)))
	assert.EqualValues(t, 0, f.items.batches["b1"].Quantity)
}

func TestRepeatedFullReturnsCappedAtQuantitySold(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	sale := f.completeSale(t, decimal.NewFromInt(100))

	first, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonDamaged,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 10,
		}},
	})
	require.NoError(t, err)
	_, err = f.returns.ApproveReturn("org-1", "u-2", first.ID, dto.ApproveReturnRequest{})
	require.NoError(t, err)
	_, err = f.returns.ProcessReturn(ctx, "org-1", "u-2", first.ID)
	require.NoError(t, err)

	// Everything sold has already been taken back; even one more unit is over.
	_, err = f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonDamaged,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 1,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Stock is back to its pre-sale level, with nothing phantom on top.
	assert.EqualValues(t, 5, f.items.batches["b1"].Quantity)
	assert.EqualValues(t, 10, f.items.batches["b2"].Quantity)
}

func TestOverlappingPendingReturnsBlockedAtApproval(t *testing.T) {
	f := newPosFixture(t)

	sale := f.completeSale(t, decimal.NewFromInt(100))

	request := func(qty int64) *dto.ReturnResponse {
		created, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
			SaleID: sale.ID,
			Reason: entity.ReturnReasonCustomerRequest,
			Items: []dto.ReturnItemRequest{{
				SaleItemID:       sale.Items[0].ID,
				QuantityReturned: qty,
			}},
		})
		require.NoError(t, err)
		return created
	}

	// Pending returns hold no accepted quantity yet, so both may be filed.
	first := request(7)
	second := request(7)

	_, err := f.returns.ApproveReturn("org-1", "u-2", first.ID, dto.ApproveReturnRequest{})
	require.NoError(t, err)

	// With 7 of 10 accepted, approving another 7 would exceed the sale line.
	_, err = f.returns.ApproveReturn("org-1", "u-2", second.ID, dto.ApproveReturnRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Trimming the second acceptance to the remaining 3 goes through.
	approved, err := f.returns.ApproveReturn("org-1", "u-2", second.ID, dto.ApproveReturnRequest{
		AcceptedQuantities: map[string]int64{second.Items[0].ID: 3},
	})
	require.NoError(t, err)
	assert.True(t, approved.RefundAmount.Equal(decimal.NewFromInt(30)))
}

func TestCreateReturnQuantityExceedsSold(t *testing.T) {
	f := newPosFixture(t)

	sale := f.completeSale(t, decimal.NewFromInt(100))
	_, err := f.returns.CreateReturn("org-1", "u-1", dto.CreateReturnRequest{
		SaleID: sale.ID,
		Reason: entity.ReturnReasonDamaged,
		Items: []dto.ReturnItemRequest{{
			SaleItemID:       sale.Items[0].ID,
			QuantityReturned: 11,
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
