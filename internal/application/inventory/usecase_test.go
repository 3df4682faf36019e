package inventory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medtrack-api/internal/application/dto"
	"github.com/medtrack/medtrack-api/internal/domain"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// ── in-memory fakes ──────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[string]*entity.InventoryItem{}}
}

func (m *memItemRepo) Create(item *entity.InventoryItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (m *memItemRepo) ListAvailable(productID, branchID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range m.items {
		if it.ProductID == productID && it.BranchID == branchID && it.Quantity > 0 {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memItemRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range m.items {
		if it.BranchID == branchID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memItemRepo) DecrementQuantity(id string, qty int64) error {
	it, ok := m.items[id]
	if !ok || it.Quantity < qty {
		return domain.ErrStockConflict
	}
	it.Quantity -= qty
	return nil
}

func (m *memItemRepo) IncrementQuantity(id string, qty int64) error {
	it, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity += qty
	return nil
}

func (m *memItemRepo) ExpiringWithin(orgID, branchID string, deadline time.Time) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range m.items {
		if it.OrganizationID == orgID && it.BranchID == branchID && it.Quantity > 0 &&
			!it.ExpiryDate.IsZero() && it.ExpiryDate.Before(deadline) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

type memPurchaseRepo struct {
	txs      []*entity.PurchaseTransaction
	payments []*entity.PaymentRecord
}

func (m *memPurchaseRepo) CreateTransaction(tx *entity.PurchaseTransaction) error {
	m.txs = append(m.txs, tx)
	return nil
}

func (m *memPurchaseRepo) GetTransaction(string) (*entity.PurchaseTransaction, error) {
	return nil, nil
}

func (m *memPurchaseRepo) ListTransactions(string, string) ([]*entity.PurchaseTransaction, error) {
	return m.txs, nil
}

func (m *memPurchaseRepo) AddPayment(p *entity.PaymentRecord) error {
	m.payments = append(m.payments, p)
	return nil
}

func (m *memPurchaseRepo) ListPayments(string) ([]*entity.PaymentRecord, error) {
	return m.payments, nil
}

type memLedgerRepo struct {
	rows []*entity.SupplierLedger
}

func (m *memLedgerRepo) Create(row *entity.SupplierLedger) error {
	m.rows = append(m.rows, row)
	return nil
}

func (m *memLedgerRepo) ListBySupplier(string, string, string, string) ([]*entity.SupplierLedger, error) {
	return m.rows, nil
}

type stubProductRepo struct {
	products map[string]*entity.Product
}

func (s *stubProductRepo) Create(*entity.Product) error { return nil }
func (s *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	return s.products[id], nil
}
func (s *stubProductRepo) GetByOrgAndSKU(string, string) (*entity.Product, error) { return nil, nil }
func (s *stubProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Update(*entity.Product) error { return nil }

type stubBranchRepo struct {
	branches map[string]*entity.Branch
}

func (s *stubBranchRepo) Create(*entity.Branch) error { return nil }
func (s *stubBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return s.branches[id], nil
}
func (s *stubBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) { return nil, nil }

type memRunner struct {
	repos TxRepos
}

func (m *memRunner) Run(_ context.Context, fn func(r TxRepos) error) error {
	return fn(m.repos)
}

// ── fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *UseCase
	items     *memItemRepo
	purchases *memPurchaseRepo
	ledger    *memLedgerRepo
}

func newFixture() *fixture {
	items := newMemItemRepo()
	purchases := &memPurchaseRepo{}
	ledgerRepo := &memLedgerRepo{}
	products := &stubProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", OrganizationID: "org-1", SKU: "MED-001", Name: "Paracetamol 500mg"},
		"prod-x": {ID: "prod-x", OrganizationID: "org-other", SKU: "X-1", Name: "Foreign product"},
	}}
	branches := &stubBranchRepo{branches: map[string]*entity.Branch{
		"br-1": {ID: "br-1", OrganizationID: "org-1", Name: "Main Branch"},
	}}
	runner := &memRunner{repos: TxRepos{Items: items, Purchases: purchases, Ledger: ledgerRepo}}
	return &fixture{
		uc:        NewUseCase(runner, items, products, branches),
		items:     items,
		purchases: purchases,
		ledger:    ledgerRepo,
	}
}

func (f *fixture) seedBatch(id string, qty int64, createdAt time.Time, expiry time.Time) {
	f.items.items[id] = &entity.InventoryItem{
		ID:             id,
		OrganizationID: "org-1",
		BranchID:       "br-1",
		ProductID:      "prod-1",
		BatchNumber:    "B-" + id,
		Quantity:       qty,
		SellingPrice:   decimal.NewFromInt(10),
		ExpiryDate:     expiry,
		CreatedAt:      createdAt,
	}
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestRestockWritesBatchPurchaseAndLedgerRow(t *testing.T) {
	f := newFixture()

	out, err := f.uc.Restock(context.Background(), "org-1", "u-1", dto.RestockRequest{
		ProductID:     "prod-1",
		BranchID:      "br-1",
		SupplierName:  "Delta Distributors",
		InvoiceNumber: "INV-77",
		BatchNumber:   "LOT-9",
		Quantity:      100,
		CostPrice:     decimal.NewFromInt(2),
		SellingPrice:  decimal.NewFromInt(3),
		PaidAmount:    decimal.NewFromInt(120),
		PaymentMethod: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), out.Quantity)
	assert.Equal(t, "LOT-9", out.BatchNumber)

	require.Len(t, f.purchases.txs, 1)
	assert.True(t, f.purchases.txs[0].TotalAmount.Equal(decimal.NewFromInt(200)), "total = cost * qty")
	require.Len(t, f.purchases.payments, 1)
	assert.True(t, f.purchases.payments[0].PaidAmount.Equal(decimal.NewFromInt(120)))

	require.Len(t, f.ledger.rows, 1)
	row := f.ledger.rows[0]
	assert.Equal(t, entity.SupplierTypeCustom, row.SupplierType)
	assert.Equal(t, entity.LedgerSourcePurchase, row.SourceType)
	assert.True(t, row.TransactionAmount.Equal(decimal.NewFromInt(200)))
}

func TestRestockNoPaymentSkipsPaymentRecord(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Restock(context.Background(), "org-1", "u-1", dto.RestockRequest{
		ProductID:    "prod-1",
		BranchID:     "br-1",
		SupplierID:   "u-supplier",
		SupplierName: "Delta Distributors",
		Quantity:     50,
		CostPrice:    decimal.NewFromInt(4),
		SellingPrice: decimal.NewFromInt(6),
	})
	require.NoError(t, err)

	assert.Empty(t, f.purchases.payments)
	require.Len(t, f.ledger.rows, 1)
	assert.Equal(t, entity.SupplierTypePlatform, f.ledger.rows[0].SupplierType)
}

func TestRestockRejectsForeignProduct(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Restock(context.Background(), "org-1", "u-1", dto.RestockRequest{
		ProductID: "prod-x",
		BranchID:  "br-1",
		Quantity:  10,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAllocateStockOldestBatchesFirst(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedBatch("b-old", 30, base, base.AddDate(1, 0, 0))
	f.seedBatch("b-new", 100, base.AddDate(0, 1, 0), base.AddDate(2, 0, 0))

	out, err := f.uc.AllocateStock("org-1", dto.AllocateStockRequest{
		ProductID: "prod-1",
		BranchID:  "br-1",
		Quantity:  50,
	})
	require.NoError(t, err)

	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "b-old", out.Allocations[0].BatchID)
	assert.Equal(t, int64(30), out.Allocations[0].AllocatedQty)
	assert.Equal(t, "b-new", out.Allocations[1].BatchID)
	assert.Equal(t, int64(20), out.Allocations[1].AllocatedQty)
	assert.Equal(t, int64(50), out.TotalAllocated)

	// Planning does not touch stock.
	assert.Equal(t, int64(30), f.items.items["b-old"].Quantity)
	assert.Equal(t, int64(100), f.items.items["b-new"].Quantity)
}

func TestAllocateStockInsufficient(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedBatch("b-1", 5, base, base.AddDate(1, 0, 0))

	_, err := f.uc.AllocateStock("org-1", dto.AllocateStockRequest{
		ProductID: "prod-1",
		BranchID:  "br-1",
		Quantity:  6,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestListStockOldestBatchesFirst(t *testing.T) {
	f := newFixture()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedBatch("b-new", 10, base.AddDate(0, 2, 0), base.AddDate(2, 0, 0))
	f.seedBatch("b-old", 10, base, base.AddDate(1, 0, 0))

	out, err := f.uc.ListStock("org-1", "br-1", dto.PageRequest{})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "b-old", out[0].ID)
	assert.Equal(t, "b-new", out[1].ID)
}

func TestExpiryAlertsReturnsDaysUntilExpiry(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.seedBatch("b-soon", 10, now.AddDate(0, -6, 0), now.AddDate(0, 0, 30))
	f.seedBatch("b-later", 10, now.AddDate(0, -6, 0), now.AddDate(2, 0, 0))

	out, err := f.uc.ExpiryAlerts("org-1", "br-1", 90)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "b-soon", out[0].ID)
	assert.InDelta(t, 30, out[0].DaysUntilExpiry, 1)
}
