// seed loads a small demo dataset: a pharmacy with one branch, an org admin
// and a cashier, a supplier organization with a supplier account, a handful of
// products and stock batches. Intended for local development only.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/medtrack/medtrack-api/internal/domain/entity"
	"github.com/medtrack/medtrack-api/internal/infrastructure/postgres"
	"github.com/medtrack/medtrack-api/pkg/config"
)

const demoPassword = "medtrack-demo"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("PostgreSQL connection: %v", err)
	}
	defer pool.Close()

	orgRepo := postgres.NewOrganizationRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)

	now := time.Now()

	pharmacy := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      "City Pharmacy",
		OrgType:   entity.OrgTypePharmacy,
		TaxID:     "900123456",
		Address:   "12 Market Street",
		Email:     "admin@citypharmacy.example",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	must(orgRepo.Create(pharmacy), "create pharmacy")
	for _, m := range []string{entity.ModulePOS, entity.ModuleBulkOrders, entity.ModuleLedger} {
		must(orgRepo.EnableModule(pharmacy.ID, m), "enable module "+m)
	}

	branch := &entity.Branch{
		ID:             uuid.New().String(),
		OrganizationID: pharmacy.ID,
		Name:           "Main Branch",
		Address:        "12 Market Street",
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	must(branchRepo.Create(branch), "create branch")

	supplier := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      "Delta Distributors",
		OrgType:   entity.OrgTypeSupplier,
		TaxID:     "901987654",
		Address:   "4 Industrial Road",
		Email:     "sales@delta.example",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	must(orgRepo.Create(supplier), "create supplier org")
	must(orgRepo.EnableModule(supplier.ID, entity.ModuleBulkOrders), "enable supplier module")

	supplierBranch := &entity.Branch{
		ID:             uuid.New().String(),
		OrganizationID: supplier.ID,
		Name:           "Warehouse",
		Address:        "4 Industrial Road",
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	must(branchRepo.Create(supplierBranch), "create supplier branch")

	seedUser(userRepo, pharmacy.ID, branch.ID, "admin@citypharmacy.example", "Ana Admin", entity.RoleOrgAdmin, now)
	seedUser(userRepo, pharmacy.ID, branch.ID, "cashier@citypharmacy.example", "Carlos Cashier", entity.RoleCashier, now)
	seedUser(userRepo, supplier.ID, supplierBranch.ID, "sales@delta.example", "Diana Sales", entity.RoleSupplierAdmin, now)

	products := []struct {
		sku, name, generic, unit string
		taxRate                  string
		reorder                  int64
	}{
		{"MED-001", "Paracetamol 500mg", "paracetamol", "tablet", "0", 200},
		{"MED-002", "Amoxicillin 250mg", "amoxicillin", "capsule", "0", 100},
		{"MED-003", "Ibuprofen 400mg", "ibuprofen", "tablet", "0.05", 150},
		{"SUP-001", "Vitamin C 1000mg", "", "tablet", "0.19", 50},
	}
	for i, p := range products {
		product := &entity.Product{
			ID:             uuid.New().String(),
			OrganizationID: pharmacy.ID,
			SKU:            p.sku,
			Name:           p.name,
			GenericName:    p.generic,
			Unit:           p.unit,
			TaxRate:        decimal.RequireFromString(p.taxRate),
			ReorderPoint:   p.reorder,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		must(productRepo.Create(product), "create product "+p.sku)

		batch := &entity.InventoryItem{
			ID:             uuid.New().String(),
			OrganizationID: pharmacy.ID,
			BranchID:       branch.ID,
			ProductID:      product.ID,
			SupplierName:   "Delta Distributors",
			BatchNumber:    fmt.Sprintf("SEED-%03d", i+1),
			Quantity:       500,
			CostPrice:      decimal.NewFromInt(2),
			SellingPrice:   decimal.NewFromInt(3),
			ExpiryDate:     now.AddDate(1, 0, 0),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		must(itemRepo.Create(batch), "create batch for "+p.sku)
	}

	fmt.Println("demo data loaded")
	fmt.Println("  pharmacy org:", pharmacy.ID)
	fmt.Println("  supplier org:", supplier.ID)
	fmt.Println("  password for all demo users:", demoPassword)
}

func seedUser(repo *postgres.UserRepo, orgID, branchID, email, name, role string, now time.Time) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	must(err, "hash password")
	must(repo.Create(&entity.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		BranchID:       branchID,
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Role:           role,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}), "create user "+email)
}

func must(err error, what string) {
	if err != nil {
		fail("%s: %v", what, err)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
