package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/medtrack-api/internal/application/auth"
	"github.com/medtrack/medtrack-api/internal/application/bulkorder"
	"github.com/medtrack/medtrack-api/internal/application/catalog"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/application/ledger"
	"github.com/medtrack/medtrack-api/internal/application/pos"
	"github.com/medtrack/medtrack-api/internal/application/reports"
	"github.com/medtrack/medtrack-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	OrganizationUC *catalog.OrganizationUseCase
	ProductUC      *catalog.ProductUseCase
	PatientUC      *catalog.PatientUseCase
	InventoryUC    *inventory.UseCase
	SaleUC         *pos.SaleUseCase
	ReceiptUC      *pos.ReceiptUseCase
	ReturnUC       *pos.ReturnUseCase
	BulkOrderUC    *bulkorder.UseCase
	LedgerUC       *ledger.UseCase
	DashboardUC    *reports.DashboardUseCase
	ModuleChecker  moduleChecker
	JWTSecret      string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Organization bootstrap (public: first org is created before any user exists)
	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	api.Post("/organizations", orgHandler.Create)

	// Protected routes (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/organizations", orgHandler.List)
	protected.Get("/organizations/:id", orgHandler.GetByID)
	protected.Post("/organizations/modules",
		RequireRole(entity.RoleOrgAdmin),
		orgHandler.EnableModule)

	branches := protected.Group("/branches")
	branches.Post("/", RequireRole(entity.RoleOrgAdmin), orgHandler.CreateBranch)
	branches.Get("/", orgHandler.ListBranches)

	// Catalog
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RoleSupplierAdmin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RoleSupplierAdmin), productHandler.Update)

	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC)
	patients.Post("/", patientHandler.Create)
	patients.Get("/", patientHandler.List)
	patients.Get("/:id", patientHandler.GetByID)

	// Batch inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/restock", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RolePharmacist, entity.RoleSupplierAdmin), inventoryHandler.Restock)
	invGroup.Post("/allocate-stock", inventoryHandler.AllocateStock)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/expiry-alerts", inventoryHandler.ExpiryAlerts)

	// Point of sale (requires the pos module)
	posGroup := protected.Group("/pos", RequireModule(entity.ModulePOS, deps.ModuleChecker))
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	posGroup.Post("/sales/complete", saleHandler.Complete)
	posGroup.Get("/sales/:id", saleHandler.GetByID)
	posGroup.Get("/sales/:id/receipt", saleHandler.Receipt)

	returnHandler := NewReturnHandler(deps.ReturnUC)
	posGroup.Post("/returns", returnHandler.Create)
	posGroup.Get("/returns/:id", returnHandler.GetByID)
	posGroup.Post("/returns/:id/approve", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RolePharmacist), returnHandler.Approve)
	posGroup.Post("/returns/:id/reject", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RolePharmacist), returnHandler.Reject)
	posGroup.Post("/returns/:id/process", RequireRole(entity.RoleOrgAdmin, entity.RoleBranchManager, entity.RolePharmacist), returnHandler.Process)

	// Bulk orders (requires the bulk_orders module)
	orders := protected.Group("/bulk-orders", RequireModule(entity.ModuleBulkOrders, deps.ModuleChecker))
	bulkOrderHandler := NewBulkOrderHandler(deps.BulkOrderUC)
	orders.Post("/", bulkOrderHandler.Create)
	orders.Get("/", bulkOrderHandler.List)
	orders.Get("/:id", bulkOrderHandler.GetByID)
	orders.Post("/:id/status", bulkOrderHandler.Transition)
	orders.Post("/:id/payments", bulkOrderHandler.RecordPayment)

	// Supplier ledger (requires the ledger module)
	ledgerGroup := protected.Group("/suppliers/ledger", RequireModule(entity.ModuleLedger, deps.ModuleChecker))
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Get("/", ledgerHandler.Statement)
	ledgerGroup.Get("/export", ledgerHandler.ExportXML)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)
}
