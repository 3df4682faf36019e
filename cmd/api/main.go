package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/medtrack/medtrack-api/internal/application/auth"
	"github.com/medtrack/medtrack-api/internal/application/bulkorder"
	"github.com/medtrack/medtrack-api/internal/application/catalog"
	"github.com/medtrack/medtrack-api/internal/application/inventory"
	"github.com/medtrack/medtrack-api/internal/application/ledger"
	"github.com/medtrack/medtrack-api/internal/application/pos"
	"github.com/medtrack/medtrack-api/internal/application/reports"
	infrapdf "github.com/medtrack/medtrack-api/internal/infrastructure/pdf"
	"github.com/medtrack/medtrack-api/internal/infrastructure/postgres"
	"github.com/medtrack/medtrack-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/medtrack/medtrack-api/internal/interfaces/http"
	"github.com/medtrack/medtrack-api/pkg/config"
	"github.com/medtrack/medtrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	orgRepo := postgres.NewOrganizationRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	orderRepo := postgres.NewBulkOrderRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	reportsRepo := postgres.NewReportsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, orgRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	organizationUC := catalog.NewOrganizationUseCase(orgRepo, branchRepo)
	productUC := catalog.NewProductUseCase(productRepo)
	patientUC := catalog.NewPatientUseCase(patientRepo)
	inventoryUC := inventory.NewUseCase(txRunner, itemRepo, productRepo, branchRepo)
	saleUC := pos.NewSaleUseCase(txRunner, saleRepo, itemRepo, productRepo, branchRepo, patientRepo)
	returnUC := pos.NewReturnUseCase(txRunner, returnRepo, saleRepo, itemRepo)
	receiptUC := pos.NewReceiptUseCase(saleRepo, productRepo, orgRepo, branchRepo, patientRepo, infrapdf.NewMarotoReceiptGenerator())
	bulkOrderUC := bulkorder.NewUseCase(txRunner, orderRepo, productRepo, orgRepo, branchRepo, userRepo)
	ledgerUC := ledger.NewUseCase(purchaseRepo, orderRepo, userRepo, orgRepo, xmlexport.NewStatementBuilder())
	dashboardUC := reports.NewDashboardUseCase(reportsRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MedTrack API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		OrganizationUC: organizationUC,
		ProductUC:      productUC,
		PatientUC:      patientUC,
		InventoryUC:    inventoryUC,
		SaleUC:         saleUC,
		ReceiptUC:      receiptUC,
		ReturnUC:       returnUC,
		BulkOrderUC:    bulkOrderUC,
		LedgerUC:       ledgerUC,
		DashboardUC:    dashboardUC,
		ModuleChecker:  orgRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
