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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/purchase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/inventory"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/jhoicas/compras-api/internal/infrastructure/memory"
	"github.com/jhoicas/compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/compras-api/internal/interfaces/http"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/logger"
)

type storage struct {
	txRunner     purchase.TxRunner
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	zl := log.Zerolog()
	purchaseUC := purchase.NewUseCase(
		store.txRunner, store.purchaseRepo, store.supplierRepo,
		inventory.NewCostPolicy(int32(cfg.Purchase.CostScale)), zl,
	)
	purchaseQueries := purchase.NewQueryUseCase(
		store.purchaseRepo, store.productRepo, store.categoryRepo, store.supplierRepo,
		purchase.QueryConfig{
			PageSize:            cfg.Purchase.PageSize,
			CurrencySymbol:      cfg.Purchase.CurrencySymbol,
			PlaceholderImageURL: cfg.App.PlaceholderImageURL(),
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Purchases:       purchaseUC,
		PurchaseQueries: purchaseQueries,
		JWTSecret:       cfg.JWT.Secret,
		Log:             zl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		s := memory.NewStore()
		seedDemo(s)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:     s,
			productRepo:  s.Products(),
			purchaseRepo: s.Purchases(),
			categoryRepo: s.Categories(),
			supplierRepo: s.Suppliers(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner:     postgres.NewTxRunner(pool),
		productRepo:  postgres.NewProductRepository(pool),
		purchaseRepo: postgres.NewPurchaseRepository(pool),
		categoryRepo: postgres.NewCategoryRepository(pool),
		supplierRepo: postgres.NewSupplierRepository(pool),
		close:        pool.Close,
	}, nil
}

// seedDemo carga un catálogo mínimo para probar la API sin base de datos.
func seedDemo(s *memory.Store) {
	now := time.Now()
	granos := "8f1c2a4e-0000-4000-8000-000000000001"
	bebidas := "8f1c2a4e-0000-4000-8000-000000000002"
	s.AddCategory(&entity.Category{ID: granos, Name: "Granos", SortOrder: 1, CreatedAt: now, UpdatedAt: now})
	s.AddCategory(&entity.Category{ID: bebidas, Name: "Bebidas", SortOrder: 2, CreatedAt: now, UpdatedAt: now})
	s.AddSupplier(&entity.Supplier{ID: "5a0d7c1b-0000-4000-8000-000000000001", Name: "Distribuidora Norte", CreatedAt: now, UpdatedAt: now})
	s.AddProduct(&entity.Product{
		ID: "3b9e6f20-0000-4000-8000-000000000001", CategoryID: &granos, Name: "Arroz 500g", SKU: "ARZ-500",
		InStock: decimal.NewFromInt(10), Cost: decimal.RequireFromString("5.00"), TrackStock: true,
		CreatedAt: now, UpdatedAt: now,
	})
	s.AddProduct(&entity.Product{
		ID: "3b9e6f20-0000-4000-8000-000000000002", CategoryID: &bebidas, Name: "Agua 600ml", SKU: "AGU-600",
		InStock: decimal.NewFromInt(24), Cost: decimal.RequireFromString("0.80"), TrackStock: true,
		CreatedAt: now, UpdatedAt: now,
	})
}
