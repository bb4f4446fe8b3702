package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	if envErr != nil {
		log.Debug(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.Open(cfg.Database.Store(), log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := repository.Migrate(db); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	contactRepo := repository.NewContactRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	businessRepo := repository.NewBusinessRepo(db)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authService := service.NewAuthService(businessRepo, tokens, log)
	catalogService := service.NewCatalogService(productRepo, txRepo, hub, log)
	stockService := service.NewStockService(productRepo, hub, log)
	contactService := service.NewContactService(contactRepo, txRepo, log)
	ledgerService := service.NewLedgerService(db, productRepo, contactRepo, txRepo, hub, log)
	reportService := service.NewReportService(db, productRepo, contactRepo, txRepo, service.ReportOptions{
		LowStockThreshold: cfg.Report.LowStockThreshold,
		TopProducts:       cfg.Report.TopProducts,
	}, log)
	dashService := service.NewDashboardService(productRepo, txRepo, cfg.Report.LowStockThreshold)

	if cfg.App.SeedDemo {
		seedDemo(ctx, log, authService, catalogService, contactService, ledgerService)
	}

	pager := handler.Pager{DefaultLimit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit}
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Products:     handler.NewProductHandler(catalogService, stockService, pager),
		Contacts:     handler.NewContactHandler(contactService, pager),
		Transactions: handler.NewTransactionHandler(ledgerService, pager),
		Reports:      handler.NewReportHandler(reportService, cfg.Report.LowStockThreshold),
		Dashboard:    handler.NewDashboardHandler(dashService),
		WS:           handler.NewWSHandler(hub),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 6. Routes
	handler.SetupRoutes(app, handlers, middleware.RequireAuth(tokens, businessRepo))

	// 7. Graceful Shutdown
	go func() {
		log.Info("http server listening", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Fatal("http server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
