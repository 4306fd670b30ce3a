package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/config"
	"go-storefront/internal/handler"
	"go-storefront/internal/jobs"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/pricing"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"
	"go-storefront/internal/ws"
	"go-storefront/pkg/cache"
	"go-storefront/pkg/database"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, envFound, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("load config", zap.Error(err))
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()
	if !envFound {
		log.Warn(".env file not found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup database
	dbOpts := database.DefaultOptions()
	dbOpts.LogLevel = cfg.DBLogLevel
	db, err := database.Connect(cfg.DSN(), dbOpts, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	// 3. Redis for carts and the job queue
	rdb, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer func() { _ = queue.Close() }()

	// 4. Change feed
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 5. Dependency injection
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	alerts := jobs.NewEnqueuer(queue, log)
	ledger := service.NewStockLedger(productRepo, stockRepo)
	shipping := pricing.DefaultShippingTable(cfg.StoreCourierFee)

	inventoryService := service.NewInventoryService(productRepo, stockRepo, ledger, db, hub, alerts, log)
	orderService := service.NewOrderService(repository.NewOrderRepo(db), productRepo, customerRepo, ledger, db, shipping, hub, alerts, log)
	purchaseService := service.NewPurchaseService(repository.NewPurchaseRepo(db), productRepo, supplierRepo, warehouseRepo, ledger, db, hub, log)
	masterDataService := service.NewMasterDataService(warehouseRepo, stockRepo, customerRepo, supplierRepo, log)
	cartService := service.NewCartService(cart.NewRedisStore(rdb, cfg.CartTTL), orderService, inventoryService)
	reportService := service.NewReportService(repository.NewReportRepo(db), productRepo)
	userService := service.NewUserService(userRepo, roleRepo, privilegeRepo, log)
	authService := service.NewAuthService(userRepo, tokens, log)

	// 6. Seed default privileges, roles and the master admin
	if err := userService.Seed(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("seed users", zap.Error(err))
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + handler.HeaderCartSession,
		ExposeHeaders: handler.HeaderCartSession,
	}))

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, log),
		User:       handler.NewUserHandler(userService, log),
		Role:       handler.NewRoleHandler(userService, log),
		Inventory:  handler.NewInventoryHandler(inventoryService, log),
		MasterData: handler.NewMasterDataHandler(masterDataService, log),
		Purchase:   handler.NewPurchaseHandler(purchaseService, log),
		Order:      handler.NewOrderHandler(orderService, log),
		Store:      handler.NewStoreHandler(inventoryService, orderService, cartService, log),
		Report:     handler.NewReportHandler(reportService, log),
		Hub:        hub,
	}, middleware.RequireAuth(tokens, userRepo))

	// 8. Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server exited")
}
