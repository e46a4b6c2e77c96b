package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	strategyreg "github.com/storefront/backend/internal/infrastructure/strategy"
	"github.com/storefront/backend/internal/infrastructure/strategy/fee"
	"github.com/storefront/backend/internal/infrastructure/strategy/shipping"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Open the SQLite database for the coupon registry and order archive
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Select the slot store backing cart state
	var store persistence.SlotStore
	if cfg.Redis.Enabled {
		redisStore, err := persistence.NewRedisSlotStore(persistence.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cart.LastOrderTTL,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = redisStore
		log.Info("Using Redis slot store", zap.String("addr", cfg.Redis.Addr()))
	} else {
		store = persistence.NewInMemorySlotStore()
		log.Info("Using in-memory slot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing slot store", zap.Error(err))
		}
	}()

	// Build pricing rules from configuration
	steps := make([]shipping.Step, 0, len(cfg.Pricing.ShippingSteps))
	for _, s := range cfg.Pricing.ShippingSteps {
		steps = append(steps, shipping.Step{
			MinUnits: s.MinUnits,
			Price:    decimal.NewFromFloat(s.Price),
		})
	}
	strategies, err := strategyreg.NewRegistry(
		shipping.NewStepTableTariff(steps),
		fee.NewFixedFeeRule(decimal.NewFromFloat(cfg.Pricing.CustomizationFee)),
	)
	if err != nil {
		log.Fatal("Failed to build strategy registry", zap.Error(err))
	}
	tariff, err := strategies.GetShippingTariff("")
	if err != nil {
		log.Fatal("No shipping tariff available", zap.Error(err))
	}
	feeRule, err := strategies.GetFeeRule("")
	if err != nil {
		log.Fatal("No customization fee rule available", zap.Error(err))
	}
	rules := cart.PricingRules{
		Shipping: tariff,
		Fee:      feeRule,
		MaxUnits: cfg.Pricing.MaxUnits,
	}

	// Wire persistence
	repo := persistence.NewSlotCartRepository(store, log)
	mirror := persistence.NewMirror(repo, cfg.Cart.MirrorFlushInterval, log)

	registry := persistence.NewGormCouponRegistry(db.DB)
	archive := persistence.NewGormOrderArchive(db.DB)

	if cfg.App.Env == "development" {
		if err := registry.Seed(context.Background(), devCoupons()); err != nil {
			log.Warn("Failed to seed development coupons", zap.Error(err))
		}
	}

	// Event bus with the cart activity subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewCartActivityLogger(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	cartService := cartapp.NewCartService(repo, mirror, registry, rules, cfg.Cart.CouponValidationTimeout)
	cartService.SetEventPublisher(eventBus)
	checkoutService := cartapp.NewCheckoutService(cartService, archive)
	checkoutService.SetEventPublisher(eventBus)

	// HTTP engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	engine.GET("/health", healthHandler(db))

	api := router.NewRouter(engine)
	api.Register(sessionScoped{handler.NewCartHandler(cartService)})
	api.Register(sessionScoped{handler.NewCheckoutHandler(checkoutService)})
	api.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown: stop accepting requests, then flush the cart
	// mirror so no coalesced write is lost
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	mirror.Close(ctx)

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// sessionScoped wraps a registrar so its routes require the session header
type sessionScoped struct {
	inner router.RouteRegistrar
}

func (s sessionScoped) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("")
	group.Use(middleware.RequireSession())
	s.inner.RegisterRoutes(group)
}

// devCoupons returns sample coupon rules for local development
func devCoupons() []cart.Rule {
	return []cart.Rule{
		{Code: "BIENVENIDO", Kind: cart.CouponKindPercent, Value: decimal.NewFromInt(10)},
		{Code: "SAVE20", Kind: cart.CouponKindFixed, Value: decimal.NewFromInt(20)},
	}
}

// healthHandler reports liveness of the coupon and order database
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
