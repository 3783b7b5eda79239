package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cazuela-chapina/cazuela/internal/analytics"
	"github.com/cazuela-chapina/cazuela/internal/app"
	"github.com/cazuela-chapina/cazuela/internal/auth"
	"github.com/cazuela-chapina/cazuela/internal/cart"
	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/importer"
	"github.com/cazuela-chapina/cazuela/internal/platform/cache"
	"github.com/cazuela-chapina/cazuela/internal/platform/db"
	"github.com/cazuela-chapina/cazuela/internal/recommend"
	"github.com/cazuela-chapina/cazuela/internal/sales"
	"github.com/cazuela-chapina/cazuela/internal/shared"
	"github.com/cazuela-chapina/cazuela/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "cazuela_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("analytics invalidation listener", slog.Any("error", err))
	}
	analyticsRepo := analytics.NewRepository(dbpool)
	analyticsService := analytics.NewService(analyticsRepo, analyticsCache)
	analyticsHandler := analytics.NewHandler(logger, analyticsService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo, analyticsCache)
	catalogHandler := catalog.NewHandler(logger, catalogService, auth.RequireAdmin)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	cartStore := cart.NewRedisStore(redisClient, cfg.SessionTTL)
	cartHandler := cart.NewHandler(logger, cartStore)

	salesRepo := sales.NewRepository(dbpool)
	salesService := sales.NewService(salesRepo, catalogService, analyticsCache)
	checkoutHandler := sales.NewHandler(logger, salesService, cartStore)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	csvImporter := importer.New(logger, catalogService)
	importHandler := importer.NewHandler(logger, csvImporter, jobsClient)

	llmClient := recommend.NewClient(cfg.LLMEndpoint, cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMTimeout)
	recommendService := recommend.NewService(catalogService, llmClient)
	recommendHandler := recommend.NewHandler(logger, recommendService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		CartHandler:      cartHandler,
		CheckoutHandler:  checkoutHandler,
		AnalyticsHandler: analyticsHandler,
		ImportHandler:    importHandler,
		RecommendHandler: recommendHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
