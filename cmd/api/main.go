package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/casona/innrate/internal/app"
	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/config"
	"github.com/casona/innrate/internal/logging"
	"github.com/casona/innrate/internal/notify"
	"github.com/casona/innrate/internal/pricing"
	"github.com/casona/innrate/internal/storage/postgres"
	transporthttp "github.com/casona/innrate/internal/transport/http"
	"github.com/casona/innrate/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	profile, ok := pricing.ProfileByName(cfg.PricingProfile)
	if !ok {
		logger.Fatal("unknown pricing profile", zap.String("profile", cfg.PricingProfile))
	}
	engine := pricing.NewEngine(profile)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	clk := clock.NewSystem()
	unitRepo := postgres.NewUnitRepository(pool)
	holdRepo := postgres.NewHoldRepository(pool)

	holdOpts := []app.HoldServiceOption{app.WithHoldTTL(cfg.HoldTTL)}
	if !cfg.ReclaimOnExpiry {
		holdOpts = append(holdOpts, app.WithoutReclamation())
	}
	if cfg.NotifyWebhookURL != "" {
		holdOpts = append(holdOpts, app.WithNotifier(notify.NewWebhook(notify.WebhookConfig{
			URL:   cfg.NotifyWebhookURL,
			Token: cfg.NotifyWebhookToken,
		})))
	}
	holdSvc := app.NewHoldService(holdRepo, clk, logger, holdOpts...)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scheduler := app.NewRecomputeScheduler(unitRepo, engine, clk, rng, logger,
		app.WithRecomputeInterval(cfg.RecomputeInterval))
	overrideSvc := app.NewOverrideService(unitRepo, engine, clk, logger)
	statusSvc := app.NewStatusService(unitRepo, engine, clk)
	adminSvc := app.NewAdminService(unitRepo, engine, clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/holds", transporthttp.HandleHolds(holdSvc))
	mux.Handle("/holds/", transporthttp.HandleCancelHold(holdSvc))
	mux.Handle("/units", transporthttp.HandleListUnits(statusSvc))
	mux.Handle("/pricing/status", transporthttp.HandlePricingStatus(statusSvc))
	mux.Handle("/admin/units", transporthttp.HandleAdminUnits(adminSvc))
	mux.Handle("/admin/units/", transporthttp.HandleOverridePrice(overrideSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOriginList(), mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go scheduler.Run(workerCtx)
	go holdSvc.RunExpiry(workerCtx, cfg.ExpireSweepInterval)

	logger.Info("api listening", zap.String("port", cfg.Port), zap.String("profile", cfg.PricingProfile))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	stopWorkers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
