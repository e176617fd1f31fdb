package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nasir97177/erpnext-magento/internal/addresses"
	"github.com/nasir97177/erpnext-magento/internal/customers"
	"github.com/nasir97177/erpnext-magento/internal/invoices"
	"github.com/nasir97177/erpnext-magento/internal/orders"
	"github.com/nasir97177/erpnext-magento/internal/shipments"
	"github.com/nasir97177/erpnext-magento/internal/sync"
	"github.com/nasir97177/erpnext-magento/internal/synclog"
	"github.com/nasir97177/erpnext-magento/internal/worker"
	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
	"github.com/nasir97177/erpnext-magento/pkg/metrics"
	"github.com/nasir97177/erpnext-magento/pkg/migrate"
	"github.com/nasir97177/erpnext-magento/pkg/redis"
)

const lockKeyFormat = "magsync:sync-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storefront, err := magento.NewClient(cfg.Magento, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront client", err)
		os.Exit(1)
	}

	job, err := buildSyncJob(cfg, logg, dbClient, storefront)
	if err != nil {
		logg.Error(context.Background(), "failed to wire sync job", err)
		os.Exit(1)
	}

	lock, err := worker.NewRedisLock(redisClient, lockKey(cfg.App.Env), 2*cfg.Sync.Interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	service, err := worker.NewService(worker.ServiceParams{
		Logger:   logg,
		Registry: worker.NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewWorkerMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Sync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	go serveOps(ctx, cfg, logg, dbClient, redisClient)

	logg.Info(ctx, "starting sync worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func buildSyncJob(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, storefront *magento.Client) (*sync.Job, error) {
	gormDB := dbClient.DB()

	customerSvc, err := customers.NewService(customers.NewRepository(gormDB), logg, cfg.Sync)
	if err != nil {
		return nil, err
	}
	addressSvc, err := addresses.NewService(addresses.NewRepository(gormDB), logg)
	if err != nil {
		return nil, err
	}
	orderSvc, err := orders.NewService(orders.NewRepository(gormDB), addressSvc, storefront, cfg.Sync, logg)
	if err != nil {
		return nil, err
	}
	invoiceSvc, err := invoices.NewService(invoices.NewRepository(gormDB), storefront, cfg.Sync, logg)
	if err != nil {
		return nil, err
	}
	shipmentSvc, err := shipments.NewService(shipments.NewRepository(gormDB), storefront, cfg.Sync, logg)
	if err != nil {
		return nil, err
	}
	recorder, err := synclog.NewRecorder(synclog.NewRepository(gormDB), logg)
	if err != nil {
		return nil, err
	}

	return sync.NewJob(sync.JobParams{
		Storefront: storefront,
		Customers:  customerSvc,
		Addresses:  addressSvc,
		Orders:     orderSvc,
		Invoices:   invoiceSvc,
		Shipments:  shipmentSvc,
		State:      sync.NewStateRepository(gormDB),
		Recorder:   recorder,
		Config:     cfg.Sync,
		Metrics:    metrics.NewSyncMetrics(prometheus.DefaultRegisterer),
		Logger:     logg,
	})
}

// serveOps exposes liveness and metrics for the worker.
func serveOps(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbClient.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logg.Info(ctx, "ops endpoint listening on :"+cfg.App.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "ops endpoint failed", err)
	}
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
