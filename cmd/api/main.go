package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-admin/api/routes"
	"github.com/angelmondragon/storefront-admin/internal/admin"
	"github.com/angelmondragon/storefront-admin/internal/collections"
	"github.com/angelmondragon/storefront-admin/internal/customers"
	"github.com/angelmondragon/storefront-admin/internal/orders"
	product "github.com/angelmondragon/storefront-admin/internal/products"
	"github.com/angelmondragon/storefront-admin/internal/reports"
	"github.com/angelmondragon/storefront-admin/internal/staff"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/instance"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/metrics"
	"github.com/angelmondragon/storefront-admin/pkg/migrate"
	"github.com/angelmondragon/storefront-admin/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay and login throttling disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	adminLog := admin.NewLog(dbClient.DB(), metrics.NewAdminMetrics(reg))

	services, err := buildServices(cfg, dbClient, adminLog)
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	infra := routes.Infra{
		DB:          dbClient,
		Redis:       redisClient,
		Gatherer:    reg,
		HTTPMetrics: httpMetrics,
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, infra, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	if redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	}
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if shutdownErr != nil {
		logg.Error(ctx, "errors during shutdown", shutdownErr)
		exitCode = 1
	} else {
		logg.Info(ctx, "api server stopped")
	}
	os.Exit(exitCode)
}

func buildServices(cfg *config.Config, dbClient *db.Client, adminLog *admin.Log) (routes.Services, error) {
	conn := dbClient.DB()

	staffSvc, err := staff.NewService(staff.ServiceParams{
		Repo:           staff.NewRepository(conn),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}
	productSvc, err := product.NewService(product.NewRepository(conn), dbClient, adminLog)
	if err != nil {
		return routes.Services{}, err
	}
	collectionSvc, err := collections.NewService(collections.NewRepository(conn), dbClient, adminLog)
	if err != nil {
		return routes.Services{}, err
	}
	customerSvc, err := customers.NewService(customers.NewRepository(conn), dbClient, adminLog)
	if err != nil {
		return routes.Services{}, err
	}
	orderSvc, err := orders.NewService(orders.NewRepository(conn), dbClient, adminLog)
	if err != nil {
		return routes.Services{}, err
	}
	reportSvc, err := reports.NewService(reports.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Staff:       staffSvc,
		Products:    productSvc,
		Collections: collectionSvc,
		Customers:   customerSvc,
		Orders:      orderSvc,
		Reports:     reportSvc,
	}, nil
}
