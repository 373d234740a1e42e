package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/freshmart-lab/commerce-core/internal/api/handler"
	"github.com/freshmart-lab/commerce-core/internal/catalog"
	"github.com/freshmart-lab/commerce-core/internal/repository"
	"github.com/freshmart-lab/commerce-core/internal/service"
	"github.com/freshmart-lab/commerce-core/pkg/config"
	"github.com/freshmart-lab/commerce-core/pkg/logger"
	"github.com/freshmart-lab/commerce-core/pkg/telemetry"
)

const serviceName = "commerce-core"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry.Endpoint)
		if err != nil {
			logger.Warn("telemetry init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		os.Exit(1)
	}
	if err := repository.Migrate(db); err != nil {
		logger.Error("migrate database", zap.Error(err))
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Without redis the derivation lock degrades to in-process
			// only, which is fine for a single instance.
			logger.Warn("redis unreachable, derivation lock disabled", zap.Error(err))
			rdb = nil
		}
	}

	catalogClient := catalog.NewHTTPClient(catalog.Options{
		BaseURL:    cfg.Catalog.BaseURL,
		Timeout:    cfg.Catalog.Timeout,
		RetryCount: cfg.Catalog.RetryCount,
		RetryWait:  cfg.Catalog.RetryWait,
	})

	orderRepo := repository.NewOrderRepository(db)
	factRepo := repository.NewSalesFactRepository(db)
	forecastRepo := repository.NewForecastRepository(db)

	orderService := service.NewOrderService(orderRepo, catalogClient)
	reportService := service.NewReportService(factRepo)
	forecastService := service.NewForecastService(factRepo, forecastRepo)
	deriver := service.NewSalesDeriver(orderRepo, factRepo, catalogClient, service.NewDeriveLock(rdb))

	h := handler.NewHandler(orderService, reportService, forecastService, deriver)
	router := handler.NewRouter(h, handler.RouterOptions{
		ServiceName: serviceName,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
		Tracing:     cfg.Telemetry.Enabled,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
