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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aminzare2005/vlonefarsi/api/routes"
	"github.com/aminzare2005/vlonefarsi/internal/cart"
	"github.com/aminzare2005/vlonefarsi/internal/catalog"
	"github.com/aminzare2005/vlonefarsi/internal/checkout"
	"github.com/aminzare2005/vlonefarsi/internal/discounts"
	"github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/internal/payments"
	"github.com/aminzare2005/vlonefarsi/pkg/config"
	"github.com/aminzare2005/vlonefarsi/pkg/db"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/aminzare2005/vlonefarsi/pkg/metrics"
	"github.com/aminzare2005/vlonefarsi/pkg/migrate"
	"github.com/aminzare2005/vlonefarsi/pkg/redis"
	"github.com/aminzare2005/vlonefarsi/pkg/zibal"
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

	if applied, err := migrate.MaybeRunDev(context.Background(), cfg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	} else if applied {
		logg.Info(context.Background(), "dev migrations applied")
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	zibalClient, err := zibal.NewClient(context.Background(), cfg.Zibal, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	discountRepo := discounts.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	catalogService := catalog.NewService(catalogRepo, logg)
	cartService := cart.NewService(cartRepo, catalogRepo, logg)
	discountService := discounts.NewService(discountRepo, logg)
	orderService := orders.NewService(orderRepo, logg)
	checkoutService := checkout.NewService(
		dbClient,
		cartRepo,
		catalogRepo,
		discountService,
		discountRepo,
		orderRepo,
		redisClient,
		zibalClient,
		checkoutMetrics,
		logg,
		cfg.App.BaseURL,
	)
	paymentService := payments.NewService(
		orderRepo,
		cartRepo,
		zibalClient,
		checkoutMetrics,
		logg,
		cfg.App.BaseURL,
	)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Catalog:        catalogService,
		Cart:           cartService,
		Discounts:      discountService,
		Checkout:       checkoutService,
		Payments:       paymentService,
		Orders:         orderService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}
