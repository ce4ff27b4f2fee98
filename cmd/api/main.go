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

	"github.com/printhub/printhub-backend/api/routes"
	"github.com/printhub/printhub-backend/internal/admin"
	"github.com/printhub/printhub-backend/internal/auth"
	"github.com/printhub/printhub-backend/internal/calculations"
	"github.com/printhub/printhub-backend/internal/cart"
	"github.com/printhub/printhub-backend/internal/notifications"
	"github.com/printhub/printhub-backend/internal/orders"
	"github.com/printhub/printhub-backend/internal/pricing"
	"github.com/printhub/printhub-backend/internal/seed"
	"github.com/printhub/printhub-backend/internal/users"
	"github.com/printhub/printhub-backend/pkg/auth/session"
	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/db"
	"github.com/printhub/printhub-backend/pkg/logger"
	"github.com/printhub/printhub-backend/pkg/metrics"
	"github.com/printhub/printhub-backend/pkg/migrate"
	"github.com/printhub/printhub-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	calcsRepo := calculations.NewRepository(dbClient.DB())
	notesRepo := notifications.NewRepository(dbClient.DB())

	pricingService := pricing.NewService()

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    redisClient,
		Shipping: cfg.Shipping,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.ServiceParams{Repo: notesRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:   usersRepo,
		Cart:   cartService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:          ordersRepo,
		Cart:          cartService,
		Notifications: notificationsService,
		Metrics:       orderMetrics,
		Shipping:      cfg.Shipping,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	calculationsService, err := calculations.NewService(calculations.ServiceParams{
		Repo:    calcsRepo,
		Pricing: pricingService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create calculations service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Orders:       ordersRepo,
		Users:        usersRepo,
		Calculations: calcsRepo,
		Wiper:        admin.NewRepository(dbClient.DB()),
		Cart:         cartService,
		Metrics:      orderMetrics,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	if created, err := seed.Run(context.Background(), cfg.Seed, usersRepo, logg); err != nil {
		logg.Error(context.Background(), "failed to seed demo users", err)
		os.Exit(1)
	} else if created > 0 {
		logg.Info(logg.WithField(context.Background(), "created", created), "demo users seeded")
	}

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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Pricing:       pricingService,
			Cart:          cartService,
			Orders:        ordersService,
			Calculations:  calculationsService,
			Notifications: notificationsService,
			Admin:         adminService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
