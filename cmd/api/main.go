package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lsoria/qrsec-backend/api/routes"
	"github.com/lsoria/qrsec-backend/internal/address"
	"github.com/lsoria/qrsec-backend/internal/guests"
	"github.com/lsoria/qrsec-backend/internal/invites"
	"github.com/lsoria/qrsec-backend/internal/users"
	"github.com/lsoria/qrsec-backend/pkg/config"
	"github.com/lsoria/qrsec-backend/pkg/db"
	"github.com/lsoria/qrsec-backend/pkg/logger"
	"github.com/lsoria/qrsec-backend/pkg/metrics"
	"github.com/lsoria/qrsec-backend/pkg/migrate"
	"github.com/lsoria/qrsec-backend/pkg/redis"
)

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
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

	registry := prometheus.NewRegistry()
	gateMetrics := metrics.NewGateMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	guestRepo := guests.NewRepository(dbClient.DB())
	inviteRepo := invites.NewRepository(dbClient.DB())
	addressRepo := address.NewRepository(dbClient.DB())

	userService, err := users.NewService(userRepo, cfg.Password, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	guestService, err := guests.NewService(guestRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest service", err)
		os.Exit(1)
	}
	inviteService, err := invites.NewService(inviteRepo, userRepo, guestRepo, gateMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create invite service", err)
		os.Exit(1)
	}
	addressService, err := address.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			userRepo,
			userService,
			guestService,
			inviteService,
			addressService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
