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

	"github.com/katzeapp/katze-backend/api/routes"
	"github.com/katzeapp/katze-backend/internal/accounts"
	"github.com/katzeapp/katze-backend/internal/adoptions"
	"github.com/katzeapp/katze-backend/internal/auth"
	"github.com/katzeapp/katze-backend/internal/media"
	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/internal/pets"
	"github.com/katzeapp/katze-backend/internal/posts"
	"github.com/katzeapp/katze-backend/internal/users"
	"github.com/katzeapp/katze-backend/pkg/config"
	"github.com/katzeapp/katze-backend/pkg/db"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/metrics"
	"github.com/katzeapp/katze-backend/pkg/migrate"
	"github.com/katzeapp/katze-backend/pkg/redis"
	"github.com/katzeapp/katze-backend/pkg/storage/gcs"
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	registry := prometheus.NewRegistry()
	adoptionMetrics := metrics.NewAdoptionMetrics(registry)

	broadcaster, err := notifications.NewRedisBroadcaster(redisClient, cfg.Notifications.BroadcastChannel)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification broadcaster", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	notificationsSvc, err := notifications.NewService(notifications.NewRepository(conn), broadcaster, logg)
	requireService(logg, "notifications", err)

	authSvc, err := auth.NewService(auth.NewRepository(conn), cfg.JWT, cfg.Password, logg)
	requireService(logg, "auth", err)

	usersSvc, err := users.NewService(users.NewRepository(conn), dbClient, notificationsSvc, logg)
	requireService(logg, "users", err)

	petsSvc, err := pets.NewService(pets.NewRepository(conn), dbClient, logg)
	requireService(logg, "pets", err)

	adoptionsSvc, err := adoptions.NewService(adoptions.NewRepository(conn), dbClient, notificationsSvc, adoptionMetrics, logg)
	requireService(logg, "adoptions", err)

	accountsSvc, err := accounts.NewService(accounts.NewRepository(conn), dbClient, notificationsSvc, logg)
	requireService(logg, "accounts", err)

	postsSvc, err := posts.NewService(posts.NewRepository(conn), dbClient, logg)
	requireService(logg, "posts", err)

	mediaSvc, err := media.NewService(gcsClient, cfg.GCS, cfg.Media, logg)
	requireService(logg, "media", err)

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: registry,

		AuthService:          authSvc,
		UsersService:         usersSvc,
		PetsService:          petsSvc,
		AdoptionsService:     adoptionsSvc,
		AccountsService:      accountsSvc,
		PostsService:         postsSvc,
		NotificationsService: notificationsSvc,
		MediaService:         mediaSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

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
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
