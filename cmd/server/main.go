package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkurmanbek/pet-adoption-api/config"
	"github.com/dkurmanbek/pet-adoption-api/internal/auth"
	"github.com/dkurmanbek/pet-adoption-api/internal/health"
	"github.com/dkurmanbek/pet-adoption-api/internal/infrastructure/postgres"
	ctxlog "github.com/dkurmanbek/pet-adoption-api/internal/log"
	"github.com/dkurmanbek/pet-adoption-api/internal/metrics"
	httptransport "github.com/dkurmanbek/pet-adoption-api/internal/transport/http"
	"github.com/dkurmanbek/pet-adoption-api/internal/transport/http/handler"
	"github.com/dkurmanbek/pet-adoption-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	tokens, err := auth.NewTokenManager(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.JWTAlgorithm,
		cfg.AccessTokenTTL(),
		cfg.RefreshTokenTTL(),
	)
	if err != nil {
		stop()
		log.Fatalf("token manager: %v", err)
	}

	hasher := auth.NewBcryptHasher()
	uowManager := postgres.NewUnitOfWorkManager(pool, logger)

	userUsecase := usecase.NewUserUsecase(uowManager, tokens, hasher, logger)
	animalUsecase := usecase.NewAnimalUsecase(uowManager, logger)

	authHandler := handler.NewAuthHandler(userUsecase, logger)
	animalHandler := handler.NewAnimalHandler(animalUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, tokens, authHandler, animalHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
