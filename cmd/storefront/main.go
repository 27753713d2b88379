package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/config"
	"games_storefront/internal/middleware"
	"games_storefront/internal/routes"
	"games_storefront/internal/session"
	"games_storefront/internal/storage"
	"games_storefront/internal/storage/local"
	"games_storefront/internal/storage/mariadb"
	"games_storefront/internal/storage/sqlite"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env, cfg.LogFile)

	log.Info("starting storefront", slog.String("env", cfg.Env))

	kv, err := setupStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to init storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	log.Info("storage init", slog.String("driver", cfg.Storage.Driver))

	api, err := gameapi.New(log, cfg.API.BaseURL, cfg.API.Timeout,
		gameapi.WithRequestID(middleware.RequestIDFromContext))
	if err != nil {
		log.Error("failed to create api client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions := session.NewStore(kv, log)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL, log)

	r, err := routes.SetupRouter(log, cfg, api, sessions, limiter)
	if err != nil {
		log.Error("failed to setup routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("routes init")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go limiter.Cleanup(ctx)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
		stop()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}
	log.Info("server stopped")
}

func setupStorage(cfg config.Storage) (storage.KV, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return local.New(cfg.Path)
	case config.StorageSQLite:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, err
		}
		return sqlite.New(filepath.Join(cfg.Path, "storage.db"))
	case config.StorageMariaDB:
		db, err := mariadb.New(cfg.MariaDB)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func setupLogger(env, logFile string) *slog.Logger {
	var out io.Writer = os.Stdout
	if logFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			tint.NewHandler(out, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.Kitchen}),
		)
	case envDev:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
