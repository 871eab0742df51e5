package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/property-yield/internal/logging"
	"github.com/iwvelando/property-yield/internal/server"
	"github.com/iwvelando/property-yield/internal/store"
	"github.com/iwvelando/property-yield/pkg/constants"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configPath := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "dotenv file loaded when present")
	addressOverride := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	if err := server.LoadEnvFile(*envFile); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configPath, err)
		os.Exit(1)
	}
	if *addressOverride != "" {
		cfg.Address = *addressOverride
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store",
			zap.String("op", "main"),
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err),
		)
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Warn("failed to close snapshot store",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	r := chi.NewRouter()
	r.Mount("/", server.NewHandler(logger, snapshots, server.Options{
		MaxBodySize: cfg.BodySizeBytes(),
		Version:     version,
	}))

	srv := &http.Server{Addr: cfg.Address, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.String("store", cfg.Store.Driver),
		zap.String("version", version),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
