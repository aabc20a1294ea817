package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dimatakoy/org-demo/internal/config"
	"github.com/dimatakoy/org-demo/internal/db"
	"github.com/dimatakoy/org-demo/internal/httpapi"
	"github.com/dimatakoy/org-demo/internal/logging"
	"github.com/dimatakoy/org-demo/internal/metrics"
	"github.com/dimatakoy/org-demo/internal/pagination"
	"github.com/dimatakoy/org-demo/internal/service"
)

func main() {
	// -- Configs preload --
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// -- Logger --
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// -- Connect to DB --
	database, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	if err := db.Migrate(ctx, database, cfg.DatabaseDriver); err != nil {
		return fmt.Errorf("database migration: %w", err)
	}

	directory := service.NewDirectoryService(database)
	pages := pagination.Policy{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	// -- Router --
	router := mux.NewRouter()
	var observer httpapi.RequestObserver
	if cfg.MetricsEnabled {
		registry := metrics.NewRegistry()
		observer = metrics.NewHTTPMetrics(registry)
		router.Handle("/metrics", metrics.Handler(registry)).Methods(http.MethodGet)
	}
	router.PathPrefix("/").Handler(httpapi.NewHandler(directory, pages, logger, observer))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.LoggingMiddleware(logger, router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// -- Startup --
	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
