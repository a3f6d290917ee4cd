package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alorle/chaos-stream-manager/baseurl"
	"github.com/alorle/chaos-stream-manager/config"
	"github.com/alorle/chaos-stream-manager/handlers"
	"github.com/alorle/chaos-stream-manager/instances"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/probe"
	"github.com/alorle/chaos-stream-manager/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.New(logging.ParseLogLevel(cfg.LogLevel), "[chaos-manager]")

	// The externally reachable base URL is resolved once; changing it
	// requires a restart.
	base, err := baseurl.Resolve(cfg.Public.Scheme, cfg.Public.Host, cfg.Public.Port)
	if err != nil {
		log.Fatalf("Failed to resolve public base URL: %v", err)
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open configuration store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Error closing configuration store", map[string]interface{}{"error": err.Error()})
		}
	}()

	deps := handlers.Dependencies{
		Store:   st,
		Checker: probe.NewChecker(cfg.Probe.Timeout),
		Logger:  logger,
	}

	// Instance management is only wired when a chaos CLI binary is
	// configured; the rest of the service works without it.
	if cfg.ChaosCLI.Binary != "" {
		deps.Instances = instances.NewCLIClient(&instances.Config{
			Binary:        cfg.ChaosCLI.Binary,
			ManageTimeout: cfg.ChaosCLI.ManageTimeout,
			QueryTimeout:  cfg.ChaosCLI.QueryTimeout,
			Logger:        logger,
		})
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Address, cfg.HTTP.Port),
		Handler: handlers.SetupRoutes(base, deps),
	}

	logger.Info("Starting chaos-stream-manager", map[string]interface{}{
		"addr":     server.Addr,
		"base_url": base,
		"store":    cfg.Store.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// openStore builds the configured store backend
func openStore(cfg *config.Config, logger *logging.Logger) (store.Interface, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendBolt:
		return store.NewBoltStore(cfg.Store.Path, logger)
	default:
		return store.NewFileStore(cfg.Store.Path, logger)
	}
}
