package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumelens/internal/cli"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Pull secrets from Vault when configured
	if err := cfg.ApplyVaultSecrets(logger); err != nil {
		logger.LogError(err, "Failed to apply Vault secrets")
		os.Exit(1)
	}

	// Surface config file edits during long interactive sessions. The live
	// configuration is never swapped mid-run; a change takes effect on the
	// next invocation.
	cfg.Watch(logger, func(next *config.Config) {
		logger.Info("Configuration change detected, takes effect on next run",
			"api_base_url", next.API.BaseURL,
			"log_level", next.App.LogLevel)
	})

	// Set up observability
	obsConfig := observability.GetObservabilityConfig(cfg, cli.Version)
	obs, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize observability")
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Observability shutdown failed")
		}
	}()

	// Log startup
	logger.Info("Starting resumelens",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"api_base_url", cfg.API.BaseURL)

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger, obs); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}
