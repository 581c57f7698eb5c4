// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tomtom215/umrahadvisor/internal/api"
	"github.com/tomtom215/umrahadvisor/internal/config"
	"github.com/tomtom215/umrahadvisor/internal/logging"
	"github.com/tomtom215/umrahadvisor/internal/supervisor"
	"github.com/tomtom215/umrahadvisor/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())

	logging.Info().
		Str("version", version).
		Str("scheme", cfg.Encoding.SchemeVersion).
		Bool("history_enabled", cfg.History.Enabled).
		Msg("Starting Umrah Advisor")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* allows every origin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := initPipeline(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load model artifacts")
	}

	store := initHistory(ctx, cfg)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing history store")
			}
		}()
	}

	opts := []api.HandlerOption{
		api.WithVersion(version),
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
	}
	if store != nil {
		opts = append(opts, api.WithHistory(store))
	}
	handler := api.NewHandler(pipeline, opts...)
	router := api.NewRouter(handler, middlewareConfig(cfg))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if store != nil && cfg.History.RefreshInterval > 0 {
		tree.AddDataService(services.NewHistoryRefreshService(
			store, cfg.History.CSVPath, cfg.History.RefreshInterval, logging.Logger()))
		logging.Info().Dur("interval", cfg.History.RefreshInterval).Msg("History refresh added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(
		server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
