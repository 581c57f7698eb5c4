// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/umrahadvisor/internal/api"
	"github.com/tomtom215/umrahadvisor/internal/artifact"
	"github.com/tomtom215/umrahadvisor/internal/config"
	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/logging"
	"github.com/tomtom215/umrahadvisor/internal/metrics"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// initPipeline loads the model artifacts and binds them to the configured
// encoding scheme and price table. Any failure is fatal for the service.
func initPipeline(cfg *config.Config) (*recommend.Pipeline, error) {
	bundle, err := artifact.Load(cfg.ArtifactPaths())
	if err != nil {
		return nil, err
	}

	settings := cfg.RecommendSettings()
	scheme, err := settings.Scheme()
	if err != nil {
		return nil, fmt.Errorf("resolve encoding scheme: %w", err)
	}

	arts, err := bundle.Artifacts(scheme, settings.PriceTable())
	if err != nil {
		return nil, err
	}

	pipeline, err := recommend.NewPipeline(arts, logging.WithComponent("recommend"))
	if err != nil {
		return nil, err
	}

	metrics.SetArtifactInfo(scheme.Version, len(bundle.Labels.Classes()), len(bundle.Columns), len(bundle.Forest.Trees))
	logging.Info().
		Str("scheme", scheme.Version).
		Int("classes", len(bundle.Labels.Classes())).
		Int("features", len(bundle.Columns)).
		Int("trees", len(bundle.Forest.Trees)).
		Msg("Model artifacts loaded")

	return pipeline, nil
}

// initHistory opens and loads the booking history. The history endpoints are
// optional, so failures are logged and nil is returned.
func initHistory(ctx context.Context, cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		logging.Info().Msg("Booking history disabled (HISTORY_ENABLED=false)")
		return nil
	}

	hcfg, err := cfg.HistorySettings()
	if err != nil {
		logging.Warn().Err(err).Msg("Invalid history settings, history endpoints disabled")
		return nil
	}

	store, err := history.Open(ctx, hcfg, logging.Logger())
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to open history store, history endpoints disabled")
		return nil
	}

	if err := store.Load(ctx); err != nil {
		logging.Warn().Err(err).Str("path", hcfg.CSVPath).Msg("Failed to load booking history, history endpoints disabled")
		if closeErr := store.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing history store")
		}
		return nil
	}
	return store
}

// middlewareConfig maps the security section onto the router middleware.
func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}
