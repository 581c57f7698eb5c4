// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

// Package logging provides zerolog-based structured logging for the service.
//
// JSON output is the default for production and console output is available
// for development.
//
// # Quick Start
//
//	logging.Init(cfg.LoggingSettings())
//
//	logging.Info().Str("package_id", id).Msg("Recommendation served")
//	logging.Error().Err(err).Str("stage", "predict").Msg("Prediction failed")
//
//	// Request-scoped logger seeded by the RequestID middleware
//	logging.Ctx(ctx).Info().Msg("Processing")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Components
//
// WithComponent returns a child logger tagged with a component name. The
// recommend pipeline and history store each carry one:
//
//	logger := logging.WithComponent("recommend")
//
// # slog Bridge
//
// NewSlogLogger returns a *slog.Logger that writes through zerolog. The
// supervisor tree uses it for sutureslog events so supervision logs share
// the same format and level.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
package logging
