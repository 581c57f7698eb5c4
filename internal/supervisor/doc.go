// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package supervisor runs the service's long-lived goroutines under a suture v4
supervision tree.

# Overview

	RootSupervisor ("umrahadvisor")
	├── DataSupervisor ("data-layer")
	│   └── HistoryRefreshService (if HISTORY_ENABLED and HISTORY_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A history refresh that keeps failing backs off inside the data layer while the
API keeps serving recommendations.

# Configuration

TreeConfig controls restart behavior. Zero fields take suture's defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Logging

Supervision events go through sutureslog to the *slog.Logger passed to
NewSupervisorTree. cmd/server passes logging.NewSlogLogger(), which bridges to
zerolog.

# What Is NOT Supervised

The model artifacts are loaded once at startup and are immutable afterwards.
DuckDB is an embedded library owned by the history store.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logger.Warn("service did not stop", "service", svc.Name)
	}
*/
package supervisor
