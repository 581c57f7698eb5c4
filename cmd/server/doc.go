// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package main is the entry point for the Umrah Advisor server.

The server recommends an Umrah package for a customer profile using a
pre-trained random forest, and serves charts over the historical booking
export.

# Application Architecture

	RootSupervisor ("umrahadvisor")
	├── DataSupervisor ("data-layer")
	│   └── HistoryRefreshService (reloads the CSV when it changes)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. .env file (optional) via godotenv
 2. Configuration: koanf v2 with defaults, config.yaml and environment variables
 3. Logging: zerolog
 4. Model artifacts: model, label encoder and fit columns. Failure is fatal.
 5. Booking history: DuckDB in-memory store. Failure disables /api/v1/history.
 6. HTTP router: chi with CORS, rate limiting and Prometheus middleware
 7. Supervisor tree: suture v4

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within HTTP_SHUTDOWN_TIMEOUT before the history store is closed.

# Example Usage

	export MODEL_PATH=artifacts/model.json
	export LABEL_ENCODER_PATH=artifacts/label_encoder.json
	export FIT_COLUMNS_PATH=artifacts/fit_columns.json
	export HISTORY_CSV_PATH=data/DatasetUmrah.csv
	./umrahadvisor

	curl -s -X POST localhost:3857/api/v1/recommendations \
	  -d '{"gender":"Wanita","age":45,"region":"Jawa","month":"Maret","day":10,"year":2023}'

Build with a version string:

	go build -ldflags "-X main.version=1.0.0" ./cmd/server
*/
package main
