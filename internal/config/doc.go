// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package config loads and validates the service configuration.

# Configuration Sources

Values are layered with koanf, later layers winning:
  - Built-in defaults
  - An optional YAML file: $CONFIG_PATH, else config.yaml, config.yml or
    /etc/umrahadvisor/config.yaml
  - Environment variables

cmd/server loads a .env file into the environment before calling Load.

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3857)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
  - HTTP_REQUEST_TIMEOUT: Per-request handler budget (default: 10s)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 30s)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

Model artifacts:
  - MODEL_PATH (default: artifacts/model.json)
  - LABEL_ENCODER_PATH (default: artifacts/label_encoder.json)
  - FIT_COLUMNS_PATH (default: artifacts/fit_columns.json)

Encoding and prices:
  - ENCODING_SCHEME: december-zero or year-conditioned (default)
  - ENCODING_REGIONS: Comma-separated region order override
  - ENCODING_YEARS: Comma-separated departure years override
  - PRICE_<PACKAGE_ID>: Rupiah amount, e.g. PRICE_PAKET_PLUS_A=43450000

Booking history:
  - HISTORY_ENABLED (default: true)
  - HISTORY_CSV_PATH (default: data/DatasetUmrah.csv)
  - HISTORY_SINCE: First day of the monthly series (default: 2022-12-01)
  - HISTORY_RANGE_FROM, HISTORY_RANGE_TO: Pivot months (default: 2022-12..2024-02)
  - HISTORY_CACHE_TTL (default: 10m), HISTORY_CACHE_CAPACITY (default: 256)
  - HISTORY_REFRESH_INTERVAL: CSV change polling, 0 disables (default: 1m)
  - DUCKDB_THREADS (default: CPU count), DUCKDB_MAX_MEMORY (default: 256MB)

Security:
  - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
  - DISABLE_RATE_LIMIT (default: false)
  - CORS_ORIGINS: Comma-separated allowed origins (default: none)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	logging.Init(cfg.LoggingSettings())
*/
package config
