// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package config

import "strings"

// pricePrefix maps PRICE_<PACKAGE_ID> variables onto prices.<package_id>.
const pricePrefix = "price_"

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_request_timeout":  "server.request_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Artifact mappings
	"model_path":         "artifacts.model_path",
	"label_encoder_path": "artifacts.labels_path",
	"fit_columns_path":   "artifacts.columns_path",

	// Encoding mappings
	"encoding_scheme":  "encoding.scheme_version",
	"encoding_regions": "encoding.regions",
	"encoding_years":   "encoding.years",

	// History mappings
	"history_enabled":          "history.enabled",
	"history_csv_path":         "history.csv_path",
	"history_since":            "history.since",
	"history_range_from":       "history.range_from",
	"history_range_to":         "history.range_to",
	"history_cache_ttl":        "history.cache_ttl",
	"history_cache_capacity":   "history.cache_capacity",
	"history_refresh_interval": "history.refresh_interval",
	"duckdb_threads":           "history.threads",
	"duckdb_max_memory":        "history.max_memory",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - ENCODING_SCHEME -> encoding.scheme_version
//   - PRICE_PAKET_PLUS_A -> prices.paket_plus_a
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	if id, ok := strings.CutPrefix(key, pricePrefix); ok && id != "" {
		return "prices." + id
	}

	// Unmapped keys are skipped so unrelated environment variables do not
	// pollute the config.
	return ""
}
