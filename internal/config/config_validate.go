// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/history"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}

	if err := c.validateEncoding(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	return c.validateSecurity()
}

// validateServer validates the HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"HTTP_READ_TIMEOUT", c.Server.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", c.Server.WriteTimeout},
		{"HTTP_REQUEST_TIMEOUT", c.Server.RequestTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", t.name, t.value)
		}
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	switch {
	case c.Artifacts.ModelPath == "":
		return fmt.Errorf("MODEL_PATH is required")
	case c.Artifacts.LabelsPath == "":
		return fmt.Errorf("LABEL_ENCODER_PATH is required")
	case c.Artifacts.ColumnsPath == "":
		return fmt.Errorf("FIT_COLUMNS_PATH is required")
	}
	return nil
}

// validateEncoding resolves the scheme with its overrides and checks prices.
func (c *Config) validateEncoding() error {
	settings := c.RecommendSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if len(c.Prices) == 0 {
		return fmt.Errorf("prices must list at least one package")
	}
	return nil
}

// validateHistory validates the history section (only if enabled)
func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	if c.History.CSVPath == "" {
		return fmt.Errorf("HISTORY_CSV_PATH is required when HISTORY_ENABLED=true")
	}
	if _, err := c.HistorySettings(); err != nil {
		return err
	}
	from, err := time.Parse("2006-01", c.History.RangeFrom)
	if err != nil {
		return fmt.Errorf("HISTORY_RANGE_FROM must be YYYY-MM, got %q", c.History.RangeFrom)
	}
	to, err := time.Parse("2006-01", c.History.RangeTo)
	if err != nil {
		return fmt.Errorf("HISTORY_RANGE_TO must be YYYY-MM, got %q", c.History.RangeTo)
	}
	if to.Before(from) {
		return fmt.Errorf("history range %s..%s is reversed", c.History.RangeFrom, c.History.RangeTo)
	}
	if span := history.MonthSpan(from, to); span > history.MaxRangeMonths {
		return fmt.Errorf("history range %s..%s spans %d months, limit is %d",
			c.History.RangeFrom, c.History.RangeTo, span, history.MaxRangeMonths)
	}
	if c.History.CacheCapacity < 1 {
		return fmt.Errorf("HISTORY_CACHE_CAPACITY must be at least 1, got %d", c.History.CacheCapacity)
	}
	if c.History.CacheTTL <= 0 {
		return fmt.Errorf("HISTORY_CACHE_TTL must be positive, got %v", c.History.CacheTTL)
	}
	if c.History.RefreshInterval < 0 {
		return fmt.Errorf("HISTORY_REFRESH_INTERVAL must not be negative, got %v", c.History.RefreshInterval)
	}
	if c.History.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.History.Threads)
	}
	return nil
}

// validateSecurity validates rate limits and CORS
func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow < time.Second {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", c.Security.RateLimitWindow)
		}
	}
	if c.hasWildcardCORS() && len(c.Security.CORSOrigins) > 1 {
		return fmt.Errorf("CORS_ORIGINS cannot mix '*' with explicit origins")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// ShouldWarnAboutCORS reports whether every origin is allowed, which main
// logs as a warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}
