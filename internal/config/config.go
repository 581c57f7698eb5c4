// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package config

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/artifact"
	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/logging"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Encoding  EncodingConfig  `koanf:"encoding"`

	// Prices are rupiah amounts keyed by package id. An id missing here is
	// reported as "Rp -".
	Prices map[string]int64 `koanf:"prices"`

	History  HistoryConfig  `koanf:"history"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"` // per-request handler budget
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ArtifactsConfig locates the three trained-model files.
type ArtifactsConfig struct {
	ModelPath   string `koanf:"model_path"`
	LabelsPath  string `koanf:"labels_path"`
	ColumnsPath string `koanf:"columns_path"`
}

// EncodingConfig selects the categorical encoding the model was trained with.
type EncodingConfig struct {
	// SchemeVersion is december-zero or year-conditioned.
	SchemeVersion string `koanf:"scheme_version"`

	// Regions and Years override the scheme's defaults when set. Region order
	// is significant: the code of a region is its position.
	Regions []string `koanf:"regions"`
	Years   []int    `koanf:"years"`
}

// HistoryConfig holds booking history settings.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	CSVPath string `koanf:"csv_path"`

	// Since is the first day of the monthly series, YYYY-MM-DD.
	Since string `koanf:"since"`

	// RangeFrom and RangeTo bound the packages-per-month pivot, YYYY-MM.
	RangeFrom string `koanf:"range_from"`
	RangeTo   string `koanf:"range_to"`

	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheCapacity int           `koanf:"cache_capacity"`

	// RefreshInterval is how often the CSV is checked for changes. 0 disables.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DuckDB resource limits
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
	MaxMemory string `koanf:"max_memory"`
}

// SecurityConfig holds CORS and rate limit settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingSettings converts the logging section for logging.Init.
func (c *Config) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// ArtifactPaths converts the artifacts section for artifact.Load.
func (c *Config) ArtifactPaths() artifact.Paths {
	return artifact.Paths{
		Model:   c.Artifacts.ModelPath,
		Labels:  c.Artifacts.LabelsPath,
		Columns: c.Artifacts.ColumnsPath,
	}
}

// RecommendSettings converts the encoding and prices sections.
func (c *Config) RecommendSettings() recommend.Config {
	return recommend.Config{
		SchemeVersion: c.Encoding.SchemeVersion,
		Regions:       slices.Clone(c.Encoding.Regions),
		Years:         slices.Clone(c.Encoding.Years),
		Prices:        maps.Clone(c.Prices),
	}
}

// HistorySettings converts the history section for history.Open.
func (c *Config) HistorySettings() (history.Config, error) {
	since, err := time.Parse(time.DateOnly, c.History.Since)
	if err != nil {
		return history.Config{}, fmt.Errorf("history.since must be YYYY-MM-DD: %w", err)
	}
	return history.Config{
		CSVPath:       c.History.CSVPath,
		Since:         since,
		RangeFrom:     c.History.RangeFrom,
		RangeTo:       c.History.RangeTo,
		CacheTTL:      c.History.CacheTTL,
		CacheCapacity: c.History.CacheCapacity,
		Threads:       c.History.Threads,
		MaxMemory:     c.History.MaxMemory,
	}, nil
}
