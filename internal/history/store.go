// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

// Package history answers aggregate questions about past bookings.
//
// The bookings export is a CSV with at least the columns jenis_kelamin,
// usia, wilayah_geografis, paket_umrah and tanggal_keberangkatan. Header
// names are matched after trimming and lower-casing. The file is loaded into
// an in-memory DuckDB table; categorical values are normalised to lower case
// on load and title-cased when reported. Rows whose departure date cannot be
// parsed still count toward the non-date aggregates.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	// DuckDB driver registers itself as "duckdb".
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/umrahadvisor/internal/cache"
	"github.com/tomtom215/umrahadvisor/internal/metrics"
)

// ErrNotLoaded is returned by queries before a successful Load.
var ErrNotLoaded = errors.New("booking history is not loaded")

// Source column names after header normalisation.
const (
	colGender  = "jenis_kelamin"
	colAge     = "usia"
	colRegion  = "wilayah_geografis"
	colPackage = "paket_umrah"
	colDate    = "tanggal_keberangkatan"
)

var requiredColumns = []string{colGender, colAge, colRegion, colPackage, colDate}

// Config controls loading and query defaults.
type Config struct {
	// CSVPath is the bookings export.
	CSVPath string

	// Since is the first departure date counted by MonthlyBookings.
	Since time.Time

	// RangeFrom and RangeTo bound PackagesPerMonth, as YYYY-MM, inclusive.
	RangeFrom string
	RangeTo   string

	CacheTTL      time.Duration
	CacheCapacity int

	// Threads limits DuckDB parallelism; 0 uses the CPU count.
	Threads int

	// MaxMemory caps DuckDB memory, e.g. "256MB".
	MaxMemory string
}

// DefaultConfig covers the December 2022 to February 2024 booking window.
func DefaultConfig() Config {
	return Config{
		CSVPath:       "data/DatasetUmrah.csv",
		Since:         time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC),
		RangeFrom:     "2022-12",
		RangeTo:       "2024-02",
		CacheTTL:      10 * time.Minute,
		CacheCapacity: 256,
		MaxMemory:     "256MB",
	}
}

// Store owns the DuckDB connection and the query cache.
type Store struct {
	cfg    Config
	conn   *sql.DB
	cache  *cache.LRU[any]
	logger zerolog.Logger

	// mu guards the bookings table against queries during Reload.
	mu       sync.RWMutex
	loaded   bool
	rows     int64
	loadedAt time.Time
}

// Open creates the in-memory database. Call Load to read the CSV.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "256MB"
	}
	connStr := fmt.Sprintf(":memory:?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	return &Store{
		cfg:    cfg,
		conn:   conn,
		cache:  cache.NewLRU[any](cfg.CacheCapacity, cfg.CacheTTL),
		logger: logger.With().Str("component", "history").Logger(),
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Load reads the CSV into the bookings table, replacing any previous load,
// and clears cached results.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	source := fmt.Sprintf("read_csv(%s, header = true, all_varchar = true)", quoteLiteral(s.cfg.CSVPath))

	columns, err := s.resolveColumns(ctx, source)
	if err != nil {
		return err
	}

	col := func(name string) string {
		return "trim(" + quoteIdent(columns[name]) + ")"
	}
	query := fmt.Sprintf(`
	CREATE OR REPLACE TABLE bookings AS
	SELECT
		lower(%[1]s) AS gender,
		TRY_CAST(%[2]s AS INTEGER) AS age,
		%[3]s AS region,
		lower(regexp_replace(%[4]s, '\s+', ' ', 'g')) AS package,
		COALESCE(
			TRY_CAST(%[5]s AS DATE),
			CAST(TRY_CAST(%[5]s AS TIMESTAMP) AS DATE),
			CAST(TRY_STRPTIME(%[5]s, '%%d/%%m/%%Y') AS DATE),
			CAST(TRY_STRPTIME(%[5]s, '%%d-%%m-%%Y') AS DATE)
		) AS departure_date
	FROM %[6]s`,
		col(colGender), col(colAge), col(colRegion), col(colPackage), col(colDate), source)

	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("load bookings from %s: %w", s.cfg.CSVPath, err)
	}

	var rows int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&rows); err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}

	s.loaded = true
	s.rows = rows
	s.loadedAt = time.Now()
	s.cache.Clear()
	metrics.SetHistoryRows(rows)

	s.logger.Info().
		Str("path", s.cfg.CSVPath).
		Int64("rows", rows).
		Dur("duration", time.Since(start)).
		Msg("booking history loaded")
	return nil
}

// Reload re-reads the CSV. On failure the previous data stays in place.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// resolveColumns maps normalised header names to the names DuckDB assigned.
func (s *Store) resolveColumns(ctx context.Context, source string) (map[string]string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT * FROM "+source+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.cfg.CSVPath, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.cfg.CSVPath, err)
	}

	resolved := make(map[string]string, len(names))
	for _, n := range names {
		resolved[strings.ToLower(strings.TrimSpace(n))] = n
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := resolved[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns: %s", s.cfg.CSVPath, strings.Join(missing, ", "))
	}
	return resolved, nil
}

// Stats describes the current load.
type Stats struct {
	Loaded   bool      `json:"loaded"`
	Rows     int64     `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
	Path     string    `json:"path"`
}

// Stats returns load information.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Loaded: s.loaded, Rows: s.rows, LoadedAt: s.loadedAt, Path: s.cfg.CSVPath}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
