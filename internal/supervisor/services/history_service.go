// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HistoryReloader re-reads the booking history. *history.Store satisfies it.
type HistoryReloader interface {
	Reload(ctx context.Context) error
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

func (f fileStamp) same(o fileStamp) bool {
	return f.size == o.size && f.modTime.Equal(o.modTime)
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// HistoryRefreshService polls the booking CSV and reloads the history store
// when the file's modification time or size changes.
//
// A failed reload is returned to the supervisor. The last loaded stamp is
// kept across restarts, so the restarted service retries the same change.
type HistoryRefreshService struct {
	store    HistoryReloader
	path     string
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	loaded  fileStamp
	reloads int
}

// NewHistoryRefreshService creates a refresher for the CSV at path. The
// file's current state is taken as already loaded.
func NewHistoryRefreshService(store HistoryReloader, path string, interval time.Duration, logger zerolog.Logger) *HistoryRefreshService {
	s := &HistoryRefreshService{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logger.With().Str("service", "history-refresh").Logger(),
	}
	if stamp, err := statFile(path); err == nil {
		s.loaded = stamp
	}
	return s
}

// Serve implements suture.Service.
func (s *HistoryRefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.check(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *HistoryRefreshService) check(ctx context.Context) error {
	stamp, err := statFile(s.path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Cannot stat booking history")
		return nil
	}

	s.mu.Lock()
	unchanged := stamp.same(s.loaded)
	s.mu.Unlock()
	if unchanged {
		return nil
	}

	s.logger.Info().Str("path", s.path).Time("mod_time", stamp.modTime).Msg("Booking history changed, reloading")
	if err := s.store.Reload(ctx); err != nil {
		return fmt.Errorf("reload booking history: %w", err)
	}

	s.mu.Lock()
	s.loaded = stamp
	s.reloads++
	s.mu.Unlock()
	return nil
}

// Reloads returns the number of successful change-triggered reloads.
func (s *HistoryRefreshService) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

func (s *HistoryRefreshService) String() string {
	return "history-refresh"
}
