// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"context"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// HistoryStore answers the booking history charts. *history.Store
// implements it.
type HistoryStore interface {
	PackageDistribution(ctx context.Context) ([]history.CategoryCount, error)
	MonthlyBookings(ctx context.Context, since time.Time) ([]history.MonthCount, error)
	PackagesPerMonth(ctx context.Context, from, to string) (*history.Pivot, error)
	AgeGroups(ctx context.Context) (*history.Pivot, error)
	GenderByPackage(ctx context.Context) (*history.Pivot, error)
	Reload(ctx context.Context) error
	Stats() history.Stats
}

var _ HistoryStore = (*history.Store)(nil)

// Recommender produces recommendations. *recommend.Pipeline implements it.
type Recommender interface {
	RecommendProfile(ctx context.Context, profile recommend.CustomerProfile) (*recommend.PackageRecommendation, error)
	Artifacts() *recommend.Artifacts
	Stats() recommend.Stats
}

var _ Recommender = (*recommend.Pipeline)(nil)

// Handler serves all API endpoints.
type Handler struct {
	recommender Recommender

	// history is nil when no bookings export is configured or it failed to
	// load at startup; history endpoints then answer 503.
	history HistoryStore

	version   string
	startTime time.Time
	timeout   time.Duration
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithHistory enables the history endpoints.
func WithHistory(store HistoryStore) HandlerOption {
	return func(h *Handler) { h.history = store }
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) { h.version = version }
}

// WithRequestTimeout bounds the time a handler spends on one request.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHandler creates a Handler around a loaded recommender.
func NewHandler(recommender Recommender, opts ...HandlerOption) *Handler {
	h := &Handler{
		recommender: recommender,
		version:     "dev",
		startTime:   time.Now(),
		timeout:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
