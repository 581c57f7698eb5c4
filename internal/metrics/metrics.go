// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_predictions_total",
			Help: "Total number of recommendations by predicted package",
		},
		[]string{"package"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_failures_total",
			Help: "Total number of failed recommendations by stage",
		},
		[]string{"stage"}, // "encode", "schema", "predict", "predict_proba", "decode"
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to encode a profile and score it",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	// Artifact Metrics
	ArtifactInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_artifact_info",
			Help: "Loaded model artifacts (value is always 1)",
		},
		[]string{"scheme_version", "classes", "features", "trees"},
	)

	ArtifactLoadTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_artifact_load_timestamp_seconds",
			Help: "Unix timestamp of the last artifact load",
		},
	)

	// History Metrics
	HistoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "history_query_duration_seconds",
			Help:    "Duration of uncached history queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	HistoryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_cache_hits_total",
			Help: "Total number of history queries served from cache",
		},
		[]string{"query"},
	)

	HistoryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_cache_misses_total",
			Help: "Total number of history queries run against DuckDB",
		},
		[]string{"query"},
	)

	HistoryRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_bookings_rows",
			Help: "Number of bookings loaded into the history store",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPrediction records a successful recommendation.
func RecordPrediction(packageID string, duration time.Duration) {
	PredictionsTotal.WithLabelValues(packageID).Inc()
	PredictionDuration.Observe(duration.Seconds())
}

// RecordPredictionFailure records a failed recommendation.
func RecordPredictionFailure(stage string) {
	PredictionFailures.WithLabelValues(stage).Inc()
}

// SetArtifactInfo publishes the shape of the loaded artifacts.
func SetArtifactInfo(schemeVersion string, classes, features, trees int) {
	ArtifactInfo.Reset()
	ArtifactInfo.WithLabelValues(
		schemeVersion,
		strconv.Itoa(classes),
		strconv.Itoa(features),
		strconv.Itoa(trees),
	).Set(1)
	ArtifactLoadTimestamp.Set(float64(time.Now().Unix()))
}

// RecordHistoryQuery records a history query. Cache hits carry no duration.
func RecordHistoryQuery(query string, cacheHit bool, duration time.Duration) {
	if cacheHit {
		HistoryCacheHits.WithLabelValues(query).Inc()
		return
	}
	HistoryCacheMisses.WithLabelValues(query).Inc()
	HistoryQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// SetHistoryRows records the size of the loaded history.
func SetHistoryRows(rows int64) {
	HistoryRows.Set(float64(rows))
}
