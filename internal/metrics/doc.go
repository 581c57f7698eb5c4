// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package metrics defines the Prometheus metrics exposed on /metrics.

All collectors are registered on the default registry through promauto at
package init, so importing the package is enough to expose them.

# Metric Families

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Recommendations:
  - recommend_predictions_total{package}
  - recommend_failures_total{stage}
  - recommend_duration_seconds
  - recommend_artifact_info{scheme_version,classes,features,trees}
  - recommend_artifact_load_timestamp_seconds

History:
  - history_query_duration_seconds{query}
  - history_cache_hits_total{query}
  - history_cache_misses_total{query}
  - history_bookings_rows

# Usage

	start := time.Now()
	rec, err := pipeline.RecommendProfile(ctx, profile)
	if err != nil {
	    metrics.RecordPredictionFailure("predict")
	    return err
	}
	metrics.RecordPrediction(rec.PackageID, time.Since(start))

The HTTP middleware in internal/middleware records the API families.
*/
package metrics
