// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation ids.
  - PrometheusMetrics: records request counts, latency and in-flight
    requests, labelled by chi route pattern.

Both have the http.HandlerFunc signature; the router adapts them to chi's
func(http.Handler) http.Handler form.
*/
package middleware
