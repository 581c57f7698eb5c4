// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package api exposes the recommendation pipeline and booking history over
HTTP using the chi router.

# Endpoints

	POST /api/v1/recommendations              recommend a package for a profile
	GET  /api/v1/packages                     package catalogue with prices
	GET  /api/v1/options                      form options for the active scheme
	GET  /api/v1/history/packages             bookings per package
	GET  /api/v1/history/monthly              bookings per month (?since=YYYY-MM-DD)
	GET  /api/v1/history/packages-per-month   month x package (?from=YYYY-MM&to=YYYY-MM)
	GET  /api/v1/history/age-groups           age group x package
	GET  /api/v1/history/gender               package x gender
	POST /api/v1/history/reload               re-read the bookings export
	GET  /api/v1/health[/live|/ready]         health probes
	GET  /metrics                             Prometheus metrics

# Responses

Every JSON endpoint answers with models.APIResponse. Error codes:

	400 VALIDATION_ERROR      malformed body or field out of range
	422 ENCODING_ERROR        value the encoding scheme cannot encode
	422 SCHEMA_MISMATCH       encoded features do not match the model columns
	429 RATE_LIMITED          per-client limit exceeded
	500 PREDICTION_FAILED     classifier or label decoder error
	503 HISTORY_UNAVAILABLE   booking history not configured or not loaded

Example:

	curl -s -X POST localhost:3857/api/v1/recommendations \
	  -d '{"gender":"Wanita","age":45,"region":"Jawa","month":"Maret","day":10,"year":2023}'
*/
package api
