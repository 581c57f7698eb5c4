// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

/*
Package services provides suture.Service wrappers for the long-running parts
of the recommendation service.

# Available Services

HTTPServerService (api layer):
  - Runs *http.Server.ListenAndServe under supervision
  - Drains connections with Shutdown on context cancellation
  - Listener errors are returned so the supervisor restarts the server

HistoryRefreshService (data layer):
  - Polls the booking history CSV every HISTORY_REFRESH_INTERVAL
  - Calls Reload on the history store when modification time or size changes
  - A failed reload is returned and retried after the supervisor restarts it

# Error Handling

	nil         -> stopped cleanly, not restarted
	error       -> crashed, restarted with backoff
	ctx.Err()   -> shutdown requested

# Usage

	httpSvc := services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger)
	tree.AddAPIService(httpSvc)

	refresh := services.NewHistoryRefreshService(store, cfg.History.CSVPath, cfg.History.RefreshInterval, logger)
	tree.AddDataService(refresh)
*/
package services
