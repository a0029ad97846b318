// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the DZMatch votes API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(ledger, cfg, metrics, uploader)

# Endpoints

Health:

	GET /health
	GET /metrics

Voting (public):

	GET  /categories   - Catalog and points table
	POST /votes        - Submit a ballot
	GET  /votes/count  - Voters and records so far

Results (public):

	GET /leaderboard             - Every category
	GET /leaderboard/{category}  - One category

Operator (requires X-Admin-Key):

	GET  /admin/export   - Records as .xlsx
	POST /admin/archive  - Upload a snapshot to the configured archive

Every handler except /health and /metrics is wrapped with
middleware.WithLogging and middleware.WithMetrics.
*/
package router
