// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/dzmatch-votes/archive"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/handlers"
	"github.com/danielhkuo/dzmatch-votes/metrics"
	"github.com/danielhkuo/dzmatch-votes/middleware"
)

// NewRouter wires every endpoint. m and uploader may be nil.
func NewRouter(ledger *ballot.Ledger, cfg cliparse.Config, m *metrics.Metrics, uploader archive.Uploader) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(ledger, cfg)
	resultsHandler := handlers.NewResultsHandler(ledger, cfg)
	adminHandler := handlers.NewAdminHandler(ledger, cfg, uploader)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(m, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public)
	handle("GET /categories", votingHandler.GetCategories)
	handle("POST /votes", votingHandler.SubmitVote)
	handle("GET /votes/count", votingHandler.GetVoteCount)

	// Results (public)
	handle("GET /leaderboard", resultsHandler.GetLeaderboards)
	handle("GET /leaderboard/{category}", resultsHandler.GetLeaderboard)

	// Operator endpoints (require X-Admin-Key)
	handle("GET /admin/export", adminHandler.Export)
	handle("POST /admin/archive", adminHandler.Archive)

	mux.Handle("GET /metrics", m.Handler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dzmatch-votes API v1"))
	})

	return mux
}
