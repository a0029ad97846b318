// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/middleware"
	"github.com/danielhkuo/dzmatch-votes/models"
)

type ResultsHandler struct {
	ledger *ballot.Ledger
	cfg    cliparse.Config
}

func NewResultsHandler(ledger *ballot.Ledger, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{ledger: ledger, cfg: cfg}
}

// GetLeaderboards handles GET /leaderboard
// Read failures degrade to 200 with available=false; the ledger has
// already logged the cause.
func (h *ResultsHandler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.ledger.Leaderboards(r.Context())
	if err != nil {
		resp := models.LeaderboardsResponse{
			Available: false,
			Boards:    []models.LeaderboardResponse{},
			Message:   models.MessageUnavailable,
		}
		for _, cat := range h.ledger.Catalog().Categories() {
			resp.Boards = append(resp.Boards, unavailableBoard(cat.Name))
		}
		middleware.JSONResponse(w, http.StatusOK, resp)
		return
	}

	resp := models.LeaderboardsResponse{
		Available: true,
		Boards:    make([]models.LeaderboardResponse, 0, len(boards)),
	}
	empty := true
	for _, b := range boards {
		resp.Boards = append(resp.Boards, board(b.Category, b.Standings))
		if len(b.Standings) > 0 {
			empty = false
		}
	}
	if empty {
		resp.Message = models.MessageNoVotes
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetLeaderboard handles GET /leaderboard/{category}
func (h *ResultsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category is required")
		return
	}

	standings, err := h.ledger.Leaderboard(r.Context(), category)
	if errors.Is(err, ballot.ErrUnknownCategory) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}

	// the catalog lookup succeeded above, so the canonical name is known
	cat, _ := h.ledger.Catalog().Category(category)
	if err != nil {
		middleware.JSONResponse(w, http.StatusOK, unavailableBoard(cat.Name))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, board(cat.Name, standings))
}

func board(category string, standings []ballot.Standing) models.LeaderboardResponse {
	resp := models.LeaderboardResponse{
		Category:  category,
		Available: true,
		Standings: standings,
	}
	if len(standings) == 0 {
		resp.Standings = []ballot.Standing{}
		resp.Message = models.MessageNoVotesInCategory
	}
	return resp
}

func unavailableBoard(category string) models.LeaderboardResponse {
	return models.LeaderboardResponse{
		Category:  category,
		Available: false,
		Standings: []ballot.Standing{},
		Message:   models.MessageUnavailable,
	}
}
