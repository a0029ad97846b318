// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/dzmatch-votes/auth"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/middleware"
	"github.com/danielhkuo/dzmatch-votes/models"
)

type VotingHandler struct {
	ledger *ballot.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(ledger *ballot.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: ledger, cfg: cfg}
}

// GetCategories handles GET /categories
func (h *VotingHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.CategoriesResponse{
		Categories:    h.ledger.Catalog().Categories(),
		Points:        ballot.PointsTable(),
		MaxSelections: ballot.MaxSelections,
	})
}

// SubmitVote handles POST /votes
// One ballot per voter name; a second attempt is rejected with 409.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sub, err := h.ledger.Submit(r.Context(), req.Name, req.Selections)
	switch {
	case errors.Is(err, ballot.ErrEmptyName):
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MessageNameRequired)
		return
	case errors.Is(err, ballot.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, models.MessageAlreadyVoted)
		return
	case errors.Is(err, ballot.ErrStorageUnavailable):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, models.MessageStorageDown)
		return
	case isBallotError(err):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("unexpected submission error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote submitted",
		"submission_id", sub.ID,
		"records", len(sub.Records),
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		SubmissionID: sub.ID,
		Voter:        sub.Voter,
		Records:      len(sub.Records),
		SubmittedAt:  sub.SubmittedAt,
		Message:      fmt.Sprintf(models.MessageVoteRecorded, sub.Voter),
	})
}

// GetVoteCount handles GET /votes/count
func (h *VotingHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Stats(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, models.MessageUnavailable)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteCountResponse{
		Voters:  stats.Voters,
		Records: stats.Records,
	})
}

func isBallotError(err error) bool {
	for _, target := range []error{
		ballot.ErrInvalidBallot,
		ballot.ErrUnknownCategory,
		ballot.ErrUnknownCandidate,
		ballot.ErrTooManySelections,
		ballot.ErrEmptyBallot,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
