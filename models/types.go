// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/dzmatch-votes/ballot"
)

// User-facing messages
const (
	MessageNameRequired      = "Vous devez entrer votre nom et prénom avant de voter."
	MessageAlreadyVoted      = "Vous avez déjà voté."
	MessageVoteRecorded      = "Merci %s, votre vote a été enregistré !"
	MessageStorageDown       = "Le vote ne peut pas être enregistré pour le moment, réessayez plus tard."
	MessageNoVotesInCategory = "Aucun vote pour cette catégorie."
	MessageNoVotes           = "Aucun vote enregistré pour le moment."
	MessageUnavailable       = "Erreur lors de la lecture des votes."
)

// Request types

// category name -> candidates, best first
type SubmitVoteRequest struct {
	Name       string              `json:"name"`
	Selections map[string][]string `json:"selections"`
}

// Response types

type SubmitVoteResponse struct {
	SubmissionID string    `json:"submission_id"`
	Voter        string    `json:"voter"`
	Records      int       `json:"records"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Message      string    `json:"message"`
}

type CategoriesResponse struct {
	Categories    []ballot.Category `json:"categories"`
	Points        map[int]float64   `json:"points"`
	MaxSelections int               `json:"max_selections"`
}

type VoteCountResponse struct {
	Voters  int `json:"voters"`
	Records int `json:"records"`
}

// Available is false when the store could not be read; Standings is then
// empty and Message explains why.
type LeaderboardResponse struct {
	Category  string            `json:"category"`
	Available bool              `json:"available"`
	Standings []ballot.Standing `json:"standings"`
	Message   string            `json:"message,omitempty"`
}

type LeaderboardsResponse struct {
	Available bool                  `json:"available"`
	Boards    []LeaderboardResponse `json:"boards"`
	Message   string                `json:"message,omitempty"`
}

type ArchiveResponse struct {
	Location string `json:"location"`
	Records  int    `json:"records"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
