// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "time"

// Column headers of the persisted record layout.
var RecordHeader = []string{"Nom", "Categorie", "Candidat", "Position", "Points"}

// Record is one ranked selection of one voter.
type Record struct {
	Voter     string  `json:"voter"`
	Category  string  `json:"category"`
	Candidate string  `json:"candidate"`
	Rank      int     `json:"rank"`
	Points    float64 `json:"points"`
}

// Submission is a voter's complete ballot, appended to a Store in one piece.
type Submission struct {
	ID          string    `json:"id"`
	Voter       string    `json:"voter"`
	SubmittedAt time.Time `json:"submitted_at"`
	Records     []Record  `json:"records"`
}

// Standing is a candidate's row in a category leaderboard.
type Standing struct {
	Position  int     `json:"position"`
	Candidate string  `json:"candidate"`
	Points    float64 `json:"points"`
	Votes     int     `json:"votes"`
}

// Board is the leaderboard of one category.
type Board struct {
	Category  string     `json:"category"`
	Standings []Standing `json:"standings"`
}

// Stats summarizes the record store.
type Stats struct {
	Voters  int `json:"voters"`
	Records int `json:"records"`
}
