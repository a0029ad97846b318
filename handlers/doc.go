// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the DZMatch votes API.

# Handler Types

Each handler is a struct holding the ledger and config:

  - VotingHandler: catalog, ballot submission, vote counts
  - ResultsHandler: per-category and all-category leaderboards
  - AdminHandler: workbook export and archive snapshots

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(ledger, cfg)

# Voting Flow

	GET  /categories  → GetCategories
	POST /votes       → SubmitVote

SubmitVote maps ledger errors to status codes:

	ballot.ErrEmptyName           400
	invalid ballot (unknown category or candidate, too many, empty)  400
	ballot.ErrAlreadyVoted        409
	ballot.ErrStorageUnavailable  503

# Results

	GET /leaderboard             → GetLeaderboards
	GET /leaderboard/{category}  → GetLeaderboard (404 for unknown categories)

A store that cannot be read never produces a 5xx here: the response is 200
with "available": false, empty standings and a message.

# Admin

Operator endpoints require the X-Admin-Key header (see package auth). They
answer 404 when ADMIN_KEY_SALT is not configured.

	GET  /admin/export   → Export (.xlsx download)
	POST /admin/archive  → Archive (upload via package archive)
*/
package handlers
