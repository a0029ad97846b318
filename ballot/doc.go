// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the vote ledger: scoring of ranked top-5 ballots,
duplicate-voter rejection, and per-category leaderboards.

# Scoring

Each category accepts an ordered list of at most five candidates. The
position in the list is the rank, and the rank maps to points:

	1 → 5, 2 → 3, 3 → 2, 4 → 1, 5 → 0.5

Anything outside 1..5 is worth nothing.

# Submitting

A Ledger wraps a Store and a Catalog:

	ledger := ballot.NewLedger(store, ballot.DefaultCatalog(), ballot.Options{})
	sub, err := ledger.Submit(ctx, "Ali", map[string][]string{
		"Meilleur club": {"MCA", "USMA"},
	})

Names are trimmed and NFC-normalized before the duplicate check; matching is
otherwise exact and case-sensitive. The check and the append run under one
lock, and the whole ballot is appended as a single Submission.

# Leaderboards

Leaderboards are computed from the full record set on every call:

	standings, err := ledger.Leaderboard(ctx, "Meilleur club")

Candidates are ordered by total points, ties keep the order in which the
candidates first appear in the store.

# Errors

	ErrEmptyName          blank voter name
	ErrAlreadyVoted       name already recorded
	ErrStorageUnavailable backend failure after retries
	ErrUnknownCategory    category not in the catalog
	ErrUnknownCandidate   candidate not in the category
	ErrTooManySelections  more than five candidates in a category
	ErrEmptyBallot        nothing selected
	ErrInvalidBallot      other malformed input
*/
package ballot
