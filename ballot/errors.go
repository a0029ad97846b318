// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "errors"

var (
	ErrEmptyName          = errors.New("voter name is required")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrStorageUnavailable = errors.New("vote storage unavailable")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownCandidate   = errors.New("unknown candidate")
	ErrTooManySelections  = errors.New("too many selections")
	ErrEmptyBallot        = errors.New("ballot has no selections")
	ErrInvalidBallot      = errors.New("invalid ballot")
)
