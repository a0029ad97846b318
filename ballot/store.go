// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "context"

// Store persists vote records.
//
// Append must be all-or-nothing for a submission. Implementations that can
// detect a duplicate voter themselves return ErrAlreadyVoted from Append.
// Records returns every record in append order.
type Store interface {
	Append(ctx context.Context, sub Submission) error
	Records(ctx context.Context) ([]Record, error)
	HasVoted(ctx context.Context, voter string) (bool, error)
	Close() error
}
