// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package memory implements an in-process ballot.Store. State is lost on
// restart; it backs tests and single-instance demos.
package memory

import (
	"context"
	"sync"

	"github.com/danielhkuo/dzmatch-votes/ballot"
)

// Compile-time contract assertion.
var _ ballot.Store = (*Store)(nil)

// Store keeps records in a slice and voters in an explicit set.
type Store struct {
	mu      sync.RWMutex
	records []ballot.Record
	voters  map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{voters: make(map[string]struct{})}
}

// Append adds every record of sub, or none if the voter is already known.
func (s *Store) Append(_ context.Context, sub ballot.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.voters[sub.Voter]; ok {
		return ballot.ErrAlreadyVoted
	}
	s.voters[sub.Voter] = struct{}{}
	s.records = append(s.records, sub.Records...)
	return nil
}

// Records returns a copy of all records in append order.
func (s *Store) Records(_ context.Context) ([]ballot.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ballot.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) HasVoted(_ context.Context, voter string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voters[voter]
	return ok, nil
}

func (s *Store) Close() error { return nil }
