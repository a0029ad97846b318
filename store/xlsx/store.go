// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package xlsx stores vote records in a local spreadsheet file and encodes
// the workbooks served by the export and archive endpoints.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/dzmatch-votes/ballot"
)

// DefaultPath is used when no file is configured.
const DefaultPath = "votes.xlsx"

var _ ballot.Store = (*Store)(nil)

// Store implements ballot.Store over a single .xlsx file. The file is
// loaded once and rewritten in full on every append; rows loaded from disk
// are written back as read, damaged ones included.
type Store struct {
	path string

	mu      sync.RWMutex
	kept    [][]string
	added   []ballot.Record
	records []ballot.Record
	voters  map[string]struct{}
}

// Open loads path, or starts an empty ledger when the file does not exist.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, voters: make(map[string]struct{})}

	f, err := excelize.OpenFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, offset, err := sheetRows(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.kept = rows
	s.records = parseRows(rows, offset)
	s.voters = voterNames(rows)
	return s, nil
}

// Append writes the new rows to a temporary file and renames it over the
// ledger, so a failed write leaves the previous file intact.
func (s *Store) Append(ctx context.Context, sub ballot.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.voters[sub.Voter]; ok {
		return ballot.ErrAlreadyVoted
	}

	added := make([]ballot.Record, 0, len(s.added)+len(sub.Records))
	added = append(added, s.added...)
	added = append(added, sub.Records...)

	if err := s.save(added); err != nil {
		return err
	}
	s.added = added
	s.records = append(append([]ballot.Record(nil), s.records...), sub.Records...)
	s.voters[sub.Voter] = struct{}{}
	return nil
}

func (s *Store) save(added []ballot.Record) error {
	f, err := newWorkbook(s.kept, added)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	tmp := s.path + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Records(ctx context.Context) ([]ballot.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ballot.Record{}, s.records...), nil
}

func (s *Store) HasVoted(ctx context.Context, voter string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voters[voter]
	return ok, nil
}

func (s *Store) Close() error {
	return nil
}
