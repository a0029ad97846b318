// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sheets stores vote records in a Google Sheets range, one row per
// record under a Nom, Categorie, Candidat, Position, Points header.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/danielhkuo/dzmatch-votes/ballot"
)

// DefaultRange is the A1 range holding the records.
const DefaultRange = "Feuille 1!A:E"

var ErrMalformedRow = errors.New("malformed vote row")

type Config struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

var _ ballot.Store = (*Store)(nil)

// Store implements ballot.Store on the Sheets values API.
type Store struct {
	svc   *gsheets.Service
	id    string
	rng   string
	appMu sync.Mutex
}

// Open builds a Sheets client. Extra options are appended after the
// credentials option, so tests can point the client at a fake endpoint.
func Open(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheets store requires SPREADSHEET_ID")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}

	clientOpts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Store{svc: svc, id: cfg.SpreadsheetID, rng: cfg.Range}, nil
}

// Append checks the voter column and appends every record in one call. The
// header row is written along with the first ballot.
func (s *Store) Append(ctx context.Context, sub ballot.Submission) error {
	s.appMu.Lock()
	defer s.appMu.Unlock()

	rows, err := s.rows(ctx)
	if err != nil {
		return err
	}
	if hasVoter(dataRows(rows), sub.Voter) {
		return ballot.ErrAlreadyVoted
	}

	values := make([][]interface{}, 0, len(sub.Records)+1)
	if len(rows) == 0 {
		header := make([]interface{}, len(ballot.RecordHeader))
		for i, h := range ballot.RecordHeader {
			header[i] = h
		}
		values = append(values, header)
	}
	for _, r := range sub.Records {
		values = append(values, []interface{}{r.Voter, r.Category, r.Candidate, r.Rank, r.Points})
	}

	_, err = s.svc.Spreadsheets.Values.Append(s.id, s.rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

// Records returns the parsable rows. Rows without a voter, category or
// candidate are skipped; a blank or non-numeric Position or Points reads as 0.
// Both cases are logged with their sheet row number.
func (s *Store) Records(ctx context.Context) ([]ballot.Record, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	data := dataRows(rows)
	offset := len(rows) - len(data)
	records := []ballot.Record{}
	for i, row := range data {
		if isBlank(row) {
			continue
		}
		rowNum := offset + i + 1
		r, coerced, err := parseRow(row)
		if err != nil {
			slog.Warn("skipping vote row", "range", s.rng, "row", rowNum, "error", err)
			continue
		}
		if len(coerced) > 0 {
			slog.Warn("vote row has non-numeric cells, counted as 0", "range", s.rng, "row", rowNum, "columns", coerced)
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) HasVoted(ctx context.Context, voter string) (bool, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return false, err
	}
	return hasVoter(dataRows(rows), voter), nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) rows(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.id, s.rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", s.rng, err)
	}
	return resp.Values, nil
}

// dataRows drops the header row, if present.
func dataRows(rows [][]interface{}) [][]interface{} {
	if len(rows) > 0 && len(rows[0]) > 0 && cellString(rows[0][0]) == ballot.RecordHeader[0] {
		return rows[1:]
	}
	return rows
}

// hasVoter matches the Nom column under the registry's name normalization,
// so rows written with stray whitespace still block the voter.
func hasVoter(rows [][]interface{}, voter string) bool {
	for _, row := range rows {
		if len(row) > 0 && ballot.NormalizeName(cellString(row[0])) == voter {
			return true
		}
	}
	return false
}

func parseRow(row []interface{}) (ballot.Record, []string, error) {
	cell := func(i int) interface{} {
		if i < len(row) {
			return row[i]
		}
		return nil
	}

	r := ballot.Record{
		Voter:     ballot.NormalizeName(cellString(cell(0))),
		Category:  ballot.NormalizeName(cellString(cell(1))),
		Candidate: ballot.NormalizeName(cellString(cell(2))),
	}
	if r.Voter == "" || r.Category == "" || r.Candidate == "" {
		return ballot.Record{}, nil, fmt.Errorf("%w: %d columns", ErrMalformedRow, len(row))
	}

	var coerced []string
	rank, err := cellFloat(cell(3))
	if err != nil {
		coerced = append(coerced, ballot.RecordHeader[3])
	}
	points, err := cellFloat(cell(4))
	if err != nil {
		coerced = append(coerced, ballot.RecordHeader[4])
	}
	r.Rank = int(rank)
	r.Points = points
	return r, coerced, nil
}

func isBlank(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(cellString(v)) != "" {
			return false
		}
	}
	return true
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func cellFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not a number: %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected cell %v", v)
	}
}
