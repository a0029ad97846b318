// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package xlsx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/dzmatch-votes/ballot"
)

// SheetName is the worksheet holding the vote records.
const SheetName = "Feuille 1"

var ErrMalformedRow = errors.New("malformed vote row")

// WriteWorkbook encodes records as an .xlsx workbook with a header row.
func WriteWorkbook(w io.Writer, records []ballot.Record) error {
	f, err := newWorkbook(nil, records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadWorkbook decodes the records written by WriteWorkbook. Damaged rows
// are handled as in parseRows.
func ReadWorkbook(r io.Reader) ([]ballot.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, offset, err := sheetRows(f)
	if err != nil {
		return nil, err
	}
	return parseRows(rows, offset), nil
}

// newWorkbook writes the header, then kept rows as they were read, then
// records.
func newWorkbook(kept [][]string, records []ballot.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(ballot.RecordHeader))
	for i, h := range ballot.RecordHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	rowNum := 2
	writeRow := func(row []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
		return nil
	}

	for _, raw := range kept {
		row := make([]interface{}, len(raw))
		for i, v := range raw {
			row[i] = v
		}
		if err := writeRow(row); err != nil {
			f.Close()
			return nil, err
		}
	}
	for _, r := range records {
		if err := writeRow([]interface{}{r.Voter, r.Category, r.Candidate, r.Rank, r.Points}); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// sheetRows returns the rows under the header and the number of rows
// dropped above them.
func sheetRows(f *excelize.File) ([][]string, int, error) {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", SheetName, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == ballot.RecordHeader[0] {
		return rows[1:], 1, nil
	}
	return rows, 0, nil
}

// parseRows skips rows without a voter, category or candidate, and reads a
// blank or non-numeric Position or Points as 0. Both are logged with their
// sheet row number.
func parseRows(rows [][]string, offset int) []ballot.Record {
	records := []ballot.Record{}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rowNum := offset + i + 1
		r, coerced, err := parseRow(row)
		if err != nil {
			slog.Warn("skipping vote row", "sheet", SheetName, "row", rowNum, "error", err)
			continue
		}
		if len(coerced) > 0 {
			slog.Warn("vote row has non-numeric cells, counted as 0", "sheet", SheetName, "row", rowNum, "columns", coerced)
		}
		records = append(records, r)
	}
	return records
}

// voterNames collects the normalized Nom column, including rows parseRows
// skips.
func voterNames(rows [][]string) map[string]struct{} {
	voters := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if name := ballot.NormalizeName(row[0]); name != "" {
			voters[name] = struct{}{}
		}
	}
	return voters
}

func parseRow(row []string) (ballot.Record, []string, error) {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	r := ballot.Record{
		Voter:     ballot.NormalizeName(cell(0)),
		Category:  ballot.NormalizeName(cell(1)),
		Candidate: ballot.NormalizeName(cell(2)),
	}
	if r.Voter == "" || r.Category == "" || r.Candidate == "" {
		return ballot.Record{}, nil, fmt.Errorf("%w: %d columns", ErrMalformedRow, len(row))
	}

	var coerced []string
	rank, ok := parseNumber(cell(3))
	if !ok {
		coerced = append(coerced, ballot.RecordHeader[3])
	}
	points, ok := parseNumber(cell(4))
	if !ok {
		coerced = append(coerced, ballot.RecordHeader[4])
	}
	r.Rank = int(rank)
	r.Points = points
	return r, coerced, nil
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
