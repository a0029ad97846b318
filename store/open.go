// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store selects the ballot.Store backend named by the configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/store/memory"
	"github.com/danielhkuo/dzmatch-votes/store/sheets"
	"github.com/danielhkuo/dzmatch-votes/store/sqlstore"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

// Open returns the backend for cfg.StorageDriver:
//
//	memory   in-process, lost on restart
//	sqlite   DATABASE_URL is a file path (default dzmatch.db)
//	postgres DATABASE_URL via lib/pq
//	pgx      DATABASE_URL via pgx
//	xlsx     XLSX_PATH
//	sheets   SPREADSHEET_ID, SHEET_RANGE, GOOGLE_APPLICATION_CREDENTIALS
func Open(ctx context.Context, cfg cliparse.Config) (ballot.Store, error) {
	var (
		s   ballot.Store
		err error
	)
	switch cfg.StorageDriver {
	case "memory":
		s = memory.New()
	case "sqlite", "postgres", "pgx":
		s, err = sqlstore.Open(ctx, cfg.StorageDriver, cfg.DatabaseURL)
	case "xlsx":
		s, err = xlsx.Open(cfg.XLSXPath)
	case "sheets":
		s, err = sheets.Open(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Range:           cfg.SheetRange,
			CredentialsFile: cfg.CredentialsFile,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("vote store opened", "driver", cfg.StorageDriver)
	return s, nil
}
