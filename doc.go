// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the DZMatch votes API server.

DZMatch votes collects ranked top-5 ballots for the DZMatch awards (best
goalkeeper, club, player and coach), one ballot per voter name, and serves
live leaderboards. Ranks score 5, 3, 2, 1 and 0.5 points.

# Starting the Server

With no configuration the server stores votes in ./dzmatch.db:

	go run .

Or with flags:

	go run . -p 3318 -s postgres -d "postgres://..."

A .env file in the working directory is loaded first when present.

# Configuration

Storage (-s / STORAGE_DRIVER):

  - memory: in-process only
  - sqlite: DATABASE_URL is a file path (default)
  - postgres, pgx: DATABASE_URL is a PostgreSQL DSN
  - xlsx: XLSX_PATH spreadsheet file
  - sheets: SPREADSHEET_ID Google Sheets document

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - ADMIN_KEY_SALT (-admin-salt): enables /admin endpoints
  - ARCHIVE_DRIVER (-archive): none, fs or s3 for /admin/archive
  - CATALOG_FILE (-catalog): YAML catalog replacing the built-in one

See package cliparse for the full list.

# Architecture

  - ballot: scoring, validation, one-ballot-per-name ledger, tallies
  - store: memory, SQL, xlsx and Google Sheets backends
  - archive: workbook snapshots to a directory or S3
  - handlers: HTTP request handlers (voting, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Admin key and IP hashing
  - db: Schema creation
  - cliparse: Configuration parsing

The operator CLI lives in cmd/dzvotes.
*/
package main
