// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file first when one exists; variables already in the
environment are not overwritten.

# CLI Flags

	-p            Server port
	-s            Storage driver (memory, sqlite, postgres, pgx, xlsx, sheets)
	-d            Database URL or sqlite path
	-xlsx         Spreadsheet file for the xlsx driver
	-sheet-id     Google Sheets spreadsheet ID
	-catalog      YAML catalog file
	-admin-salt   Admin key salt
	-archive      Archive driver (none, fs, s3)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p            (default 3318)
	STORAGE_DRIVER  → -s            (default sqlite)
	DATABASE_URL    → -d            (default dzmatch.db for sqlite)
	XLSX_PATH       → -xlsx         (default votes.xlsx)
	SPREADSHEET_ID  → -sheet-id
	CATALOG_FILE    → -catalog
	ADMIN_KEY_SALT  → -admin-salt
	ARCHIVE_DRIVER  → -archive      (default none)

Environment only:

	GOOGLE_APPLICATION_CREDENTIALS  service account file for the sheets driver
	SHEET_RANGE                     default "Feuille 1!A:E"
	STORAGE_RETRIES                 attempts per store operation (default 3)
	STORAGE_RETRY_DELAY             pause between attempts (default 200ms)
	ARCHIVE_DIR                     default "archive"
	ARCHIVE_S3_BUCKET, ARCHIVE_S3_REGION, ARCHIVE_S3_ENDPOINT, ARCHIVE_S3_PATH_STYLE

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when:

  - a driver name is unknown
  - postgres or pgx is selected without DATABASE_URL
  - sheets is selected without SPREADSHEET_ID
  - the s3 archive is selected without ARCHIVE_S3_BUCKET
  - a numeric or duration variable does not parse

ADMIN_KEY_SALT is optional; the admin routes are disabled without it.
*/
package cliparse
