// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	// Storage
	StorageDriver   string
	DatabaseURL     string
	XLSXPath        string
	SpreadsheetID   string
	CredentialsFile string
	SheetRange      string
	CatalogFile     string

	StorageRetries    int
	StorageRetryDelay time.Duration

	// Secrets
	AdminKeySalt string

	// Archive
	ArchiveDriver      string
	ArchiveDir         string
	ArchiveS3Bucket    string
	ArchiveS3Region    string
	ArchiveS3Endpoint  string
	ArchiveS3PathStyle bool
}

var validStorageDrivers = map[string]bool{
	"memory": true, "sqlite": true, "postgres": true, "pgx": true, "xlsx": true, "sheets": true,
}

var validArchiveDrivers = map[string]bool{"none": true, "fs": true, "s3": true}

// LoadDotEnv loads variables from a .env file into the environment when the
// file exists. Variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("dzmatch-votes", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")

	// Storage
	fs.StringVar(&cfg.StorageDriver, "s", "", "Storage driver (memory, sqlite, postgres, pgx, xlsx, sheets)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite path")
	fs.StringVar(&cfg.XLSXPath, "xlsx", "", "Spreadsheet file for the xlsx driver")
	fs.StringVar(&cfg.SpreadsheetID, "sheet-id", "", "Google Sheets spreadsheet ID")
	fs.StringVar(&cfg.CatalogFile, "catalog", "", "YAML catalog file (defaults to the built-in catalog)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	fs.StringVar(&cfg.ArchiveDriver, "archive", "", "Archive driver (none, fs, s3)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.StorageDriver = fallback(cfg.StorageDriver, "STORAGE_DRIVER", "sqlite")
	if !validStorageDrivers[cfg.StorageDriver] {
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")
	switch cfg.StorageDriver {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "dzmatch.db"
		}
	case "postgres", "pgx":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}

	cfg.XLSXPath = fallback(cfg.XLSXPath, "XLSX_PATH", "votes.xlsx")
	cfg.SpreadsheetID = fallback(cfg.SpreadsheetID, "SPREADSHEET_ID", "")
	if cfg.StorageDriver == "sheets" && cfg.SpreadsheetID == "" {
		return Config{}, errors.New("SPREADSHEET_ID required for the sheets driver")
	}
	cfg.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.SheetRange = fallback("", "SHEET_RANGE", "Feuille 1!A:E")
	cfg.CatalogFile = fallback(cfg.CatalogFile, "CATALOG_FILE", "")

	cfg.StorageRetries = 3
	if v := os.Getenv("STORAGE_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, errors.New("invalid STORAGE_RETRIES env variable")
		}
		cfg.StorageRetries = n
	}
	cfg.StorageRetryDelay = 200 * time.Millisecond
	if v := os.Getenv("STORAGE_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, errors.New("invalid STORAGE_RETRY_DELAY env variable")
		}
		cfg.StorageRetryDelay = d
	}

	// Optional: admin routes are disabled without it
	cfg.AdminKeySalt = fallback(cfg.AdminKeySalt, "ADMIN_KEY_SALT", "")

	cfg.ArchiveDriver = fallback(cfg.ArchiveDriver, "ARCHIVE_DRIVER", "none")
	if !validArchiveDrivers[cfg.ArchiveDriver] {
		return Config{}, fmt.Errorf("unknown archive driver %q", cfg.ArchiveDriver)
	}
	cfg.ArchiveDir = fallback("", "ARCHIVE_DIR", "archive")
	cfg.ArchiveS3Bucket = os.Getenv("ARCHIVE_S3_BUCKET")
	cfg.ArchiveS3Region = fallback("", "ARCHIVE_S3_REGION", "us-east-1")
	cfg.ArchiveS3Endpoint = os.Getenv("ARCHIVE_S3_ENDPOINT")
	if v := os.Getenv("ARCHIVE_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid ARCHIVE_S3_PATH_STYLE env variable")
		}
		cfg.ArchiveS3PathStyle = b
	}
	if cfg.ArchiveDriver == "s3" && cfg.ArchiveS3Bucket == "" {
		return Config{}, errors.New("ARCHIVE_S3_BUCKET required for the s3 archive")
	}

	return cfg, nil
}

// fallback returns flagVal, else the env variable, else def.
func fallback(flagVal, env, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}
