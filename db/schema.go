// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the DDL and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var ddl string
	switch dialect {
	case SQLite:
		ddl = sqliteSchema
	case Postgres:
		ddl = postgresSchema
	default:
		return fmt.Errorf("unknown dialect %q", dialect)
	}

	_, err := db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Voters (one row per accepted ballot)
CREATE TABLE IF NOT EXISTS voter (
    name TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL UNIQUE,
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Vote records (Nom, Categorie, Candidat, Position, Points)
CREATE TABLE IF NOT EXISTS vote_record (
    id BIGSERIAL PRIMARY KEY,
    submission_id TEXT NOT NULL REFERENCES voter(submission_id) ON DELETE CASCADE,
    nom TEXT NOT NULL,
    categorie TEXT NOT NULL,
    candidat TEXT NOT NULL,
    position INTEGER NOT NULL CHECK (position >= 1),
    points DOUBLE PRECISION NOT NULL,
    UNIQUE (nom, categorie, candidat)
);

CREATE INDEX IF NOT EXISTS idx_vote_record_categorie ON vote_record(categorie);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS voter (
    name TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL UNIQUE,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS vote_record (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    submission_id TEXT NOT NULL REFERENCES voter(submission_id) ON DELETE CASCADE,
    nom TEXT NOT NULL,
    categorie TEXT NOT NULL,
    candidat TEXT NOT NULL,
    position INTEGER NOT NULL CHECK (position >= 1),
    points REAL NOT NULL,
    UNIQUE (nom, categorie, candidat)
);

CREATE INDEX IF NOT EXISTS idx_vote_record_categorie ON vote_record(categorie);
`
