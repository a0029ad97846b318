// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore keeps vote records in SQLite or PostgreSQL through
// database/sql. The voter table's primary key rejects a second ballot even
// when several processes share the database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/db"
)

// DefaultSQLitePath is used when the sqlite driver is given no DSN.
const DefaultSQLitePath = "dzmatch.db"

var _ ballot.Store = (*Store)(nil)

// Store implements ballot.Store on a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

// Open connects with one of the supported drivers ("sqlite", "postgres" for
// lib/pq, "pgx") and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var dialect db.Dialect
	switch driver {
	case "sqlite":
		dialect = db.SQLite
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	case "postgres", "pgx":
		dialect = db.Postgres
		if dsn == "" {
			return nil, fmt.Errorf("%s driver requires DATABASE_URL", driver)
		}
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == db.SQLite {
		// one writer at a time avoids SQLITE_BUSY under concurrent requests
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s, err := New(ctx, conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool and creates the schema.
func New(ctx context.Context, conn *sql.DB, dialect db.Dialect) (*Store, error) {
	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		return nil, err
	}
	return &Store{db: conn, dialect: dialect}, nil
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Append inserts the voter row and every record in one transaction.
func (s *Store) Append(ctx context.Context, sub ballot.Submission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO voter (name, submission_id, submitted_at) VALUES (?, ?, ?)`),
		sub.Voter, sub.ID, sub.SubmittedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ballot.ErrAlreadyVoted
		}
		return fmt.Errorf("insert voter: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO vote_record (submission_id, nom, categorie, candidat, position, points)
		VALUES (?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range sub.Records {
		if _, err := stmt.ExecContext(ctx, sub.ID, r.Voter, r.Category, r.Candidate, r.Rank, r.Points); err != nil {
			if isUniqueViolation(err) {
				return ballot.ErrAlreadyVoted
			}
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Records returns every record ordered by insertion.
func (s *Store) Records(ctx context.Context) ([]ballot.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nom, categorie, candidat, position, points
		FROM vote_record
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []ballot.Record{}
	for rows.Next() {
		var r ballot.Record
		if err := rows.Scan(&r.Voter, &r.Category, &r.Candidate, &r.Rank, &r.Points); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (s *Store) HasVoted(ctx context.Context, voter string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT EXISTS(SELECT 1 FROM voter WHERE name = ?)`), voter).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check voter: %w", err)
	}
	return exists, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != db.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
