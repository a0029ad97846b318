// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestCreateSchemaSQLiteIsIdempotent(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, conn, SQLite); err != nil {
			t.Fatalf("CreateSchema run %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"voter", "vote_record"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestCreateSchemaUnknownDialect(t *testing.T) {
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(context.Background(), conn, Dialect("mysql")); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}
