// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(ctx, conn, db.Postgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: one row per accepted ballot, name is the primary key
  - vote_record: one row per ranked selection (nom, categorie, candidat, position, points)

# Relationships

	voter 1──* vote_record (via submission_id)

The primary key on voter.name is what rejects a second ballot when several
server processes share one database. vote_record.id preserves append order.

# Indexes

  - vote_record.categorie
*/
package db
