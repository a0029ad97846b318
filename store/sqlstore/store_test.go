// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/db"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "votes", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func submission(voter string, picks ...string) ballot.Submission {
	sub := ballot.Submission{
		ID:          uuid.NewString(),
		Voter:       voter,
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for i, p := range picks {
		sub.Records = append(sub.Records, ballot.Record{
			Voter:     voter,
			Category:  "Meilleur club",
			Candidate: p,
			Rank:      i + 1,
			Points:    ballot.Points(i + 1),
		})
	}
	return sub
}

func TestSQLiteAppendAndRead(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, submission("Amine", "MCA", "USMA")))
	require.NoError(t, s.Append(ctx, submission("Sofiane", "CSC")))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, ballot.Record{Voter: "Amine", Category: "Meilleur club", Candidate: "MCA", Rank: 1, Points: 5}, records[0])
	require.Equal(t, "USMA", records[1].Candidate)
	require.Equal(t, 3.0, records[1].Points)
	require.Equal(t, "Sofiane", records[2].Voter)

	voted, err := s.HasVoted(ctx, "Amine")
	require.NoError(t, err)
	require.True(t, voted)

	voted, err = s.HasVoted(ctx, "amine")
	require.NoError(t, err)
	require.False(t, voted)
}

func TestSQLiteEmptyStore(t *testing.T) {
	s := openSQLite(t)
	records, err := s.Records(context.Background())
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestSQLiteRejectsSecondBallotAtomically(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, submission("Amine", "MCA")))
	err := s.Append(ctx, submission("Amine", "USMA", "CSC"))
	require.ErrorIs(t, err, ballot.ErrAlreadyVoted)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "MCA", records[0].Candidate)
}

func TestSQLiteConcurrentSameVoter(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Append(ctx, submission("Amine", "MCA", "USMA"))
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, ballot.ErrAlreadyVoted)
	}
	require.Equal(t, 1, accepted)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, submission("Amine", "MCA")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "mysql", "whatever")
	require.Error(t, err)

	_, err = Open(ctx, "postgres", "")
	require.ErrorContains(t, err, "DATABASE_URL")

	_, err = Open(ctx, "pgx", "")
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: db.Postgres}
	require.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))

	lite := &Store{dialect: db.SQLite}
	require.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestPostgresDrivers(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			s, err := Open(ctx, driver, dsn)
			require.NoError(t, err)
			defer s.Close()

			_, err = s.DB().ExecContext(ctx, `TRUNCATE voter, vote_record`)
			require.NoError(t, err)

			voter := "pg-" + uuid.NewString()
			require.NoError(t, s.Append(ctx, submission(voter, "MCA", "JSK")))
			require.ErrorIs(t, s.Append(ctx, submission(voter, "CRB")), ballot.ErrAlreadyVoted)

			records, err := s.Records(ctx)
			require.NoError(t, err)
			require.Len(t, records, 2)
			require.Equal(t, 5.0, records[0].Points)

			voted, err := s.HasVoted(ctx, voter)
			require.NoError(t, err)
			require.True(t, voted)
		})
	}
}
