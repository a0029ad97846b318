// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package archive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

type failingUploader struct{}

func (failingUploader) Upload(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket unreachable")
}

func TestKey(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 30, 5, 0, time.FixedZone("CET", 3600))
	require.Equal(t, "votes-20250601T133005Z.xlsx", Key(at))
}

func TestSnapshotToDirectory(t *testing.T) {
	dir := t.TempDir()
	u, err := Open(context.Background(), cliparse.Config{ArchiveDriver: "fs", ArchiveDir: dir})
	require.NoError(t, err)

	records := []ballot.Record{
		{Voter: "Amine", Category: "Meilleur club", Candidate: "MCA", Rank: 1, Points: 5},
	}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	loc, err := Snapshot(context.Background(), u, records, at)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "votes-20250601T120000Z.xlsx"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	got, err := xlsx.ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestSnapshotDisabled(t *testing.T) {
	u, err := Open(context.Background(), cliparse.Config{ArchiveDriver: "none"})
	require.NoError(t, err)
	require.Nil(t, u)

	_, err = Snapshot(context.Background(), u, nil, time.Now())
	require.ErrorIs(t, err, ErrDisabled)
}

func TestSnapshotUploadError(t *testing.T) {
	_, err := Snapshot(context.Background(), failingUploader{}, nil, time.Now())
	require.ErrorContains(t, err, "bucket unreachable")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), cliparse.Config{ArchiveDriver: "ftp"})
	require.Error(t, err)
}
