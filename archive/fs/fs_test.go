// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	s, err := New(dir)
	require.NoError(t, err)

	loc, err := s.Upload(context.Background(), "votes.xlsx", []byte("data"), "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "votes.xlsx"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	require.Equal(t, "data", string(got))
}

func TestUploadNeverOverwrites(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	loc, err := s.Upload(ctx, "votes.xlsx", []byte("first"), "")
	require.NoError(t, err)

	_, err = s.Upload(ctx, "votes.xlsx", []byte("second"), "")
	require.ErrorIs(t, err, ErrExists)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))
}

func TestUploadRejectsPaths(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape.xlsx", `a\b.xlsx`} {
		_, err := s.Upload(context.Background(), key, []byte("x"), "")
		require.Error(t, err, key)
	}
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
