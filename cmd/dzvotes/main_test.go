// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/dzmatch-votes/auth"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

func init() {
	color.NoColor = true
}

// cleanEnv blanks the variables cliparse falls back to.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"STORAGE_DRIVER", "DATABASE_URL", "XLSX_PATH", "CATALOG_FILE", "ADMIN_KEY_SALT", "ARCHIVE_DRIVER"} {
		t.Setenv(k, "")
	}
}

// seedWorkbook writes a ledger the commands can read through the xlsx driver.
func seedWorkbook(t *testing.T, records []ballot.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "votes.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, xlsx.WriteWorkbook(f, records))
	require.NoError(t, f.Close())
	return path
}

func TestLeaderboardCommand(t *testing.T) {
	cleanEnv(t)
	path := seedWorkbook(t, []ballot.Record{
		{Voter: "Amine", Category: "Meilleur club", Candidate: "MCA", Rank: 1, Points: 5},
		{Voter: "Amine", Category: "Meilleur club", Candidate: "JSK", Rank: 5, Points: 0.5},
		{Voter: "Nadia", Category: "Meilleur club", Candidate: "JSK", Rank: 1, Points: 5},
	})

	var out bytes.Buffer
	err := run(context.Background(), []string{"leaderboard", "-s", "xlsx", "-xlsx", path}, &out)
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "2 voters, 3 records")
	require.Contains(t, text, "Meilleur club")
	require.Contains(t, text, "1st")
	require.Contains(t, text, "5.5")
	require.Contains(t, text, "Aucun vote pour cette catégorie.")
	require.Less(t, strings.Index(text, "JSK"), strings.Index(text, "MCA"))
}

func TestLeaderboardCommandEmpty(t *testing.T) {
	cleanEnv(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"leaderboard", "-s", "memory"}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Aucun vote enregistré pour le moment.")
}

func TestExportCommand(t *testing.T) {
	cleanEnv(t)
	records := []ballot.Record{
		{Voter: "Amine", Category: "Meilleur joueur", Candidate: "Larbi Tabti (MCA)", Rank: 1, Points: 5},
	}
	src := seedWorkbook(t, records)
	dst := filepath.Join(t.TempDir(), "export.xlsx")

	var out bytes.Buffer
	err := run(context.Background(), []string{"export", "-s", "xlsx", "-o", dst, "-xlsx", src}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "wrote 1 records")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	got, err := xlsx.ReadWorkbook(f)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestAdminKeyCommand(t *testing.T) {
	cleanEnv(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"admin-key", "-s", "memory"}, &out)
	require.ErrorContains(t, err, "ADMIN_KEY_SALT")

	t.Setenv("ADMIN_KEY_SALT", "pepper")
	out.Reset()
	require.NoError(t, run(context.Background(), []string{"admin-key", "-s", "memory"}, &out))
	require.Equal(t, auth.AdminKey("pepper")+"\n", out.String())
}

func TestRunUsage(t *testing.T) {
	var out bytes.Buffer
	require.ErrorContains(t, run(context.Background(), nil, &out), "usage")
	require.ErrorContains(t, run(context.Background(), []string{"vote"}, &out), "unknown command")
}

func TestSplitOutputFlag(t *testing.T) {
	tests := []struct {
		args     []string
		wantPath string
		wantRest []string
	}{
		{[]string{"-o", "a.xlsx", "-s", "memory"}, "a.xlsx", []string{"-s", "memory"}},
		{[]string{"-s", "memory", "--o=b.xlsx"}, "b.xlsx", []string{"-s", "memory"}},
		{[]string{"-s", "memory"}, "votes-export.xlsx", []string{"-s", "memory"}},
	}
	for _, tt := range tests {
		path, rest := splitOutputFlag(tt.args)
		require.Equal(t, tt.wantPath, path)
		require.Equal(t, tt.wantRest, rest)
	}
}
