// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/dzmatch-votes/metrics"
	"github.com/danielhkuo/dzmatch-votes/models"
	"github.com/danielhkuo/dzmatch-votes/store"
	"github.com/danielhkuo/dzmatch-votes/testutil"
)

// TestFullVotingFlow drives the API against a SQLite ledger: vote, reject a
// repeat, read leaderboards, export.
func TestFullVotingFlow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.StorageDriver = "sqlite"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "flow.db")

	s, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	mux := NewRouter(testutil.NewLedgerWithStore(s), cfg, metrics.New(), nil)

	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	// Step 1: two voters
	w := do(testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{
		Name: "Amine",
		Selections: map[string][]string{
			"Meilleur club":    {"MCA", "USMA", "CSC", "CRB", "JSK"},
			"Meilleur gardien": {"Hadid (JSK)"},
		},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = do(testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{
		Name:       "Sofiane",
		Selections: map[string][]string{"Meilleur club": {"JSK", "MCA"}},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Step 2: repeat is rejected
	w = do(testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{
		Name:       "Amine",
		Selections: map[string][]string{"Meilleur club": {"PAC"}},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Step 3: counts
	w = do(testutil.MakeRequest("GET", "/votes/count", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var count models.VoteCountResponse
	testutil.AssertJSON(t, w, &count)
	if count.Voters != 2 || count.Records != 8 {
		t.Errorf("Expected 2 voters / 8 records, got %+v", count)
	}

	// Step 4: club leaderboard; MCA 5+3=8, JSK 0.5+5=5.5, USMA 3, CSC 2, CRB 1
	w = do(testutil.MakeRequest("GET", "/leaderboard/Meilleur%20club", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var board models.LeaderboardResponse
	testutil.AssertJSON(t, w, &board)

	want := []string{"MCA", "JSK", "USMA", "CSC", "CRB"}
	if len(board.Standings) != len(want) {
		t.Fatalf("Expected %d standings, got %+v", len(want), board.Standings)
	}
	for i, c := range want {
		if board.Standings[i].Candidate != c {
			t.Errorf("Position %d: expected %s, got %s", i+1, c, board.Standings[i].Candidate)
		}
	}
	if board.Standings[0].Points != 8 || board.Standings[1].Points != 5.5 {
		t.Errorf("Unexpected totals: %+v", board.Standings[:2])
	}

	// Step 5: export needs the admin key
	w = do(testutil.MakeRequest("GET", "/admin/export", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = do(testutil.MakeRequest("GET", "/admin/export", nil, map[string]string{"X-Admin-Key": testutil.TestAdminKey()}))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.Len() == 0 {
		t.Error("Expected a workbook body")
	}
}
