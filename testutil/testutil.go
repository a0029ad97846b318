// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/dzmatch-votes/auth"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/store/memory"
)

// QuietLogger discards log output in tests.
var QuietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		StorageDriver:     "memory",
		AdminKeySalt:      "test-admin-salt",
		StorageRetries:    2,
		StorageRetryDelay: time.Millisecond,
		ArchiveDriver:     "none",
	}
}

// TestAdminKey is the admin key matching GetTestConfig.
func TestAdminKey() string {
	return auth.AdminKey(GetTestConfig().AdminKeySalt)
}

// NewTestLedger returns a ledger over an empty memory store with the
// default catalog.
func NewTestLedger(t *testing.T) (*ballot.Ledger, *memory.Store) {
	t.Helper()
	s := memory.New()
	return NewLedgerWithStore(s), s
}

// NewLedgerWithStore wraps any store with fast retries and a quiet logger.
func NewLedgerWithStore(s ballot.Store) *ballot.Ledger {
	cfg := GetTestConfig()
	return ballot.NewLedger(s, ballot.DefaultCatalog(), ballot.Options{
		Logger:     QuietLogger,
		Retries:    cfg.StorageRetries,
		RetryDelay: cfg.StorageRetryDelay,
	})
}

// SubmitTestVote records a ballot directly through the ledger.
func SubmitTestVote(t *testing.T, ledger *ballot.Ledger, name string, selections map[string][]string) ballot.Submission {
	t.Helper()
	sub, err := ledger.Submit(context.Background(), name, selections)
	if err != nil {
		t.Fatalf("Failed to submit test vote for %s: %v", name, err)
	}
	return sub
}

// FailingStore fails every read and write.
type FailingStore struct{ Err error }

func (f FailingStore) Append(context.Context, ballot.Submission) error { return f.Err }

func (f FailingStore) Records(context.Context) ([]ballot.Record, error) { return nil, f.Err }

func (f FailingStore) HasVoted(context.Context, string) (bool, error) { return false, f.Err }

func (f FailingStore) Close() error { return nil }

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
