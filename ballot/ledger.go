// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/dzmatch-votes/metrics"
)

const (
	defaultRetries    = 3
	defaultRetryDelay = 200 * time.Millisecond
)

// Options tunes a Ledger. The zero value is usable.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Retries is the number of attempts for a store operation (default 3).
	Retries    int
	RetryDelay time.Duration

	// Clock stamps submissions; defaults to time.Now.
	Clock func() time.Time
}

// errRecordedByFailedAttempt ends the append retry loop when an earlier
// attempt turns out to have written the ballot.
var errRecordedByFailedAttempt = errors.New("ballot recorded by a failed attempt")

// Ledger accepts ballots and computes leaderboards over a Store.
type Ledger struct {
	store   Store
	catalog Catalog
	logger  *slog.Logger
	metrics *metrics.Metrics

	retries    int
	retryDelay time.Duration
	now        func() time.Time

	// mu serializes check-then-append across submissions.
	mu sync.Mutex
}

func NewLedger(store Store, catalog Catalog, opts Options) *Ledger {
	l := &Ledger{
		store:      store,
		catalog:    catalog,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		now:        opts.Clock,
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.retries <= 0 {
		l.retries = defaultRetries
	}
	if l.retryDelay <= 0 {
		l.retryDelay = defaultRetryDelay
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Catalog returns the categories the ledger accepts votes for.
func (l *Ledger) Catalog() Catalog {
	return l.catalog
}

// Submit records a voter's ranked selections, keyed by category name.
func (l *Ledger) Submit(ctx context.Context, voterName string, selections map[string][]string) (Submission, error) {
	name := NormalizeName(voterName)
	if name == "" {
		l.metrics.ObserveSubmission(metrics.OutcomeEmptyName, 0)
		return Submission{}, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		l.metrics.ObserveSubmission(metrics.OutcomeInvalid, 0)
		return Submission{}, fmt.Errorf("%w: name longer than %d characters", ErrInvalidBallot, MaxNameLength)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// A returning voter is refused whatever the ballot holds.
	var voted bool
	err := l.withRetry(ctx, "check", func(ctx context.Context) error {
		var err error
		voted, err = l.store.HasVoted(ctx, name)
		return err
	})
	if err != nil {
		l.metrics.ObserveSubmission(metrics.OutcomeStorageError, 0)
		l.logger.Error("failed to check voter registry", "voter", name, "error", err)
		return Submission{}, err
	}
	if voted {
		l.metrics.ObserveSubmission(metrics.OutcomeAlreadyVoted, 0)
		l.logger.Info("duplicate ballot rejected", "voter", name)
		return Submission{}, ErrAlreadyVoted
	}

	records, err := l.score(name, selections)
	if err != nil {
		l.metrics.ObserveSubmission(metrics.OutcomeInvalid, 0)
		return Submission{}, err
	}

	sub := Submission{
		ID:          uuid.NewString(),
		Voter:       name,
		SubmittedAt: l.now().UTC(),
		Records:     records,
	}

	// failedAppend is set once an Append call has returned an error. The
	// store may still have written the rows (a timeout after the write), and
	// since the registry was empty for this voter under l.mu, finding the
	// voter afterwards means this submission landed.
	failedAppend := false
	err = l.withRetry(ctx, "append", func(ctx context.Context) error {
		voted, err := l.store.HasVoted(ctx, name)
		if err != nil {
			return err
		}
		if voted {
			if failedAppend {
				return errRecordedByFailedAttempt
			}
			return ErrAlreadyVoted
		}
		if err := l.store.Append(ctx, sub); err != nil {
			if !errors.Is(err, ErrAlreadyVoted) {
				failedAppend = true
			}
			return err
		}
		return nil
	})
	switch {
	case errors.Is(err, errRecordedByFailedAttempt):
		l.logger.Warn("ballot found after a failed append, treating as recorded", "submission_id", sub.ID, "voter", name)
	case errors.Is(err, ErrAlreadyVoted):
		l.metrics.ObserveSubmission(metrics.OutcomeAlreadyVoted, 0)
		l.logger.Info("duplicate ballot rejected", "voter", name)
		return Submission{}, ErrAlreadyVoted
	case err != nil:
		l.metrics.ObserveSubmission(metrics.OutcomeStorageError, 0)
		l.logger.Error("failed to store ballot", "voter", name, "error", err)
		return Submission{}, err
	}

	l.metrics.ObserveSubmission(metrics.OutcomeAccepted, len(sub.Records))
	l.logger.Info("ballot recorded", "submission_id", sub.ID, "voter", name, "records", len(sub.Records))
	return sub, nil
}

// score validates selections against the catalog and turns them into
// records, categories in catalog order.
func (l *Ledger) score(voter string, selections map[string][]string) ([]Record, error) {
	byCategory := make(map[string][]string, len(selections))
	var unknown []string
	for category, picks := range selections {
		cat, ok := l.catalog.Category(category)
		if !ok {
			unknown = append(unknown, category)
			continue
		}
		byCategory[cat.Name] = append(byCategory[cat.Name], picks...)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, unknown[0])
	}

	var records []Record
	for _, cat := range l.catalog.categories {
		picks, ok := byCategory[cat.Name]
		if !ok {
			continue
		}

		seen := make(map[string]bool, len(picks))
		rank := 0
		for _, pick := range picks {
			candidate := NormalizeName(pick)
			if !l.catalog.HasCandidate(cat.Name, candidate) {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownCandidate, pick, cat.Name)
			}
			if seen[candidate] {
				continue
			}
			seen[candidate] = true

			rank++
			if rank > MaxSelections {
				return nil, fmt.Errorf("%w: %q allows at most %d", ErrTooManySelections, cat.Name, MaxSelections)
			}
			records = append(records, Record{
				Voter:     voter,
				Category:  cat.Name,
				Candidate: candidate,
				Rank:      rank,
				Points:    Points(rank),
			})
		}
	}

	if len(records) == 0 {
		return nil, ErrEmptyBallot
	}
	return records, nil
}

// Leaderboard ranks the candidates of one category by total points.
func (l *Ledger) Leaderboard(ctx context.Context, category string) ([]Standing, error) {
	cat, ok := l.catalog.Category(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	records, err := l.Records(ctx)
	if err != nil {
		l.metrics.ObserveLeaderboard(false)
		return nil, err
	}
	l.metrics.ObserveLeaderboard(true)
	return Tally(records, cat.Name), nil
}

// Leaderboards ranks every category from a single read of the store.
func (l *Ledger) Leaderboards(ctx context.Context) ([]Board, error) {
	records, err := l.Records(ctx)
	if err != nil {
		l.metrics.ObserveLeaderboard(false)
		return nil, err
	}
	l.metrics.ObserveLeaderboard(true)

	boards := make([]Board, 0, len(l.catalog.categories))
	for _, cat := range l.catalog.categories {
		boards = append(boards, Board{Category: cat.Name, Standings: Tally(records, cat.Name)})
	}
	return boards, nil
}

// Stats counts distinct voters and records.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return Stats{}, err
	}
	voters := make(map[string]struct{})
	for _, r := range records {
		voters[r.Voter] = struct{}{}
	}
	return Stats{Voters: len(voters), Records: len(records)}, nil
}

// Records returns every stored record in append order.
func (l *Ledger) Records(ctx context.Context) ([]Record, error) {
	var records []Record
	err := l.withRetry(ctx, "read", func(ctx context.Context) error {
		var err error
		records, err = l.store.Records(ctx)
		return err
	})
	if err != nil {
		l.logger.Warn("failed to read vote records", "error", err)
		return nil, err
	}
	return records, nil
}

// Tally sums points per candidate for one category. Higher totals come
// first; equal totals keep first-appearance order.
func Tally(records []Record, category string) []Standing {
	index := make(map[string]int)
	standings := []Standing{}
	for _, r := range records {
		if r.Category != category {
			continue
		}
		i, ok := index[r.Candidate]
		if !ok {
			i = len(standings)
			index[r.Candidate] = i
			standings = append(standings, Standing{Candidate: r.Candidate})
		}
		standings[i].Points += r.Points
		standings[i].Votes++
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}

// withRetry runs op up to l.retries times. ErrAlreadyVoted, a ballot
// recorded by a failed attempt, and context errors end the loop immediately; anything else is retried and finally
// reported as ErrStorageUnavailable.
func (l *Ledger) withRetry(ctx context.Context, opName string, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= l.retries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAlreadyVoted) || errors.Is(err, errRecordedByFailedAttempt) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, ctxErr)
		}
		lastErr = err

		if attempt == l.retries {
			break
		}
		l.metrics.ObserveRetry(opName)
		l.logger.Warn("store operation failed, retrying", "op", opName, "attempt", attempt, "error", err)

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, lastErr)
}
