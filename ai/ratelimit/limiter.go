// Package ratelimit enforces client-side sliding-window request limits over
// a persisted timestamp ledger. Counts are always re-derived from the ledger
// so concurrent callers and restarts can never drift the admission count.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/store/kv"
)

const ledgerKey = "api_request_timestamps"

// Window identifies one sliding window.
type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
	WindowDay    Window = "day"
)

// Limits are the per-window request caps.
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// DefaultLimits mirrors the shipped client caps.
func DefaultLimits() Limits {
	return Limits{PerMinute: 8, PerHour: 30, PerDay: 150}
}

// Limiter is the sliding-window rate limiter. CheckAndReserve gates
// dispatch; Record is called only after a request was actually sent, so
// upstream precondition failures never consume quota.
type Limiter struct {
	mu     sync.Mutex
	kv     kv.Store
	limits Limits
	logger *slog.Logger
	now    func() time.Time

	// ledger holds request timestamps, pruned to the last 24 hours on
	// every Record.
	ledger []time.Time
	loaded bool
}

// New creates a limiter backed by the given key-value store.
func New(store kv.Store, limits Limits, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		kv:     store,
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
}

// CheckAndReserve verifies that a request may be dispatched right now.
// The first violated window, checked minute -> hour -> day, determines the
// rejection reason. It does not consume quota; call Record after dispatch.
func (l *Limiter) CheckAndReserve(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)

	now := l.now()
	if n := l.countSince(now.Add(-time.Minute)); n >= l.limits.PerMinute {
		return aierrors.ClientRateLimited("You are sending requests too quickly. Please wait a minute.")
	}
	if n := l.countSince(now.Add(-time.Hour)); n >= l.limits.PerHour {
		return aierrors.ClientRateLimited("Hourly request limit reached. Please wait a while.")
	}
	if n := l.countSince(now.Add(-24 * time.Hour)); n >= l.limits.PerDay {
		return aierrors.ClientRateLimited("Daily request limit reached. Try again tomorrow.")
	}
	return nil
}

// Record appends a request timestamp to the ledger and prunes entries older
// than 24 hours. Call it only after a request was actually sent.
func (l *Limiter) Record(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)

	now := l.now()
	l.ledger = append(l.ledger, now)
	l.prune(now)
	l.persist(ctx)
}

// RequestsToday counts ledger entries since local midnight.
func (l *Limiter) RequestsToday(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)
	now := l.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.countSince(midnight)
}

// RequestsThisHour counts ledger entries in the last hour.
func (l *Limiter) RequestsThisHour(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)
	return l.countSince(l.now().Add(-time.Hour))
}

// RemainingDailyQuota reports how many requests the day window still admits.
func (l *Limiter) RemainingDailyQuota(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load(ctx)
	remaining := l.limits.PerDay - l.countSince(l.now().Add(-24*time.Hour))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the ledger.
func (l *Limiter) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ledger = nil
	l.loaded = true
	if l.kv != nil {
		if err := l.kv.Delete(ctx, ledgerKey); err != nil {
			l.logger.Warn("failed to clear rate limit ledger", "error", err)
		}
	}
}

// SetNowFunc overrides the clock. Tests only.
func (l *Limiter) SetNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *Limiter) countSince(cutoff time.Time) int {
	count := 0
	for _, ts := range l.ledger {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	kept := l.ledger[:0]
	for _, ts := range l.ledger {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.ledger = kept
}

func (l *Limiter) load(ctx context.Context) {
	if l.loaded {
		return
	}
	l.loaded = true
	if l.kv == nil {
		return
	}
	raw, ok, err := l.kv.Get(ctx, ledgerKey)
	if err != nil {
		l.logger.Warn("failed to load rate limit ledger", "error", err)
		return
	}
	if !ok {
		return
	}
	var unix []int64
	if err := json.Unmarshal(raw, &unix); err != nil {
		l.logger.Warn("corrupt rate limit ledger, starting fresh", "error", err)
		return
	}
	l.ledger = make([]time.Time, 0, len(unix))
	for _, u := range unix {
		l.ledger = append(l.ledger, time.Unix(0, u))
	}
}

func (l *Limiter) persist(ctx context.Context) {
	if l.kv == nil {
		return
	}
	unix := make([]int64, len(l.ledger))
	for i, ts := range l.ledger {
		unix[i] = ts.UnixNano()
	}
	raw, err := json.Marshal(unix)
	if err != nil {
		l.logger.Warn("failed to encode rate limit ledger", "error", err)
		return
	}
	if err := l.kv.Set(ctx, ledgerKey, raw); err != nil {
		l.logger.Warn("failed to persist rate limit ledger", "error", err)
	}
}

// String describes the configured limits.
func (l Limits) String() string {
	return fmt.Sprintf("%d/min %d/h %d/day", l.PerMinute, l.PerHour, l.PerDay)
}
