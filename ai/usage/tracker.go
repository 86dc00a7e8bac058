// Package usage tracks cumulative token consumption and enforces the
// per-tier daily message quota.
package usage

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	aierrors "github.com/sezginpak/lifestyles/internal/errors"
	"github.com/sezginpak/lifestyles/store/kv"
)

const (
	countersKey = "ai_usage_counters"
	quotaKey    = "ai_daily_message_quota"
)

// Tier is the subscription tier controlling the daily message quota.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Rates are the per-million-token prices used for cost estimation.
type Rates struct {
	InputPer1M  float64
	OutputPer1M float64
}

// DefaultRates matches the configured model's pricing.
func DefaultRates() Rates {
	return Rates{InputPer1M: 0.25, OutputPer1M: 1.25}
}

// Counters is the cumulative usage snapshot. Cost is derived from token
// counts at read time rather than accumulated, so it is always consistent
// with the counters.
type Counters struct {
	TotalRequests     int   `json:"total_requests"`
	TotalInputTokens  int64 `json:"total_input_tokens"`
	TotalOutputTokens int64 `json:"total_output_tokens"`
}

// EstimatedCost computes the dollar cost of the recorded tokens.
func (c Counters) EstimatedCost(r Rates) float64 {
	return float64(c.TotalInputTokens)/1_000_000*r.InputPer1M +
		float64(c.TotalOutputTokens)/1_000_000*r.OutputPer1M
}

type dailyQuota struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Tracker records token usage and daily message counts. All mutating paths
// hold the mutex; KV persistence failures are logged and never surface to
// callers, usage accounting is best effort.
type Tracker struct {
	mu        sync.Mutex
	kv        kv.Store
	logger    *slog.Logger
	rates     Rates
	freeDaily int
	now       func() time.Time

	counters Counters
	quota    dailyQuota
	loaded   bool
}

// FreeDailyMessages is the standard free-tier daily message allowance.
const FreeDailyMessages = 5

// NewTracker creates a tracker backed by the given key-value store.
// freeDailyMessages is the free-tier daily allowance; zero or negative
// falls back to FreeDailyMessages.
func NewTracker(store kv.Store, rates Rates, freeDailyMessages int, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if freeDailyMessages <= 0 {
		freeDailyMessages = FreeDailyMessages
	}
	return &Tracker{
		kv:        store,
		logger:    logger,
		rates:     rates,
		freeDaily: freeDailyMessages,
		now:       time.Now,
	}
}

// Record adds one completed request's token counts.
func (t *Tracker) Record(ctx context.Context, inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)

	t.counters.TotalRequests++
	t.counters.TotalInputTokens += int64(inputTokens)
	t.counters.TotalOutputTokens += int64(outputTokens)
	t.persistCounters(ctx)
}

// Counters returns the cumulative usage snapshot.
func (t *Tracker) Counters(ctx context.Context) Counters {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	return t.counters
}

// EstimatedCost is the dollar cost of all recorded tokens.
func (t *Tracker) EstimatedCost(ctx context.Context) float64 {
	return t.Counters(ctx).EstimatedCost(t.rates)
}

// Reset clears the cumulative counters. The daily quota is unaffected.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	t.counters = Counters{}
	t.persistCounters(ctx)
}

// CheckQuota returns an error when the tier's daily message allowance is
// exhausted. Premium has no limit.
func (t *Tracker) CheckQuota(ctx context.Context, tier Tier) error {
	if tier == TierPremium {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	t.rollQuotaDay()
	if t.quota.Count >= t.freeDaily {
		return aierrors.UsageLimitReached("free daily message quota exhausted")
	}
	return nil
}

// RecordMessage counts one sent message against today's quota.
func (t *Tracker) RecordMessage(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	t.rollQuotaDay()
	t.quota.Count++
	t.persistQuota(ctx)
}

// MessagesToday reports how many messages were sent today.
func (t *Tracker) MessagesToday(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	t.rollQuotaDay()
	return t.quota.Count
}

// RemainingMessages reports the tier's remaining daily allowance, or -1 for
// unlimited.
func (t *Tracker) RemainingMessages(ctx context.Context, tier Tier) int {
	if tier == TierPremium {
		return -1
	}
	remaining := t.freeDaily - t.MessagesToday(ctx)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetNowFunc overrides the clock. Tests only.
func (t *Tracker) SetNowFunc(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

func (t *Tracker) rollQuotaDay() {
	today := t.now().Format("2006-01-02")
	if t.quota.Date != today {
		t.quota = dailyQuota{Date: today}
	}
}

func (t *Tracker) load(ctx context.Context) {
	if t.loaded {
		return
	}
	t.loaded = true
	if t.kv == nil {
		return
	}
	if raw, ok, err := t.kv.Get(ctx, countersKey); err != nil {
		t.logger.Warn("failed to load usage counters", "error", err)
	} else if ok {
		if err := json.Unmarshal(raw, &t.counters); err != nil {
			t.logger.Warn("corrupt usage counters, starting fresh", "error", err)
			t.counters = Counters{}
		}
	}
	if raw, ok, err := t.kv.Get(ctx, quotaKey); err != nil {
		t.logger.Warn("failed to load daily quota", "error", err)
	} else if ok {
		if err := json.Unmarshal(raw, &t.quota); err != nil {
			t.logger.Warn("corrupt daily quota, starting fresh", "error", err)
			t.quota = dailyQuota{}
		}
	}
}

func (t *Tracker) persistCounters(ctx context.Context) {
	if t.kv == nil {
		return
	}
	raw, err := json.Marshal(t.counters)
	if err != nil {
		t.logger.Warn("failed to encode usage counters", "error", err)
		return
	}
	if err := t.kv.Set(ctx, countersKey, raw); err != nil {
		t.logger.Warn("failed to persist usage counters", "error", err)
	}
}

func (t *Tracker) persistQuota(ctx context.Context) {
	if t.kv == nil {
		return
	}
	raw, err := json.Marshal(t.quota)
	if err != nil {
		t.logger.Warn("failed to encode daily quota", "error", err)
		return
	}
	if err := t.kv.Set(ctx, quotaKey, raw); err != nil {
		t.logger.Warn("failed to persist daily quota", "error", err)
	}
}
