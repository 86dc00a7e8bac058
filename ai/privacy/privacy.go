// Package privacy holds the per-category consent flags that gate every
// pipeline run. The gate decides which context categories may be loaded;
// snapshot builders never re-check privacy themselves.
package privacy

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/sezginpak/lifestyles/store/kv"
)

// Category identifies one shareable data category.
type Category string

const (
	CategoryFriends  Category = "friends"
	CategoryGoals    Category = "goals_habits"
	CategoryMood     Category = "mood"
	CategoryLocation Category = "location"
	CategoryJournal  Category = "journal"
)

// Feature identifies a user-facing AI feature toggle.
type Feature string

const (
	FeatureChat           Feature = "chat"
	FeatureMorningInsight Feature = "morning_insight"
	FeatureLearning       Feature = "learning"
)

// ContextMode controls how much context general chat assembles.
type ContextMode string

const (
	// ContextModeSmart loads context based on the classified intent.
	ContextModeSmart ContextMode = "smart"
	// ContextModeFull loads every permitted category regardless of intent.
	ContextModeFull ContextMode = "full"
	// ContextModeMinimal sends the question with no context at all.
	ContextModeMinimal ContextMode = "minimal"
)

// Settings are the persisted privacy preferences. Mutated only by explicit
// user action; read by every pipeline run.
type Settings struct {
	ShareFriendsData      bool        `json:"shareFriendsData"`
	ShareGoalsAndHabits   bool        `json:"shareGoalsAndHabits"`
	ShareMoodData         bool        `json:"shareMoodData"`
	ShareLocationData     bool        `json:"shareLocationData"`
	HasGivenAIConsent     bool        `json:"hasGivenAIConsent"`
	ConsentAt             *time.Time  `json:"consentAt,omitempty"`
	AIChatEnabled         bool        `json:"aiChatEnabled"`
	MorningInsightEnabled bool        `json:"morningInsightEnabled"`
	LearningEnabled       bool        `json:"learningEnabled"`
	ContextMode           ContextMode `json:"contextMode"`

	// LastRequestDataUsage records what the most recent request shared,
	// for the transparency UI.
	LastRequestDataUsage *DataUsage `json:"lastRequestDataUsage,omitempty"`
}

// DataUsage is the per-request data sharing breakdown.
type DataUsage struct {
	FriendsCount    int       `json:"friendsCount"`
	GoalsCount      int       `json:"goalsCount"`
	HabitsCount     int       `json:"habitsCount"`
	FactsCount      int       `json:"factsCount"`
	HasMoodData     bool      `json:"hasMoodData"`
	HasLocationData bool      `json:"hasLocationData"`
	Timestamp       time.Time `json:"timestamp"`
}

// TotalItems returns the number of discrete shared records.
func (d *DataUsage) TotalItems() int {
	return d.FriendsCount + d.GoalsCount + d.HabitsCount + d.FactsCount
}

// DefaultSettings returns first-launch settings: sharing on, consent and
// proactive features off until the user explicitly opts in.
func DefaultSettings() *Settings {
	return &Settings{
		ShareFriendsData:      true,
		ShareGoalsAndHabits:   true,
		ShareMoodData:         true,
		ShareLocationData:     true,
		HasGivenAIConsent:     false,
		AIChatEnabled:         true,
		MorningInsightEnabled: false,
		LearningEnabled:       true,
		ContextMode:           ContextModeSmart,
	}
}

const settingsKey = "ai_privacy_settings"

// Gate answers category and feature questions for the pipeline, backed by a
// persisted Settings record. Concurrent pipeline runs and the background
// extractor all consult one gate, so every settings access goes through the
// mutex.
type Gate struct {
	kv     kv.Store
	logger *slog.Logger

	mu       sync.RWMutex
	settings *Settings
}

// NewGate loads settings from the key-value store, falling back to defaults
// when nothing is persisted yet.
func NewGate(ctx context.Context, store kv.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{kv: store, logger: logger, settings: DefaultSettings()}
	if store == nil {
		return g
	}
	raw, ok, err := store.Get(ctx, settingsKey)
	if err != nil {
		logger.Warn("failed to load privacy settings, using defaults", "error", err)
		return g
	}
	if !ok {
		return g
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.Warn("corrupt privacy settings, using defaults", "error", err)
		return g
	}
	if s.ContextMode == "" {
		s.ContextMode = ContextModeSmart
	}
	g.settings = &s
	return g
}

// NewGateWithSettings builds a gate around explicit settings (tests, fakes).
func NewGateWithSettings(s *Settings) *Gate {
	if s == nil {
		s = DefaultSettings()
	}
	if s.ContextMode == "" {
		s.ContextMode = ContextModeSmart
	}
	return &Gate{settings: s, logger: slog.Default()}
}

// Allowed reports whether the category may be loaded into context.
// Without general AI consent no category is shareable.
func (g *Gate) Allowed(c Category) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.allowedLocked(c)
}

func (g *Gate) allowedLocked(c Category) bool {
	if !g.settings.HasGivenAIConsent {
		return false
	}
	switch c {
	case CategoryFriends:
		return g.settings.ShareFriendsData
	case CategoryGoals:
		return g.settings.ShareGoalsAndHabits
	case CategoryMood:
		return g.settings.ShareMoodData
	case CategoryLocation:
		return g.settings.ShareLocationData
	case CategoryJournal:
		// Journal entries ride on the blanket consent flag alone.
		return true
	default:
		return false
	}
}

// AllowedCategories returns the set of categories that may be loaded.
func (g *Gate) AllowedCategories() map[Category]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[Category]bool, 5)
	for _, c := range []Category{CategoryFriends, CategoryGoals, CategoryMood, CategoryLocation, CategoryJournal} {
		if g.allowedLocked(c) {
			out[c] = true
		}
	}
	return out
}

// FeatureEnabled reports whether a user-facing AI feature is on.
func (g *Gate) FeatureEnabled(f Feature) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.settings.HasGivenAIConsent {
		return false
	}
	switch f {
	case FeatureChat:
		return g.settings.AIChatEnabled
	case FeatureMorningInsight:
		return g.settings.MorningInsightEnabled
	case FeatureLearning:
		return g.settings.LearningEnabled
	default:
		return false
	}
}

// Mode returns the configured chat context mode.
func (g *Gate) Mode() ContextMode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settings.ContextMode
}

// Settings returns a copy of the current settings.
func (g *Gate) Settings() Settings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return *g.settings
}

// GiveConsent records explicit user consent.
func (g *Gate) GiveConsent(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	g.settings.HasGivenAIConsent = true
	g.settings.ConsentAt = &now
	return g.persistLocked(ctx)
}

// RevokeConsent withdraws consent and disables every AI feature.
func (g *Gate) RevokeConsent(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings.HasGivenAIConsent = false
	g.settings.ConsentAt = nil
	g.settings.AIChatEnabled = false
	g.settings.MorningInsightEnabled = false
	g.settings.LearningEnabled = false
	return g.persistLocked(ctx)
}

// SetSharing flips one category flag.
func (g *Gate) SetSharing(ctx context.Context, c Category, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch c {
	case CategoryFriends:
		g.settings.ShareFriendsData = enabled
	case CategoryGoals:
		g.settings.ShareGoalsAndHabits = enabled
	case CategoryMood:
		g.settings.ShareMoodData = enabled
	case CategoryLocation:
		g.settings.ShareLocationData = enabled
	}
	return g.persistLocked(ctx)
}

// EnableAll turns every sharing category on.
func (g *Gate) EnableAll(ctx context.Context) error {
	return g.setAllSharing(ctx, true)
}

// DisableAll turns every sharing category off. Consent itself is untouched;
// use RevokeConsent to withdraw it.
func (g *Gate) DisableAll(ctx context.Context) error {
	return g.setAllSharing(ctx, false)
}

func (g *Gate) setAllSharing(ctx context.Context, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings.ShareFriendsData = enabled
	g.settings.ShareGoalsAndHabits = enabled
	g.settings.ShareMoodData = enabled
	g.settings.ShareLocationData = enabled
	return g.persistLocked(ctx)
}

// SetFeature flips one feature toggle.
func (g *Gate) SetFeature(ctx context.Context, f Feature, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch f {
	case FeatureChat:
		g.settings.AIChatEnabled = enabled
	case FeatureMorningInsight:
		g.settings.MorningInsightEnabled = enabled
	case FeatureLearning:
		g.settings.LearningEnabled = enabled
	}
	return g.persistLocked(ctx)
}

// RecordDataUsage stores the most recent request's sharing breakdown.
func (g *Gate) RecordDataUsage(ctx context.Context, usage *DataUsage) {
	if usage == nil {
		return
	}
	if usage.Timestamp.IsZero() {
		usage.Timestamp = time.Now()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings.LastRequestDataUsage = usage
	if err := g.persistLocked(ctx); err != nil {
		// Transparency bookkeeping must never fail a request.
		g.logger.Warn("failed to persist data usage record", "error", err)
	}
}

func (g *Gate) persistLocked(ctx context.Context) error {
	if g.kv == nil {
		return nil
	}
	raw, err := json.Marshal(g.settings)
	if err != nil {
		return err
	}
	return g.kv.Set(ctx, settingsKey, raw)
}
