// Package assemble builds per-request prompt contexts from the data store,
// honoring the privacy gate and the classified intent. The assembler always
// returns a context object: a failing category degrades to "absent" and is
// logged, never propagated.
package assemble

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sezginpak/lifestyles/ai/intent"
	"github.com/sezginpak/lifestyles/ai/knowledge"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/ai/snapshot"
	"github.com/sezginpak/lifestyles/internal/observability"
	"github.com/sezginpak/lifestyles/store"
)

const recentJournalDays = 7

// ChatContext is the aggregate handed to the prompt composer for a chat
// request. Absent categories stay nil so presence survives serialization.
type ChatContext struct {
	Profile      *snapshot.UserProfile     `json:"userProfile,omitempty"`
	TargetFriend *snapshot.Friend          `json:"targetFriend,omitempty"`
	Friends      []snapshot.Friend         `json:"friends,omitempty"`
	CurrentMood  *snapshot.Mood            `json:"currentMood,omitempty"`
	MoodTrend    *snapshot.MoodTrend       `json:"moodTrend,omitempty"`
	Goals        []snapshot.Goal           `json:"activeGoals,omitempty"`
	Habits       []snapshot.Habit          `json:"habits,omitempty"`
	Location     *snapshot.LocationPattern `json:"locationPattern,omitempty"`
	TodayJournal *snapshot.Journal         `json:"todayJournal,omitempty"`
	Facts        []*store.KnowledgeFact    `json:"knownFacts,omitempty"`

	Intent intent.Intent `json:"-"`
}

// DailyContext is the aggregate for the proactive daily-insight request.
type DailyContext struct {
	Profile        *snapshot.UserProfile     `json:"userProfile,omitempty"`
	TodayMoods     []snapshot.Mood           `json:"todayMoods,omitempty"`
	MoodTrend      *snapshot.MoodTrend       `json:"moodTrend,omitempty"`
	Goals          []snapshot.Goal           `json:"activeGoals,omitempty"`
	Habits         []snapshot.Habit          `json:"habits,omitempty"`
	Location       *snapshot.LocationPattern `json:"locationPattern,omitempty"`
	RecentJournal  []snapshot.Journal        `json:"recentJournal,omitempty"`
	OverdueFriends []snapshot.Friend         `json:"overdueFriends,omitempty"`
	Facts          []*store.KnowledgeFact    `json:"knownFacts,omitempty"`
}

// Assembler builds contexts. It never mutates the store.
type Assembler struct {
	store      store.Store
	gate       *privacy.Gate
	classifier *intent.Classifier
	relevance  *knowledge.Relevance
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an assembler.
func New(s store.Store, gate *privacy.Gate, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		store:      s,
		gate:       gate,
		classifier: intent.NewClassifier(),
		relevance:  knowledge.NewRelevance(),
		logger:     logger,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock. Tests only.
func (a *Assembler) SetNowFunc(now func() time.Time) { a.now = now }

// AssembleChat builds the context for one chat question. A non-nil target
// friend pins the conversation to that relationship and skips intent
// classification; otherwise the question is classified and friend loading
// follows the intent:
//
//	FriendsList   -> all friends
//	ContactAdvice -> overdue friends only
//	General       -> no friends at all, keeping the prompt small
func (a *Assembler) AssembleChat(ctx context.Context, question string, target *store.Friend) *ChatContext {
	rc := observability.Ctx(ctx, "assemble")
	now := a.now()
	out := &ChatContext{Intent: intent.IntentGeneral}

	if target != nil {
		f := snapshot.BuildFriend(target, now)
		out.TargetFriend = &f
	} else {
		out.Intent = a.classifier.Classify(question)
	}
	rc.Debug("chat context assembly", slog.String(observability.LogFieldIntent, string(out.Intent)))

	mode := a.gate.Mode()
	if mode != privacy.ContextModeMinimal {
		a.loadChatCategories(ctx, rc, out, mode, now)
	}
	out.Facts = a.loadFacts(ctx, rc, question)

	a.recordUsage(ctx, len(out.Friends), len(out.Goals), len(out.Habits), len(out.Facts),
		out.CurrentMood != nil || out.MoodTrend != nil, out.Location != nil)
	return out
}

func (a *Assembler) loadChatCategories(ctx context.Context, rc *observability.RequestContext, out *ChatContext, mode privacy.ContextMode, now time.Time) {
	full := mode == privacy.ContextModeFull

	if a.gate.Allowed(privacy.CategoryFriends) && out.TargetFriend == nil {
		switch {
		case out.Intent == intent.IntentFriendsList || full:
			out.Friends = a.allFriends(ctx, rc, now)
		case out.Intent == intent.IntentContactAdvice:
			out.Friends = a.overdueFriends(ctx, rc, now)
		}
	}
	if a.gate.Allowed(privacy.CategoryMood) {
		if mood, err := snapshot.BuildCurrentMood(ctx, a.store, now); err != nil {
			rc.Warn("mood unavailable", slog.String("error", err.Error()))
		} else {
			out.CurrentMood = mood
		}
		if trend, err := snapshot.BuildMoodTrend(ctx, a.store, now, 7); err != nil {
			rc.Warn("mood trend unavailable", slog.String("error", err.Error()))
		} else {
			out.MoodTrend = trend
		}
	}
	if a.gate.Allowed(privacy.CategoryGoals) {
		if goals, err := snapshot.BuildActiveGoals(ctx, a.store, now); err != nil {
			rc.Warn("goals unavailable", slog.String("error", err.Error()))
		} else {
			out.Goals = goals
		}
		if habits, err := snapshot.BuildHabits(ctx, a.store); err != nil {
			rc.Warn("habits unavailable", slog.String("error", err.Error()))
		} else {
			out.Habits = habits
		}
	}
	if a.gate.Allowed(privacy.CategoryLocation) {
		if loc, err := snapshot.BuildLocationPattern(ctx, a.store, now); err != nil {
			rc.Warn("location pattern unavailable", slog.String("error", err.Error()))
		} else {
			out.Location = loc
		}
	}
	if a.gate.Allowed(privacy.CategoryJournal) {
		if entry, err := snapshot.BuildTodayJournal(ctx, a.store, now); err != nil {
			rc.Warn("journal unavailable", slog.String("error", err.Error()))
		} else {
			out.TodayJournal = entry
		}
	}
	if a.gate.Settings().HasGivenAIConsent {
		if prof, err := snapshot.BuildUserProfile(ctx, a.store); err != nil {
			rc.Warn("user profile unavailable", slog.String("error", err.Error()))
		} else {
			out.Profile = prof
		}
	}
}

// AssembleDaily builds the proactive daily-insight context. Categories load
// concurrently; each failure degrades to absent.
func (a *Assembler) AssembleDaily(ctx context.Context) *DailyContext {
	rc := observability.Ctx(ctx, "assemble")
	now := a.now()
	out := &DailyContext{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if !a.gate.Settings().HasGivenAIConsent {
			return nil
		}
		if prof, err := snapshot.BuildUserProfile(gctx, a.store); err != nil {
			rc.Warn("user profile unavailable", slog.String("error", err.Error()))
		} else {
			out.Profile = prof
		}
		return nil
	})
	g.Go(func() error {
		if !a.gate.Allowed(privacy.CategoryMood) {
			return nil
		}
		if moods, err := snapshot.BuildTodayMoods(gctx, a.store, now); err != nil {
			rc.Warn("moods unavailable", slog.String("error", err.Error()))
		} else {
			out.TodayMoods = moods
		}
		if trend, err := snapshot.BuildMoodTrend(gctx, a.store, now, 7); err != nil {
			rc.Warn("mood trend unavailable", slog.String("error", err.Error()))
		} else {
			out.MoodTrend = trend
		}
		return nil
	})
	g.Go(func() error {
		if !a.gate.Allowed(privacy.CategoryGoals) {
			return nil
		}
		if goals, err := snapshot.BuildActiveGoals(gctx, a.store, now); err != nil {
			rc.Warn("goals unavailable", slog.String("error", err.Error()))
		} else {
			out.Goals = goals
		}
		if habits, err := snapshot.BuildHabits(gctx, a.store); err != nil {
			rc.Warn("habits unavailable", slog.String("error", err.Error()))
		} else {
			out.Habits = habits
		}
		return nil
	})
	g.Go(func() error {
		if !a.gate.Allowed(privacy.CategoryLocation) {
			return nil
		}
		if loc, err := snapshot.BuildLocationPattern(gctx, a.store, now); err != nil {
			rc.Warn("location pattern unavailable", slog.String("error", err.Error()))
		} else {
			out.Location = loc
		}
		return nil
	})
	g.Go(func() error {
		if !a.gate.Allowed(privacy.CategoryJournal) {
			return nil
		}
		if entries, err := snapshot.BuildRecentJournal(gctx, a.store, now, recentJournalDays); err != nil {
			rc.Warn("journal unavailable", slog.String("error", err.Error()))
		} else {
			out.RecentJournal = entries
		}
		return nil
	})
	g.Go(func() error {
		if !a.gate.Allowed(privacy.CategoryFriends) {
			return nil
		}
		out.OverdueFriends = a.overdueFriends(gctx, rc, now)
		return nil
	})
	g.Go(func() error {
		out.Facts = a.loadFacts(gctx, rc, "")
		return nil
	})
	_ = g.Wait()

	a.recordUsage(ctx, len(out.OverdueFriends), len(out.Goals), len(out.Habits), len(out.Facts),
		len(out.TodayMoods) > 0 || out.MoodTrend != nil, out.Location != nil)
	return out
}

func (a *Assembler) allFriends(ctx context.Context, rc *observability.RequestContext, now time.Time) []snapshot.Friend {
	friends, err := snapshot.BuildAllFriends(ctx, a.store, now)
	if err != nil {
		rc.Warn("friends unavailable", slog.String("error", err.Error()))
		return nil
	}
	return friends
}

func (a *Assembler) overdueFriends(ctx context.Context, rc *observability.RequestContext, now time.Time) []snapshot.Friend {
	friends, err := snapshot.BuildOverdueFriends(ctx, a.store, now)
	if err != nil {
		rc.Warn("friends unavailable", slog.String("error", err.Error()))
		return nil
	}
	return friends
}

func (a *Assembler) loadFacts(ctx context.Context, rc *observability.RequestContext, question string) []*store.KnowledgeFact {
	if !a.gate.FeatureEnabled(privacy.FeatureLearning) {
		return nil
	}
	facts, err := a.store.ListKnowledgeFacts(ctx, &store.FindKnowledgeFact{OnlyActive: true})
	if err != nil {
		rc.Warn("knowledge facts unavailable", slog.String("error", err.Error()))
		return nil
	}
	return a.relevance.Filter(facts, question)
}

func (a *Assembler) recordUsage(ctx context.Context, friends, goals, habits, facts int, hasMood, hasLocation bool) {
	a.gate.RecordDataUsage(ctx, &privacy.DataUsage{
		FriendsCount:    friends,
		GoalsCount:      goals,
		HabitsCount:     habits,
		FactsCount:      facts,
		HasMoodData:     hasMood,
		HasLocationData: hasLocation,
		Timestamp:       a.now(),
	})
}
