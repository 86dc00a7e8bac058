// Package teststore provides an in-memory store.Store used by tests.
package teststore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sezginpak/lifestyles/store"
)

// Store is an in-memory fixture implementation of store.Store. Populate the
// exported slices directly; set Fail* flags to simulate per-category fetch
// failures.
type Store struct {
	mu sync.Mutex

	Friends        []*store.Friend
	MoodEntries    []*store.MoodEntry
	Goals          []*store.Goal
	Habits         []*store.Habit
	LocationLogs   []*store.LocationLog
	SavedPlaces    []*store.SavedPlace
	JournalEntries []*store.JournalEntry
	Profile        *store.UserProfile
	Facts          []*store.KnowledgeFact

	FailFriends  bool
	FailMoods    bool
	FailGoals    bool
	FailHabits   bool
	FailLocation bool
	FailJournal  bool
	FailFacts    bool
}

type fetchError struct{ category string }

func (e *fetchError) Error() string { return "fetch failed: " + e.category }

// New creates an empty fixture store.
func New() *Store {
	return &Store{}
}

func (s *Store) ListFriends(context.Context) ([]*store.Friend, error) {
	if s.FailFriends {
		return nil, &fetchError{"friends"}
	}
	return s.Friends, nil
}

func (s *Store) ListMoodEntries(_ context.Context, find *store.FindMoodEntry) ([]*store.MoodEntry, error) {
	if s.FailMoods {
		return nil, &fetchError{"moods"}
	}
	var out []*store.MoodEntry
	for _, e := range s.MoodEntries {
		if find != nil && find.Since != nil && e.Timestamp.Before(*find.Since) {
			continue
		}
		if find != nil && find.Until != nil && !e.Timestamp.Before(*find.Until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListGoals(_ context.Context, find *store.FindGoal) ([]*store.Goal, error) {
	if s.FailGoals {
		return nil, &fetchError{"goals"}
	}
	var out []*store.Goal
	for _, g := range s.Goals {
		if find != nil && find.ExcludeCompleted && g.IsCompleted {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *Store) ListHabits(context.Context) ([]*store.Habit, error) {
	if s.FailHabits {
		return nil, &fetchError{"habits"}
	}
	return s.Habits, nil
}

func (s *Store) ListLocationLogs(_ context.Context, find *store.FindLocationLog) ([]*store.LocationLog, error) {
	if s.FailLocation {
		return nil, &fetchError{"location"}
	}
	var out []*store.LocationLog
	for _, l := range s.LocationLogs {
		if find != nil && find.Since != nil && l.Timestamp.Before(*find.Since) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) ListSavedPlaces(context.Context) ([]*store.SavedPlace, error) {
	if s.FailLocation {
		return nil, &fetchError{"saved places"}
	}
	return s.SavedPlaces, nil
}

func (s *Store) ListJournalEntries(_ context.Context, find *store.FindJournalEntry) ([]*store.JournalEntry, error) {
	if s.FailJournal {
		return nil, &fetchError{"journal"}
	}
	var out []*store.JournalEntry
	for _, e := range s.JournalEntries {
		if find != nil && find.Since != nil && e.Timestamp.Before(*find.Since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) GetUserProfile(context.Context) (*store.UserProfile, error) {
	return s.Profile, nil
}

func (s *Store) ListKnowledgeFacts(_ context.Context, find *store.FindKnowledgeFact) ([]*store.KnowledgeFact, error) {
	if s.FailFacts {
		return nil, &fetchError{"facts"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*store.KnowledgeFact
	for _, f := range s.Facts {
		if find != nil && find.OnlyActive && !f.IsActive {
			continue
		}
		if find != nil && find.Category != nil && f.Category != *find.Category {
			continue
		}
		if find != nil && find.Key != nil && f.Key != *find.Key {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Store) CreateKnowledgeFact(_ context.Context, create *store.KnowledgeFact) (*store.KnowledgeFact, error) {
	if s.FailFacts {
		return nil, &fetchError{"facts"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *create
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.Facts = append(s.Facts, &cp)
	return &cp, nil
}

func (s *Store) UpdateKnowledgeFact(_ context.Context, update *store.UpdateKnowledgeFact) error {
	if s.FailFacts {
		return &fetchError{"facts"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Facts {
		if f.ID != update.ID {
			continue
		}
		if update.Value != nil {
			f.Value = *update.Value
		}
		if update.Confidence != nil {
			f.Confidence = *update.Confidence
		}
		if update.Source != nil {
			f.Source = *update.Source
		}
		if update.IsActive != nil {
			f.IsActive = *update.IsActive
		}
		if update.TimesReferenced != nil {
			f.TimesReferenced = *update.TimesReferenced
		}
		if update.LastConfirmedAt != nil {
			f.LastConfirmedAt = update.LastConfirmedAt
		}
		return nil
	}
	return &fetchError{"fact not found"}
}

var _ store.Store = (*Store)(nil)
