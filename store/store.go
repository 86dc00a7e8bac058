// Package store defines the read-only collaborator interface over the user's
// structured life data, plus the knowledge fact records the pipeline persists.
// The pipeline has no knowledge of the underlying storage engine; callers
// inject an implementation.
package store

import (
	"context"
	"time"
)

// Friend is a tracked relationship record.
type Friend struct {
	Name            string
	Relationship    string // "friend", "family", "partner", ...
	Frequency       string // desired contact cadence: "daily", "weekly", "biweekly", "monthly"
	LastContactAt   *time.Time
	Notes           string
	SharedInterests string
	IsImportant     bool
	ContactCount    int
}

// MoodEntry is a single mood log.
type MoodEntry struct {
	MoodType  string
	Intensity int // 1..5
	Timestamp time.Time
	Note      string
}

// Goal is a tracked personal goal.
type Goal struct {
	Title       string
	Category    string
	Progress    float64 // 0..1
	DueDate     *time.Time
	IsCompleted bool
}

// Habit is a tracked recurring habit.
type Habit struct {
	Name                 string
	Frequency            string
	CurrentStreak        int
	WeeklyCompletionRate float64 // 0..1
	LastCompletedAt      *time.Time
}

// LocationLog is one periodic location sample (~15 minute granularity).
type LocationLog struct {
	Timestamp time.Time
	Kind      string // "home", "work", "outdoor", ...
	Address   string
}

// SavedPlace is a user-bookmarked location.
type SavedPlace struct {
	Name        string
	Emoji       string
	Category    string
	Address     string
	VisitCount  int
	LastVisitAt *time.Time
	Notes       string
}

// JournalEntry is a journal record.
type JournalEntry struct {
	Timestamp  time.Time
	Title      string
	Content    string
	Kind       string
	Tags       []string
	WordCount  int
	IsFavorite bool
}

// UserProfile is the user's self-reported profile.
type UserProfile struct {
	Name       string
	Age        int
	Occupation string
	City       string
}

// KnowledgeFact is a durable, confidence-scored piece of user information
// derived from conversations.
type KnowledgeFact struct {
	ID              string
	Category        string
	Key             string
	Value           string
	Confidence      float64 // 0..1
	Source          string  // "user_told", "inferred", "pattern", "ai_extracted"
	CreatedAt       time.Time
	LastConfirmedAt *time.Time
	TimesReferenced int
	IsActive        bool
}

// FindMoodEntry filters mood entry queries.
type FindMoodEntry struct {
	Since *time.Time
	Until *time.Time
}

// FindGoal filters goal queries.
type FindGoal struct {
	ExcludeCompleted bool
}

// FindLocationLog filters location log queries.
type FindLocationLog struct {
	Since *time.Time
}

// FindJournalEntry filters journal queries.
type FindJournalEntry struct {
	Since *time.Time
}

// FindKnowledgeFact filters knowledge fact queries.
type FindKnowledgeFact struct {
	Category   *string
	Key        *string
	OnlyActive bool
}

// UpdateKnowledgeFact carries a partial fact update.
type UpdateKnowledgeFact struct {
	ID              string
	Value           *string
	Confidence      *float64
	Source          *string
	IsActive        *bool
	TimesReferenced *int
	LastConfirmedAt *time.Time
}

// Store is the injected data collaborator. All list methods return an empty
// slice (never an error) when no data exists; errors indicate real fetch
// failures, which the assembler degrades to "category unavailable".
type Store interface {
	ListFriends(ctx context.Context) ([]*Friend, error)
	ListMoodEntries(ctx context.Context, find *FindMoodEntry) ([]*MoodEntry, error)
	ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error)
	ListHabits(ctx context.Context) ([]*Habit, error)
	ListLocationLogs(ctx context.Context, find *FindLocationLog) ([]*LocationLog, error)
	ListSavedPlaces(ctx context.Context) ([]*SavedPlace, error)
	ListJournalEntries(ctx context.Context, find *FindJournalEntry) ([]*JournalEntry, error)
	GetUserProfile(ctx context.Context) (*UserProfile, error)

	ListKnowledgeFacts(ctx context.Context, find *FindKnowledgeFact) ([]*KnowledgeFact, error)
	CreateKnowledgeFact(ctx context.Context, create *KnowledgeFact) (*KnowledgeFact, error)
	UpdateKnowledgeFact(ctx context.Context, update *UpdateKnowledgeFact) error
}
