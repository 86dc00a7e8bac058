// Package snapshot projects the structured life-data store into small,
// immutable, serializable shapes for prompt context. Builders are stateless
// and independently callable; they never check privacy (the gate upstream
// decides what gets built) and never fail on empty data.
package snapshot

import (
	"time"
)

// MissingDateDays is the sentinel "maximally overdue" day count used when a
// record has no relevant date at all.
const MissingDateDays = 999

// Friend is the per-friend context projection.
type Friend struct {
	Name                 string `json:"name"`
	RelationshipType     string `json:"relationshipType"`
	DaysSinceLastContact int    `json:"daysSinceLastContact"`
	IsOverdue            bool   `json:"isOverdue"`
	Frequency            string `json:"communicationFrequency"`
	Notes                string `json:"notes,omitempty"`
	SharedInterests      string `json:"sharedInterests,omitempty"`
	IsImportant          bool   `json:"isImportant"`
}

// Mood is a single mood observation.
type Mood struct {
	Type      string    `json:"type"`
	Intensity int       `json:"intensity"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
}

// MoodTrend summarizes the recent mood window.
type MoodTrend struct {
	AverageIntensity float64    `json:"averageIntensity"`
	DominantMood     string     `json:"dominantMood"`
	Variance         string     `json:"moodVariance"` // "positive", "stable", "needs_attention"
	BestDay          *time.Time `json:"bestDay,omitempty"`
	WorstDay         *time.Time `json:"worstDay,omitempty"`
}

// Goal is the per-goal context projection.
type Goal struct {
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Progress      float64 `json:"progress"` // 0..1
	DaysRemaining int     `json:"daysRemaining"`
	IsOverdue     bool    `json:"isOverdue"`
}

// Habit is the per-habit context projection.
type Habit struct {
	Name                 string     `json:"name"`
	Frequency            string     `json:"frequency"`
	CurrentStreak        int        `json:"currentStreak"`
	WeeklyCompletionRate float64    `json:"weeklyCompletionRate"`
	LastCompletedAt      *time.Time `json:"lastCompletedDate,omitempty"`
}

// SavedPlace is a bookmarked location projection.
type SavedPlace struct {
	Name        string     `json:"name"`
	Emoji       string     `json:"emoji,omitempty"`
	Category    string     `json:"category"`
	Address     string     `json:"address,omitempty"`
	VisitCount  int        `json:"visitCount"`
	LastVisitAt *time.Time `json:"lastVisitedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// LocationPattern summarizes recent movement.
type LocationPattern struct {
	HoursAtHomeToday    float64      `json:"hoursAtHomeToday"`
	HoursAtHomeThisWeek float64      `json:"hoursAtHomeThisWeek"`
	LastOutdoorActivity *time.Time   `json:"lastOutdoorActivity,omitempty"`
	MostVisitedPlaces   []string     `json:"mostVisitedPlaces,omitempty"`
	SavedPlaces         []SavedPlace `json:"savedPlaces,omitempty"`
}

// Journal is a journal entry projection.
type Journal struct {
	Date       time.Time `json:"date"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Tags       []string  `json:"tags,omitempty"`
	WordCount  int       `json:"wordCount"`
	IsFavorite bool      `json:"isFavorite"`
}

// UserProfile is the user's self-description projection.
type UserProfile struct {
	Name       string `json:"name,omitempty"`
	Age        int    `json:"age,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	City       string `json:"city,omitempty"`
}

// DaysSince returns whole days between t and now, clamped to zero for future
// dates. A nil date means "maximally overdue" and yields MissingDateDays.
func DaysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return MissingDateDays
	}
	days := int(now.Sub(*t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
