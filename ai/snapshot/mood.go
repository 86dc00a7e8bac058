package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/sezginpak/lifestyles/store"
)

// BuildCurrentMood returns today's most recent mood entry, or nil when the
// user has not logged a mood today.
func BuildCurrentMood(ctx context.Context, s store.Store, now time.Time) (*Mood, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	entries, err := s.ListMoodEntries(ctx, &store.FindMoodEntry{Since: &startOfDay})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	m := projectMood(latest)
	return &m, nil
}

// BuildTodayMoods returns all of today's mood entries, oldest first.
func BuildTodayMoods(ctx context.Context, s store.Store, now time.Time) ([]Mood, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	entries, err := s.ListMoodEntries(ctx, &store.FindMoodEntry{Since: &startOfDay, Until: &endOfDay})
	if err != nil {
		return nil, err
	}
	out := make([]Mood, 0, len(entries))
	for _, e := range entries {
		out = append(out, projectMood(e))
	}
	sortMoodsByDate(out)
	return out, nil
}

// BuildMoodTrend summarizes the last `days` days of mood entries.
// Returns nil when the window has no entries.
func BuildMoodTrend(ctx context.Context, s store.Store, now time.Time, days int) (*MoodTrend, error) {
	if days <= 0 {
		days = 7
	}
	since := now.AddDate(0, 0, -days)
	entries, err := s.ListMoodEntries(ctx, &store.FindMoodEntry{Since: &since})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sum := 0
	counts := make(map[string]int)
	best, worst := entries[0], entries[0]
	for _, e := range entries {
		sum += e.Intensity
		counts[e.MoodType]++
		if e.Intensity > best.Intensity {
			best = e
		}
		if e.Intensity < worst.Intensity {
			worst = e
		}
	}
	avg := float64(sum) / float64(len(entries))

	dominant := ""
	dominantCount := 0
	for mood, c := range counts {
		if c > dominantCount || (c == dominantCount && mood < dominant) {
			dominant = mood
			dominantCount = c
		}
	}

	variance := "needs_attention"
	switch {
	case avg >= 4:
		variance = "positive"
	case avg >= 3:
		variance = "stable"
	}

	bestDay := best.Timestamp
	worstDay := worst.Timestamp
	return &MoodTrend{
		AverageIntensity: avg,
		DominantMood:     dominant,
		Variance:         variance,
		BestDay:          &bestDay,
		WorstDay:         &worstDay,
	}, nil
}

func projectMood(e *store.MoodEntry) Mood {
	return Mood{
		Type:      e.MoodType,
		Intensity: e.Intensity,
		Date:      e.Timestamp,
		Note:      e.Note,
	}
}

func sortMoodsByDate(moods []Mood) {
	sort.Slice(moods, func(i, j int) bool {
		return moods[i].Date.Before(moods[j].Date)
	})
}
