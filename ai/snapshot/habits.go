package snapshot

import (
	"context"

	"github.com/sezginpak/lifestyles/store"
)

// BuildHabits projects every tracked habit.
func BuildHabits(ctx context.Context, s store.Store) ([]Habit, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Habit, 0, len(habits))
	for _, h := range habits {
		out = append(out, Habit{
			Name:                 h.Name,
			Frequency:            h.Frequency,
			CurrentStreak:        h.CurrentStreak,
			WeeklyCompletionRate: h.WeeklyCompletionRate,
			LastCompletedAt:      h.LastCompletedAt,
		})
	}
	return out, nil
}
