package snapshot

import (
	"context"
	"time"

	"github.com/sezginpak/lifestyles/store"
)

// BuildActiveGoals projects every goal that is not yet completed.
func BuildActiveGoals(ctx context.Context, s store.Store, now time.Time) ([]Goal, error) {
	goals, err := s.ListGoals(ctx, &store.FindGoal{ExcludeCompleted: true})
	if err != nil {
		return nil, err
	}
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, projectGoal(g, now))
	}
	return out, nil
}

func projectGoal(g *store.Goal, now time.Time) Goal {
	daysRemaining := 0
	overdue := false
	if g.DueDate != nil {
		daysRemaining = int(g.DueDate.Sub(now).Hours() / 24)
		if daysRemaining < 0 {
			daysRemaining = 0
			overdue = !g.IsCompleted
		}
	} else {
		// No deadline means the goal can never be overdue.
		daysRemaining = MissingDateDays
	}
	return Goal{
		Title:         g.Title,
		Category:      g.Category,
		Progress:      g.Progress,
		DaysRemaining: daysRemaining,
		IsOverdue:     overdue,
	}
}
