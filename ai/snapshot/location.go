package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/sezginpak/lifestyles/store"
)

// Location logs are sampled roughly every 15 minutes, so each home-tagged
// entry accounts for a quarter hour.
const hoursPerLog = 0.25

const (
	maxVisitedPlaces = 3
	maxSavedPlaces   = 5
)

// BuildLocationPattern summarizes this week's movement. An empty store yields
// a zero-valued pattern, never an error.
func BuildLocationPattern(ctx context.Context, s store.Store, now time.Time) (*LocationPattern, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Week starts on Monday.
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	startOfWeek := startOfDay.AddDate(0, 0, -(weekday - 1))

	weekLogs, err := s.ListLocationLogs(ctx, &store.FindLocationLog{Since: &startOfWeek})
	if err != nil {
		return nil, err
	}

	pattern := &LocationPattern{}
	seen := make(map[string]bool)
	for _, l := range weekLogs {
		atHome := l.Kind == "home"
		if atHome {
			pattern.HoursAtHomeThisWeek += hoursPerLog
			if !l.Timestamp.Before(startOfDay) {
				pattern.HoursAtHomeToday += hoursPerLog
			}
		} else {
			ts := l.Timestamp
			if pattern.LastOutdoorActivity == nil || ts.After(*pattern.LastOutdoorActivity) {
				pattern.LastOutdoorActivity = &ts
			}
		}
		if l.Address != "" && !seen[l.Address] && len(pattern.MostVisitedPlaces) < maxVisitedPlaces {
			seen[l.Address] = true
			pattern.MostVisitedPlaces = append(pattern.MostVisitedPlaces, l.Address)
		}
	}

	saved, err := s.ListSavedPlaces(ctx)
	if err != nil {
		return nil, err
	}
	ranked := make([]*store.SavedPlace, len(saved))
	copy(ranked, saved)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].VisitCount > ranked[j].VisitCount })
	for _, p := range ranked {
		if len(pattern.SavedPlaces) >= maxSavedPlaces {
			break
		}
		pattern.SavedPlaces = append(pattern.SavedPlaces, SavedPlace{
			Name:        p.Name,
			Emoji:       p.Emoji,
			Category:    p.Category,
			Address:     p.Address,
			VisitCount:  p.VisitCount,
			LastVisitAt: p.LastVisitAt,
			Notes:       p.Notes,
		})
	}

	return pattern, nil
}
