package snapshot

import (
	"context"
	"time"

	"github.com/sezginpak/lifestyles/store"
)

// contactIntervalDays maps a desired contact cadence to its interval.
// Unknown cadences fall back to monthly.
func contactIntervalDays(frequency string) int {
	switch frequency {
	case "daily":
		return 1
	case "weekly":
		return 7
	case "biweekly":
		return 14
	case "monthly":
		return 30
	default:
		return 30
	}
}

// BuildFriend projects a single friend record.
func BuildFriend(f *store.Friend, now time.Time) Friend {
	days := DaysSince(f.LastContactAt, now)
	return Friend{
		Name:                 f.Name,
		RelationshipType:     f.Relationship,
		DaysSinceLastContact: days,
		IsOverdue:            days > contactIntervalDays(f.Frequency),
		Frequency:            f.Frequency,
		Notes:                f.Notes,
		SharedInterests:      f.SharedInterests,
		IsImportant:          f.IsImportant,
	}
}

// BuildAllFriends projects every friend in the store.
func BuildAllFriends(ctx context.Context, s store.Store, now time.Time) ([]Friend, error) {
	friends, err := s.ListFriends(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(friends))
	for _, f := range friends {
		out = append(out, BuildFriend(f, now))
	}
	return out, nil
}

// BuildOverdueFriends projects only friends whose contact cadence has lapsed.
func BuildOverdueFriends(ctx context.Context, s store.Store, now time.Time) ([]Friend, error) {
	all, err := BuildAllFriends(ctx, s, now)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(all))
	for _, f := range all {
		if f.IsOverdue {
			out = append(out, f)
		}
	}
	return out, nil
}
