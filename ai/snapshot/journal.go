package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/sezginpak/lifestyles/store"
)

// BuildRecentJournal projects journal entries from the last `days` days,
// newest first.
func BuildRecentJournal(ctx context.Context, s store.Store, now time.Time, days int) ([]Journal, error) {
	if days <= 0 {
		days = 7
	}
	since := now.AddDate(0, 0, -days)
	entries, err := s.ListJournalEntries(ctx, &store.FindJournalEntry{Since: &since})
	if err != nil {
		return nil, err
	}
	out := make([]Journal, 0, len(entries))
	for _, e := range entries {
		out = append(out, projectJournal(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// BuildTodayJournal returns today's most recent journal entry, or nil.
func BuildTodayJournal(ctx context.Context, s store.Store, now time.Time) (*Journal, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	entries, err := s.ListJournalEntries(ctx, &store.FindJournalEntry{Since: &startOfDay})
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
	j := projectJournal(latest)
	return &j, nil
}

func projectJournal(e *store.JournalEntry) Journal {
	return Journal{
		Date:       e.Timestamp,
		Title:      e.Title,
		Content:    e.Content,
		Type:       e.Kind,
		Tags:       e.Tags,
		WordCount:  e.WordCount,
		IsFavorite: e.IsFavorite,
	}
}
