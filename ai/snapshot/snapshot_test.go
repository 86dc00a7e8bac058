package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezginpak/lifestyles/store"
	"github.com/sezginpak/lifestyles/store/teststore"
)

var now = time.Date(2025, 6, 18, 14, 30, 0, 0, time.Local) // a Wednesday

func daysAgo(n int) *time.Time {
	t := now.AddDate(0, 0, -n)
	return &t
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, MissingDateDays, DaysSince(nil, now), "missing date is maximally overdue")

	past := now.AddDate(0, 0, -3)
	assert.Equal(t, 3, DaysSince(&past, now))

	future := now.AddDate(0, 0, 2)
	assert.Equal(t, 0, DaysSince(&future, now), "future dates clamp to zero")
}

func TestBuildFriendOverduePerCadence(t *testing.T) {
	tests := []struct {
		frequency   string
		daysAgo     int
		wantOverdue bool
	}{
		{"daily", 1, false},
		{"daily", 2, true},
		{"weekly", 7, false},
		{"weekly", 8, true},
		{"biweekly", 14, false},
		{"biweekly", 15, true},
		{"monthly", 30, false},
		{"monthly", 31, true},
		{"whenever", 30, false}, // unknown cadence falls back to monthly
		{"whenever", 31, true},
	}
	for _, tt := range tests {
		f := BuildFriend(&store.Friend{Name: "Ada", Frequency: tt.frequency, LastContactAt: daysAgo(tt.daysAgo)}, now)
		assert.Equal(t, tt.wantOverdue, f.IsOverdue, "%s after %d days", tt.frequency, tt.daysAgo)
		assert.Equal(t, tt.daysAgo, f.DaysSinceLastContact)
	}
}

func TestBuildFriendNeverContacted(t *testing.T) {
	f := BuildFriend(&store.Friend{Name: "Ada", Frequency: "monthly"}, now)
	assert.Equal(t, MissingDateDays, f.DaysSinceLastContact)
	assert.True(t, f.IsOverdue)
}

func TestBuildOverdueFriends(t *testing.T) {
	s := teststore.New()
	s.Friends = []*store.Friend{
		{Name: "Fresh", Frequency: "weekly", LastContactAt: daysAgo(2)},
		{Name: "Lapsed", Frequency: "weekly", LastContactAt: daysAgo(10)},
		{Name: "Silent", Frequency: "monthly"},
	}

	out, err := BuildOverdueFriends(context.Background(), s, now)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Lapsed", out[0].Name)
	assert.Equal(t, "Silent", out[1].Name)
}

func TestBuildAllFriendsEmptyStore(t *testing.T) {
	out, err := BuildAllFriends(context.Background(), teststore.New(), now)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBuildCurrentMood(t *testing.T) {
	s := teststore.New()

	mood, err := BuildCurrentMood(context.Background(), s, now)
	require.NoError(t, err)
	assert.Nil(t, mood, "no entries means no current mood, not an error")

	s.MoodEntries = []*store.MoodEntry{
		{MoodType: "tired", Intensity: 2, Timestamp: now.Add(-6 * time.Hour)},
		{MoodType: "happy", Intensity: 4, Timestamp: now.Add(-1 * time.Hour)},
		{MoodType: "calm", Intensity: 3, Timestamp: now.AddDate(0, 0, -1)}, // yesterday
	}
	mood, err = BuildCurrentMood(context.Background(), s, now)
	require.NoError(t, err)
	require.NotNil(t, mood)
	assert.Equal(t, "happy", mood.Type, "latest entry of today wins")
}

func TestBuildTodayMoodsOrdered(t *testing.T) {
	s := teststore.New()
	s.MoodEntries = []*store.MoodEntry{
		{MoodType: "happy", Intensity: 4, Timestamp: now.Add(-1 * time.Hour)},
		{MoodType: "tired", Intensity: 2, Timestamp: now.Add(-6 * time.Hour)},
	}

	moods, err := BuildTodayMoods(context.Background(), s, now)
	require.NoError(t, err)
	require.Len(t, moods, 2)
	assert.Equal(t, "tired", moods[0].Type, "oldest first")
	assert.Equal(t, "happy", moods[1].Type)
}

func TestBuildMoodTrendVarianceBands(t *testing.T) {
	tests := []struct {
		name        string
		intensities []int
		want        string
	}{
		{"positive at avg four", []int{4, 4, 4}, "positive"},
		{"stable at avg three", []int{3, 3, 3}, "stable"},
		{"needs attention below three", []int{2, 3, 2}, "needs_attention"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := teststore.New()
			for i, in := range tt.intensities {
				s.MoodEntries = append(s.MoodEntries, &store.MoodEntry{
					MoodType: "neutral", Intensity: in, Timestamp: now.Add(-time.Duration(i) * time.Hour),
				})
			}
			trend, err := BuildMoodTrend(context.Background(), s, now, 7)
			require.NoError(t, err)
			require.NotNil(t, trend)
			assert.Equal(t, tt.want, trend.Variance)
		})
	}
}

func TestBuildMoodTrendSummary(t *testing.T) {
	s := teststore.New()
	s.MoodEntries = []*store.MoodEntry{
		{MoodType: "happy", Intensity: 5, Timestamp: now.Add(-1 * time.Hour)},
		{MoodType: "happy", Intensity: 4, Timestamp: now.Add(-20 * time.Hour)},
		{MoodType: "stressed", Intensity: 2, Timestamp: *daysAgo(3)},
		{MoodType: "stressed", Intensity: 1, Timestamp: *daysAgo(10)}, // outside window
	}

	trend, err := BuildMoodTrend(context.Background(), s, now, 7)
	require.NoError(t, err)
	require.NotNil(t, trend)
	assert.InDelta(t, 11.0/3.0, trend.AverageIntensity, 0.001)
	assert.Equal(t, "happy", trend.DominantMood)
	require.NotNil(t, trend.BestDay)
	require.NotNil(t, trend.WorstDay)
	assert.Equal(t, now.Add(-1*time.Hour), *trend.BestDay)
	assert.Equal(t, *daysAgo(3), *trend.WorstDay)
}

func TestBuildMoodTrendDominantTieBreaksAlphabetically(t *testing.T) {
	s := teststore.New()
	s.MoodEntries = []*store.MoodEntry{
		{MoodType: "calm", Intensity: 3, Timestamp: now.Add(-1 * time.Hour)},
		{MoodType: "anxious", Intensity: 3, Timestamp: now.Add(-2 * time.Hour)},
	}

	trend, err := BuildMoodTrend(context.Background(), s, now, 7)
	require.NoError(t, err)
	assert.Equal(t, "anxious", trend.DominantMood)
}

func TestBuildMoodTrendEmptyWindow(t *testing.T) {
	trend, err := BuildMoodTrend(context.Background(), teststore.New(), now, 7)
	require.NoError(t, err)
	assert.Nil(t, trend)
}

func TestBuildActiveGoals(t *testing.T) {
	due := now.AddDate(0, 0, 5)
	past := now.AddDate(0, 0, -2)
	s := teststore.New()
	s.Goals = []*store.Goal{
		{Title: "Run a marathon", Category: "health", Progress: 0.4, DueDate: &due},
		{Title: "Ship the app", Category: "career", Progress: 0.9, DueDate: &past},
		{Title: "Read more", Category: "personal", Progress: 0.2},
		{Title: "Done already", Category: "career", Progress: 1.0, IsCompleted: true},
	}

	goals, err := BuildActiveGoals(context.Background(), s, now)
	require.NoError(t, err)
	require.Len(t, goals, 3, "completed goals are excluded")

	assert.Equal(t, 5, goals[0].DaysRemaining)
	assert.False(t, goals[0].IsOverdue)

	assert.Equal(t, 0, goals[1].DaysRemaining)
	assert.True(t, goals[1].IsOverdue)

	assert.Equal(t, MissingDateDays, goals[2].DaysRemaining, "no deadline")
	assert.False(t, goals[2].IsOverdue)
}

func TestBuildHabits(t *testing.T) {
	last := now.Add(-30 * time.Hour)
	s := teststore.New()
	s.Habits = []*store.Habit{
		{Name: "Meditation", Frequency: "daily", CurrentStreak: 12, WeeklyCompletionRate: 0.86, LastCompletedAt: &last},
	}

	habits, err := BuildHabits(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 12, habits[0].CurrentStreak)
	assert.Equal(t, &last, habits[0].LastCompletedAt)
}

func TestBuildLocationPattern(t *testing.T) {
	s := teststore.New()
	outdoor := now.Add(-3 * time.Hour)
	// 4 home samples today, 2 home samples Monday, 1 outdoor sample today.
	for i := 0; i < 4; i++ {
		s.LocationLogs = append(s.LocationLogs, &store.LocationLog{
			Timestamp: now.Add(-time.Duration(i) * time.Hour), Kind: "home",
		})
	}
	monday := now.AddDate(0, 0, -2)
	for i := 0; i < 2; i++ {
		s.LocationLogs = append(s.LocationLogs, &store.LocationLog{
			Timestamp: monday.Add(-time.Duration(i) * time.Hour), Kind: "home",
		})
	}
	s.LocationLogs = append(s.LocationLogs,
		&store.LocationLog{Timestamp: outdoor, Kind: "outdoor", Address: "Maçka Park"},
		&store.LocationLog{Timestamp: outdoor.Add(-time.Hour), Kind: "work", Address: "Office"},
		&store.LocationLog{Timestamp: outdoor.Add(-2 * time.Hour), Kind: "work", Address: "Office"},
		&store.LocationLog{Timestamp: outdoor.Add(-3 * time.Hour), Kind: "outdoor", Address: "Gym"},
		&store.LocationLog{Timestamp: outdoor.Add(-4 * time.Hour), Kind: "outdoor", Address: "Cafe"},
	)

	pattern, err := BuildLocationPattern(context.Background(), s, now)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pattern.HoursAtHomeToday, 0.001, "four quarter-hour samples")
	assert.InDelta(t, 1.5, pattern.HoursAtHomeThisWeek, 0.001)
	require.NotNil(t, pattern.LastOutdoorActivity)
	assert.Equal(t, outdoor, *pattern.LastOutdoorActivity)
	assert.Equal(t, []string{"Maçka Park", "Office", "Gym"}, pattern.MostVisitedPlaces, "deduped, capped at three")
}

func TestBuildLocationPatternSavedPlacesRankedByVisits(t *testing.T) {
	s := teststore.New()
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, n := range names {
		s.SavedPlaces = append(s.SavedPlaces, &store.SavedPlace{Name: n, VisitCount: i})
	}

	pattern, err := BuildLocationPattern(context.Background(), s, now)
	require.NoError(t, err)
	require.Len(t, pattern.SavedPlaces, 5)
	assert.Equal(t, "f", pattern.SavedPlaces[0].Name)
	assert.Equal(t, "b", pattern.SavedPlaces[4].Name, "least visited place drops off")
}

func TestBuildLocationPatternEmptyStore(t *testing.T) {
	pattern, err := BuildLocationPattern(context.Background(), teststore.New(), now)
	require.NoError(t, err)
	assert.Zero(t, pattern.HoursAtHomeToday)
	assert.Nil(t, pattern.LastOutdoorActivity)
	assert.Empty(t, pattern.MostVisitedPlaces)
}

func TestBuildRecentJournal(t *testing.T) {
	s := teststore.New()
	s.JournalEntries = []*store.JournalEntry{
		{Timestamp: *daysAgo(2), Content: "older", Kind: "daily"},
		{Timestamp: now.Add(-1 * time.Hour), Content: "newest", Kind: "daily"},
		{Timestamp: *daysAgo(10), Content: "ancient", Kind: "daily"},
	}

	entries, err := BuildRecentJournal(context.Background(), s, now, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2, "window excludes the ten-day-old entry")
	assert.Equal(t, "newest", entries[0].Content)
	assert.Equal(t, "older", entries[1].Content)
}

func TestBuildTodayJournal(t *testing.T) {
	s := teststore.New()
	j, err := BuildTodayJournal(context.Background(), s, now)
	require.NoError(t, err)
	assert.Nil(t, j)

	s.JournalEntries = []*store.JournalEntry{
		{Timestamp: now.Add(-5 * time.Hour), Content: "morning pages", Kind: "daily"},
		{Timestamp: now.Add(-1 * time.Hour), Content: "lunch note", Kind: "quick"},
	}
	j, err = BuildTodayJournal(context.Background(), s, now)
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, "lunch note", j.Content)
}

func TestBuildUserProfile(t *testing.T) {
	s := teststore.New()
	p, err := BuildUserProfile(context.Background(), s)
	require.NoError(t, err)
	assert.Nil(t, p)

	s.Profile = &store.UserProfile{Name: "Deniz", Age: 29, Occupation: "designer", City: "Izmir"}
	p, err = BuildUserProfile(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Deniz", p.Name)
	assert.Equal(t, 29, p.Age)
}
