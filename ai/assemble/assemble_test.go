package assemble

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezginpak/lifestyles/ai/intent"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/store"
	"github.com/sezginpak/lifestyles/store/teststore"
)

func consentedSettings() *privacy.Settings {
	s := privacy.DefaultSettings()
	s.HasGivenAIConsent = true
	return s
}

func populatedStore() *teststore.Store {
	ts := teststore.New()
	now := time.Now()
	old := now.Add(-40 * 24 * time.Hour)
	recent := now.Add(-1 * 24 * time.Hour)
	ts.Friends = []*store.Friend{
		{Name: "Ayşe", Relationship: "friend", Frequency: "weekly", LastContactAt: &old},
		{Name: "Mert", Relationship: "friend", Frequency: "weekly", LastContactAt: &recent},
	}
	ts.MoodEntries = []*store.MoodEntry{
		{MoodType: "happy", Intensity: 4, Timestamp: now.Add(-2 * time.Hour)},
	}
	ts.Goals = []*store.Goal{{Title: "learn go", Category: "career", Progress: 0.5}}
	ts.Habits = []*store.Habit{{Name: "running", Frequency: "daily", CurrentStreak: 3}}
	ts.LocationLogs = []*store.LocationLog{{Timestamp: now.Add(-time.Hour), Kind: "home"}}
	ts.JournalEntries = []*store.JournalEntry{{Timestamp: now.Add(-3 * time.Hour), Content: "good day", Kind: "daily"}}
	ts.Profile = &store.UserProfile{Name: "Sezgin", City: "Istanbul"}
	ts.Facts = []*store.KnowledgeFact{
		{ID: "f1", Category: "preference", Key: "likes", Value: "coffee", Confidence: 0.9, IsActive: true, CreatedAt: now},
	}
	return ts
}

func TestAssembleChatGeneralSkipsFriends(t *testing.T) {
	a := New(populatedStore(), privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleChat(context.Background(), "how was my mood lately?", nil)
	assert.Equal(t, intent.IntentGeneral, got.Intent)
	assert.Nil(t, got.Friends)
	assert.NotNil(t, got.MoodTrend)
	assert.NotEmpty(t, got.Goals)
}

func TestAssembleChatFriendsListLoadsAll(t *testing.T) {
	a := New(populatedStore(), privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleChat(context.Background(), "arkadaşlarımı göster", nil)
	assert.Equal(t, intent.IntentFriendsList, got.Intent)
	assert.Len(t, got.Friends, 2)
}

func TestAssembleChatContactAdviceLoadsOverdueOnly(t *testing.T) {
	a := New(populatedStore(), privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleChat(context.Background(), "who should I call today?", nil)
	assert.Equal(t, intent.IntentContactAdvice, got.Intent)
	require.Len(t, got.Friends, 1)
	assert.Equal(t, "Ayşe", got.Friends[0].Name)
	assert.True(t, got.Friends[0].IsOverdue)
}

func TestAssembleChatTargetedSkipsClassification(t *testing.T) {
	ts := populatedStore()
	a := New(ts, privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleChat(context.Background(), "arkadaşlarımı göster", ts.Friends[0])
	assert.Equal(t, intent.IntentGeneral, got.Intent)
	require.NotNil(t, got.TargetFriend)
	assert.Equal(t, "Ayşe", got.TargetFriend.Name)
	assert.Nil(t, got.Friends)
}

func TestAssembleChatDisabledCategoryStaysAbsent(t *testing.T) {
	s := consentedSettings()
	s.ShareMoodData = false
	s.ShareLocationData = false
	a := New(populatedStore(), privacy.NewGateWithSettings(s), nil)

	got := a.AssembleChat(context.Background(), "how am I doing?", nil)
	assert.Nil(t, got.CurrentMood)
	assert.Nil(t, got.MoodTrend)
	assert.Nil(t, got.Location)
	assert.NotEmpty(t, got.Goals, "enabled categories still load")
}

func TestAssembleChatWithoutConsentSharesNothing(t *testing.T) {
	a := New(populatedStore(), privacy.NewGateWithSettings(privacy.DefaultSettings()), nil)

	got := a.AssembleChat(context.Background(), "how am I doing?", nil)
	assert.Nil(t, got.MoodTrend)
	assert.Nil(t, got.Goals)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.TodayJournal)
	assert.Nil(t, got.Facts)
}

func TestAssembleChatMinimalModeSkipsCategories(t *testing.T) {
	s := consentedSettings()
	s.ContextMode = privacy.ContextModeMinimal
	a := New(populatedStore(), privacy.NewGateWithSettings(s), nil)

	got := a.AssembleChat(context.Background(), "how is my mood?", nil)
	assert.Nil(t, got.MoodTrend)
	assert.Nil(t, got.Goals)
	assert.Nil(t, got.Profile)
}

func TestAssembleChatFullModeLoadsFriendsRegardlessOfIntent(t *testing.T) {
	s := consentedSettings()
	s.ContextMode = privacy.ContextModeFull
	a := New(populatedStore(), privacy.NewGateWithSettings(s), nil)

	got := a.AssembleChat(context.Background(), "what should I eat?", nil)
	assert.Equal(t, intent.IntentGeneral, got.Intent)
	assert.Len(t, got.Friends, 2)
}

func TestAssembleChatFetchFailureDegradesToAbsent(t *testing.T) {
	ts := populatedStore()
	ts.FailMoods = true
	a := New(ts, privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleChat(context.Background(), "how am I doing?", nil)
	require.NotNil(t, got)
	assert.Nil(t, got.CurrentMood)
	assert.Nil(t, got.MoodTrend)
	assert.NotEmpty(t, got.Goals, "other categories unaffected")
}

func TestAssembleChatFactsFollowLearningToggle(t *testing.T) {
	s := consentedSettings()
	s.LearningEnabled = false
	a := New(populatedStore(), privacy.NewGateWithSettings(s), nil)

	got := a.AssembleChat(context.Background(), "do I like coffee?", nil)
	assert.Nil(t, got.Facts)

	s.LearningEnabled = true
	a = New(populatedStore(), privacy.NewGateWithSettings(s), nil)
	got = a.AssembleChat(context.Background(), "do I like coffee?", nil)
	assert.Len(t, got.Facts, 1)
}

func TestAssembleChatRecordsDataUsage(t *testing.T) {
	gate := privacy.NewGateWithSettings(consentedSettings())
	a := New(populatedStore(), gate, nil)

	a.AssembleChat(context.Background(), "arkadaşlarımı göster", nil)
	usage := gate.Settings().LastRequestDataUsage
	require.NotNil(t, usage)
	assert.Equal(t, 2, usage.FriendsCount)
	assert.True(t, usage.HasMoodData)
}

func TestAssembleDaily(t *testing.T) {
	a := New(populatedStore(), privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleDaily(context.Background())
	require.NotNil(t, got)
	assert.NotNil(t, got.MoodTrend)
	assert.NotEmpty(t, got.TodayMoods)
	assert.NotEmpty(t, got.Goals)
	assert.NotEmpty(t, got.Habits)
	assert.NotNil(t, got.Location)
	assert.NotEmpty(t, got.RecentJournal)
	require.Len(t, got.OverdueFriends, 1)
	assert.Equal(t, "Ayşe", got.OverdueFriends[0].Name)
}

func TestAssembleDailyAllFailuresStillReturnContext(t *testing.T) {
	ts := populatedStore()
	ts.FailFriends = true
	ts.FailMoods = true
	ts.FailGoals = true
	ts.FailHabits = true
	ts.FailLocation = true
	ts.FailJournal = true
	ts.FailFacts = true
	a := New(ts, privacy.NewGateWithSettings(consentedSettings()), nil)

	got := a.AssembleDaily(context.Background())
	require.NotNil(t, got)
	assert.Nil(t, got.MoodTrend)
	assert.Nil(t, got.Goals)
	assert.Nil(t, got.OverdueFriends)
}
