package privacy

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezginpak/lifestyles/store/kv"
)

func consented() *Settings {
	s := DefaultSettings()
	s.HasGivenAIConsent = true
	return s
}

func TestAllowedRequiresConsent(t *testing.T) {
	g := NewGateWithSettings(DefaultSettings())

	for _, c := range []Category{CategoryFriends, CategoryGoals, CategoryMood, CategoryLocation, CategoryJournal} {
		assert.False(t, g.Allowed(c), "category %s must be blocked without consent", c)
	}
}

func TestAllowedFollowsCategoryFlags(t *testing.T) {
	s := consented()
	s.ShareMoodData = false
	s.ShareLocationData = false
	g := NewGateWithSettings(s)

	assert.True(t, g.Allowed(CategoryFriends))
	assert.True(t, g.Allowed(CategoryGoals))
	assert.False(t, g.Allowed(CategoryMood))
	assert.False(t, g.Allowed(CategoryLocation))
	assert.True(t, g.Allowed(CategoryJournal), "journal rides blanket consent")
}

func TestFeatureEnabledRequiresConsent(t *testing.T) {
	g := NewGateWithSettings(DefaultSettings())
	assert.False(t, g.FeatureEnabled(FeatureChat))
	assert.False(t, g.FeatureEnabled(FeatureLearning))

	g = NewGateWithSettings(consented())
	assert.True(t, g.FeatureEnabled(FeatureChat))
	assert.True(t, g.FeatureEnabled(FeatureLearning))
	assert.False(t, g.FeatureEnabled(FeatureMorningInsight), "insight is opt-in")
}

func TestGiveAndRevokeConsent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	g := NewGate(ctx, mem, nil)

	require.NoError(t, g.GiveConsent(ctx))
	assert.True(t, g.FeatureEnabled(FeatureChat))
	assert.NotNil(t, g.Settings().ConsentAt)

	require.NoError(t, g.RevokeConsent(ctx))
	assert.False(t, g.FeatureEnabled(FeatureChat))
	assert.False(t, g.Settings().AIChatEnabled, "revoke disables the feature toggles too")
	assert.False(t, g.Settings().LearningEnabled)
}

func TestSettingsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	first := NewGate(ctx, mem, nil)
	require.NoError(t, first.GiveConsent(ctx))
	require.NoError(t, first.SetSharing(ctx, CategoryMood, false))

	second := NewGate(ctx, mem, nil)
	assert.True(t, second.Settings().HasGivenAIConsent)
	assert.False(t, second.Allowed(CategoryMood))
	assert.True(t, second.Allowed(CategoryFriends))
}

func TestCorruptSettingsFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, "ai_privacy_settings", []byte("{not json")))

	g := NewGate(ctx, mem, nil)
	assert.False(t, g.Settings().HasGivenAIConsent)
}

func TestRecordDataUsage(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	g := NewGate(ctx, mem, nil)
	require.NoError(t, g.GiveConsent(ctx))

	usage := &DataUsage{FriendsCount: 2, GoalsCount: 1, FactsCount: 3, HasMoodData: true, Timestamp: time.Now()}
	g.RecordDataUsage(ctx, usage)

	got := g.Settings().LastRequestDataUsage
	require.NotNil(t, got)
	assert.Equal(t, 6, got.TotalItems())

	raw, ok, err := mem.Get(ctx, "ai_privacy_settings")
	require.NoError(t, err)
	require.True(t, ok)
	var persisted Settings
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.NotNil(t, persisted.LastRequestDataUsage)
	assert.Equal(t, 2, persisted.LastRequestDataUsage.FriendsCount)
}

func TestGateConcurrentReadersAndWriters(t *testing.T) {
	ctx := context.Background()
	g := NewGate(ctx, kv.NewMemory(), nil)
	require.NoError(t, g.GiveConsent(ctx))

	// One gate is shared by every pipeline run and the background extractor;
	// writes must not tear under concurrent reads (run with -race).
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.RecordDataUsage(ctx, &DataUsage{FriendsCount: j, Timestamp: time.Now()})
				_ = g.SetSharing(ctx, CategoryMood, j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = g.Settings()
				_ = g.Allowed(CategoryFriends)
				_ = g.FeatureEnabled(FeatureLearning)
				_ = g.AllowedCategories()
			}
		}()
	}
	wg.Wait()

	assert.True(t, g.Settings().HasGivenAIConsent)
	assert.NotNil(t, g.Settings().LastRequestDataUsage)
}

func TestEnableAndDisableAllSharing(t *testing.T) {
	ctx := context.Background()
	g := NewGate(ctx, kv.NewMemory(), nil)
	require.NoError(t, g.GiveConsent(ctx))

	require.NoError(t, g.DisableAll(ctx))
	for _, c := range []Category{CategoryFriends, CategoryGoals, CategoryMood, CategoryLocation} {
		assert.False(t, g.Allowed(c))
	}
	assert.True(t, g.Settings().HasGivenAIConsent, "disabling sharing keeps consent")

	require.NoError(t, g.EnableAll(ctx))
	for _, c := range []Category{CategoryFriends, CategoryGoals, CategoryMood, CategoryLocation} {
		assert.True(t, g.Allowed(c))
	}
}

func TestSetFeature(t *testing.T) {
	ctx := context.Background()
	g := NewGate(ctx, kv.NewMemory(), nil)
	require.NoError(t, g.GiveConsent(ctx))

	require.NoError(t, g.SetFeature(ctx, FeatureMorningInsight, true))
	assert.True(t, g.FeatureEnabled(FeatureMorningInsight))

	require.NoError(t, g.SetFeature(ctx, FeatureChat, false))
	assert.False(t, g.FeatureEnabled(FeatureChat))
}
