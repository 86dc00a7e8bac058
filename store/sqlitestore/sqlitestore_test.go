package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezginpak/lifestyles/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEmptyListsAreNotErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	friends, err := db.ListFriends(ctx)
	require.NoError(t, err)
	assert.Empty(t, friends)

	profile, err := db.GetUserProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestUserProfileRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetUserProfile(ctx, &store.UserProfile{Name: "Sezgin", Age: 30, City: "Istanbul"}))

	got, err := db.GetUserProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sezgin", got.Name)
	assert.Equal(t, 30, got.Age)

	// upsert keeps a single row
	require.NoError(t, db.SetUserProfile(ctx, &store.UserProfile{Name: "Sezgin", Age: 31, City: "Istanbul"}))
	got, err = db.GetUserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
}

func TestKnowledgeFactLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created, err := db.CreateKnowledgeFact(ctx, &store.KnowledgeFact{
		Category:   "preference",
		Key:        "likes",
		Value:      "coffee",
		Confidence: 0.8,
		Source:     "pattern",
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	category := "preference"
	key := "likes"
	facts, err := db.ListKnowledgeFacts(ctx, &store.FindKnowledgeFact{
		Category: &category, Key: &key, OnlyActive: true,
	})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "coffee", facts[0].Value)

	confidence := 0.9
	referenced := 1
	confirmed := time.Now()
	require.NoError(t, db.UpdateKnowledgeFact(ctx, &store.UpdateKnowledgeFact{
		ID:              created.ID,
		Confidence:      &confidence,
		TimesReferenced: &referenced,
		LastConfirmedAt: &confirmed,
	}))

	facts, err = db.ListKnowledgeFacts(ctx, &store.FindKnowledgeFact{OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.InDelta(t, 0.9, facts[0].Confidence, 1e-9)
	assert.Equal(t, 1, facts[0].TimesReferenced)
	require.NotNil(t, facts[0].LastConfirmedAt)

	inactive := false
	require.NoError(t, db.UpdateKnowledgeFact(ctx, &store.UpdateKnowledgeFact{
		ID: created.ID, IsActive: &inactive,
	}))
	facts, err = db.ListKnowledgeFacts(ctx, &store.FindKnowledgeFact{OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestMoodEntryWindowing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for _, age := range []time.Duration{2 * time.Hour, 26 * time.Hour, 8 * 24 * time.Hour} {
		ts := now.Add(-age)
		_, err := db.db.ExecContext(ctx,
			"INSERT INTO mood_entry (mood_type, intensity, created_ts) VALUES (?, ?, ?)",
			"calm", 3, ts.Unix())
		require.NoError(t, err)
	}

	since := now.Add(-24 * time.Hour)
	entries, err := db.ListMoodEntries(ctx, &store.FindMoodEntry{Since: &since})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = db.ListMoodEntries(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
