package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, "users/serj/capabilityProfile")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	doc := []byte(`{"maxPushUps":20}`)
	require.NoError(t, store.Set(ctx, "users/serj/capabilityProfile", doc))

	got, err := store.Get(ctx, "users/serj/capabilityProfile")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	// overwrite
	doc2 := []byte(`{"maxPushUps":25}`)
	require.NoError(t, store.Set(ctx, "users/serj/capabilityProfile", doc2))
	got, err = store.Get(ctx, "users/serj/capabilityProfile")
	require.NoError(t, err)
	assert.Equal(t, doc2, got)

	require.NoError(t, store.Delete(ctx, "users/serj/capabilityProfile"))
	_, err = store.Get(ctx, "users/serj/capabilityProfile")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	err = store.Delete(ctx, "users/serj/capabilityProfile")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDisk_DeleteTree(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "users/serj/quests/daily", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "users/serj/quests/daily/history/2026-08-30", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "users/serj/streaks/data", []byte(`{}`)))

	require.NoError(t, store.DeleteTree(ctx, "users/serj/quests"))

	_, err = store.Get(ctx, "users/serj/quests/daily")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	_, err = store.Get(ctx, "users/serj/quests/daily/history/2026-08-30")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	// untouched sibling
	_, err = store.Get(ctx, "users/serj/streaks/data")
	assert.NoError(t, err)
}

func TestDisk_ListUserIDs(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	userIDs, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, userIDs)

	require.NoError(t, store.Set(ctx, "users/serj/userProgress", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "users/mila/userProgress", []byte(`{}`)))

	userIDs, err = store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"serj", "mila"}, userIDs)
}
