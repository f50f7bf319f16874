package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every operation, simulating an unreachable remote store.
type brokenStore struct{}

var errStoreBroken = errors.New("store unreachable")

func (brokenStore) Get(context.Context, string) ([]byte, error)  { return nil, errStoreBroken }
func (brokenStore) Set(context.Context, string, []byte) error    { return errStoreBroken }
func (brokenStore) Delete(context.Context, string) error         { return errStoreBroken }
func (brokenStore) DeleteTree(context.Context, string) error     { return errStoreBroken }
func (brokenStore) ListUserIDs(context.Context) ([]string, error) {
	return nil, errStoreBroken
}

func TestFallbackStore_WritesGoToBothStores(t *testing.T) {
	ctx := context.Background()

	remote, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	local, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	store := NewFallbackStore(remote, local)

	doc := []byte(`{"totalXP":150}`)
	require.NoError(t, store.Set(ctx, "users/serj/userProgress", doc))

	remoteDoc, err := remote.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, doc, remoteDoc)

	localDoc, err := local.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, doc, localDoc)
}

func TestFallbackStore_GetPrefersRemote(t *testing.T) {
	ctx := context.Background()

	remote, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	local, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	store := NewFallbackStore(remote, local)

	require.NoError(t, remote.Set(ctx, "users/serj/userProgress", []byte(`{"totalXP":100}`)))
	require.NoError(t, local.Set(ctx, "users/serj/userProgress", []byte(`{"totalXP":50}`)))

	doc, err := store.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"totalXP":100}`), doc)
}

func TestFallbackStore_GetFallsBackToLocal(t *testing.T) {
	ctx := context.Background()

	local, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.Set(ctx, "users/serj/userProgress", []byte(`{"totalXP":50}`)))

	store := NewFallbackStore(brokenStore{}, local)

	doc, err := store.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"totalXP":50}`), doc)
}

func TestFallbackStore_SetKeepsLocalBackupOnRemoteFailure(t *testing.T) {
	ctx := context.Background()

	local, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	store := NewFallbackStore(brokenStore{}, local)

	doc := []byte(`{"caliCoins":10}`)
	err = store.Set(ctx, "users/serj/userProgress", doc)
	require.ErrorIs(t, err, errStoreBroken)

	// local backup written regardless of the remote outcome
	localDoc, err := local.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, doc, localDoc)

	// and subsequent reads are served from the fallback
	got, err := store.Get(ctx, "users/serj/userProgress")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestFallbackStore_NotFoundWhenBothStoresMiss(t *testing.T) {
	ctx := context.Background()

	remote, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	local, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	store := NewFallbackStore(remote, local)

	_, err = store.Get(ctx, "users/nobody/userProgress")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
