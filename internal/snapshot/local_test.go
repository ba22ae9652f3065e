package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	store, err := snapshot.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cart:abc", []byte(`{"lines":[]}`)))

	got, err := store.Load(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"lines":[]}`), got)
}

func TestLocalStore_SaveOverwrites(t *testing.T) {
	store, err := snapshot.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", []byte("v1")))
	require.NoError(t, store.Save(ctx, "k", []byte("v2")))

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestLocalStore_LoadMissing(t *testing.T) {
	store, err := snapshot.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestLocalStore_DeleteIdempotent(t *testing.T) {
	store, err := snapshot.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Load(ctx, "k")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestLocalStore_HostileKeysStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	store, err := snapshot.NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "../../etc/passwd", []byte("x")))

	got, err := store.Load(ctx, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestLocalStore_PurgeStale(t *testing.T) {
	dir := t.TempDir()
	store, err := snapshot.NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "cart:old", []byte("x")))

	// Age everything written so far past the cutoff.
	old := time.Now().Add(-2 * time.Hour)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, os.Chtimes(filepath.Join(dir, e.Name()), old, old))
	}

	require.NoError(t, store.Save(ctx, "cart:fresh", []byte("y")))

	purged, err := store.PurgeStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = store.Load(ctx, "cart:old")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	got, err := store.Load(ctx, "cart:fresh")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), got)
}
