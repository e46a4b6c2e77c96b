package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySlotStore_SetGet(t *testing.T) {
	store := NewInMemorySlotStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// Overwrite
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestInMemorySlotStore_TakeOnce(t *testing.T) {
	store := NewInMemorySlotStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	got, err := store.TakeOnce(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = store.TakeOnce(ctx, "k")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInMemorySlotStore_WatchNotifiesEveryWatcher(t *testing.T) {
	store := NewInMemorySlotStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := store.Watch(ctx, "k")
	require.NoError(t, err)
	second, err := store.Watch(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	for name, ch := range map[string]<-chan struct{}{"first": first, "second": second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("%s watcher missed the write", name)
		}
	}
}

func TestInMemorySlotStore_WatchClosesWithContext(t *testing.T) {
	store := NewInMemorySlotStore()
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := store.Watch(ctx, "k")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("watch channel did not close")
	}
}
