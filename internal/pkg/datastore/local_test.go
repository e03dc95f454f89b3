package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(ctx, "placement_data_A1.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	rev1, err := store.Write(ctx, "placement_data_A1.csv", []byte("v1"), WriteOptions{Message: "Update placement data"})
	require.NoError(t, err)

	obj, err := store.Read(ctx, "placement_data_A1.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), obj.Data)
	assert.Equal(t, rev1, obj.Revision)

	rev2, err := store.Write(ctx, "placement_data_A1.csv", []byte("v2"), WriteOptions{ExpectedRevision: rev1})
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)

	_, err = store.Write(ctx, "placement_data_A1.csv", []byte("v3"), WriteOptions{ExpectedRevision: rev1})
	assert.True(t, errors.Is(err, ErrRevisionMismatch))

	require.NoError(t, store.Delete(ctx, "placement_data_A1.csv", "Delete placement data"))
	assert.True(t, errors.Is(store.Delete(ctx, "placement_data_A1.csv", ""), ErrNotFound))

	_, err = store.Write(ctx, "placement_data_A1.csv", []byte("v4"), WriteOptions{ExpectedRevision: rev2})
	assert.True(t, errors.Is(err, ErrRevisionMismatch))
}

func TestLocalStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "../secrets")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = store.Write(context.Background(), "/etc/passwd", []byte("x"), WriteOptions{})
	assert.Error(t, err)
}
