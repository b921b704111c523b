package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	kv := NewMemory(0)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMissingKey(t *testing.T) {
	kv := NewMemory(0)
	_, err := kv.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryQuota(t *testing.T) {
	kv := NewMemory(4)
	ctx := context.Background()

	assert.NoError(t, kv.Set(ctx, "ok", []byte("1234")))
	assert.ErrorIs(t, kv.Set(ctx, "big", []byte("12345")), ErrQuotaExceeded)

	_, err := kv.Get(ctx, "big")
	assert.ErrorIs(t, err, ErrNotFound, "rejected write must not be applied")
}

func TestMemoryDeleteAbsentKey(t *testing.T) {
	kv := NewMemory(0)
	assert.NoError(t, kv.Delete(context.Background(), "absent"))
}
