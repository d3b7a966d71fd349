package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository_LoadReturnsCopy(t *testing.T) {
	r := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleState("s1")))

	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Lead.Name = "Changed"
	got.History = nil

	again, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", again.Lead.Name)
	assert.Len(t, again.History, 2)
}

func TestMemorySessionRepository_IdleExpiry(t *testing.T) {
	r := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Save(ctx, sampleState("s1")))

	now = now.Add(59 * time.Second)
	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Minute)
	got, err = r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, r.Len())
}

func TestMemorySessionRepository_SaveSweepsExpired(t *testing.T) {
	r := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Save(ctx, sampleState("old")))
	now = now.Add(5 * time.Minute)
	require.NoError(t, r.Save(ctx, sampleState("new")))

	assert.Equal(t, 1, r.Len())
}

func TestMemorySessionRepository_Delete(t *testing.T) {
	r := NewMemorySessionRepository(0)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleState("s1")))
	require.NoError(t, r.Delete(ctx, "s1"))
	require.NoError(t, r.Delete(ctx, "missing"))

	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionRepository_SaveNil(t *testing.T) {
	r := NewMemorySessionRepository(0)
	assert.Error(t, r.Save(context.Background(), nil))
}
