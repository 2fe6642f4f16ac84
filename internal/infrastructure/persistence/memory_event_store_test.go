package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(streamKey, eventType string) *EventEntry {
	return &EventEntry{
		ID:        uuid.New(),
		Created:   time.Now(),
		StreamKey: streamKey,
		Type:      eventType,
		Payload:   "{}",
	}
}

func TestMemoryEventStore_AppendAssignsIncreasingSeq(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	first := entry("P-1", "Registered")
	second := entry("P-2", "Registered")
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
}

func TestMemoryEventStore_ReadAllPreservesAppendOrder(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()

	registered := entry("P-1", "Registered")
	stored := entry("P-1", "Stored")
	other := entry("P-2", "Registered")
	require.NoError(t, store.Append(ctx, registered))
	require.NoError(t, store.Append(ctx, other))
	require.NoError(t, store.Append(ctx, stored))

	entries, err := store.ReadAll(ctx, "P-1")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, registered.ID, entries[0].ID)
	assert.Equal(t, stored.ID, entries[1].ID)
}

func TestMemoryEventStore_ReadAllUnknownStream(t *testing.T) {
	store := NewMemoryEventStore()

	entries, err := store.ReadAll(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryEventStore_ReadAllReturnsCopy(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("P-1", "Registered")))

	entries, err := store.ReadAll(ctx, "P-1")
	require.NoError(t, err)
	entries[0].Payload = "mutated"

	again, err := store.ReadAll(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, "{}", again[0].Payload)
}

func TestMemoryEventStore_StreamsSorted(t *testing.T) {
	store := NewMemoryEventStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, entry("P-2", "Registered")))
	require.NoError(t, store.Append(ctx, entry("P-1", "Registered")))
	require.NoError(t, store.Append(ctx, entry("P-1", "Stored")))

	streams, err := store.Streams(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"P-1", "P-2"}, streams)
}
