package persistence

import (
	"context"
	"sort"
	"sync"
)

// MemoryEventStore is an in-memory EventStore used in tests and the
// development profile. Entries keep their append order per stream.
type MemoryEventStore struct {
	mu      sync.RWMutex
	nextSeq uint64
	streams map[string][]EventEntry
}

// NewMemoryEventStore creates an empty in-memory event store
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams: make(map[string][]EventEntry),
	}
}

// Append stores one entry
func (s *MemoryEventStore) Append(ctx context.Context, entry *EventEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	entry.Seq = s.nextSeq
	s.streams[entry.StreamKey] = append(s.streams[entry.StreamKey], *entry)
	return nil
}

// ReadAll returns the ordered history of one stream
func (s *MemoryEventStore) ReadAll(ctx context.Context, streamKey string) ([]EventEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.streams[streamKey]
	result := make([]EventEntry, len(entries))
	copy(result, entries)
	return result, nil
}

// Streams lists every stream key with at least one entry
func (s *MemoryEventStore) Streams(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.streams))
	for key := range s.streams {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Ensure MemoryEventStore implements EventStore
var _ EventStore = (*MemoryEventStore)(nil)
