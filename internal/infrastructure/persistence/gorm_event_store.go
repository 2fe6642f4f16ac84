package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
)

// GormEventStore implements EventStore on a relational database using
// GORM. Rows are append-only; nothing ever updates or deletes them.
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore creates a new GORM-based event store
func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

// Migrate creates the event table if it does not exist
func (s *GormEventStore) Migrate() error {
	if err := s.db.AutoMigrate(&EventEntry{}); err != nil {
		return fmt.Errorf("migrate event_entries: %w", err)
	}
	return nil
}

// Append stores one entry
func (s *GormEventStore) Append(ctx context.Context, entry *EventEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append event %s to stream %s: %v: %w", entry.ID, entry.StreamKey, err, shared.ErrStorage)
	}
	return nil
}

// ReadAll returns the ordered history of one stream
func (s *GormEventStore) ReadAll(ctx context.Context, streamKey string) ([]EventEntry, error) {
	var entries []EventEntry
	err := s.db.WithContext(ctx).
		Where("stream_key = ?", streamKey).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %v: %w", streamKey, err, shared.ErrStorage)
	}
	return entries, nil
}

// Streams lists every stream key with at least one entry
func (s *GormEventStore) Streams(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&EventEntry{}).
		Distinct("stream_key").
		Order("stream_key ASC").
		Pluck("stream_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("list streams: %v: %w", err, shared.ErrStorage)
	}
	return keys, nil
}

// Ensure GormEventStore implements EventStore
var _ EventStore = (*GormEventStore)(nil)
