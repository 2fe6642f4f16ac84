package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventEntry is the persisted envelope for one domain event. Seq is
// assigned on append and defines the replay order within a stream.
type EventEntry struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement" json:"seq"`
	ID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"id"`
	Created   time.Time `gorm:"not null" json:"created"`
	StreamKey string    `gorm:"type:varchar(100);not null;index:idx_event_entries_stream" json:"stream_key"`
	Type      string    `gorm:"type:varchar(100);not null" json:"type"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
}

// TableName returns the table name for GORM
func (EventEntry) TableName() string {
	return "event_entries"
}

// EventStore is the append-only event log. Implementations must keep
// per-stream append order stable; ReadAll returns that order.
type EventStore interface {
	// Append stores one entry under its stream key. Failure means the
	// event did not durably complete and must abort the issuing
	// command.
	Append(ctx context.Context, entry *EventEntry) error
	// ReadAll returns the full ordered history of one stream. An
	// unknown stream yields an empty slice, not an error.
	ReadAll(ctx context.Context, streamKey string) ([]EventEntry, error)
	// Streams lists every stream key with at least one entry
	Streams(ctx context.Context) ([]string, error)
}
