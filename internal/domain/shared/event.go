package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a fact that occurred in the warehouse domain.
// Events are immutable once created and carry everything needed to
// replay them against an aggregate or a projection.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// StreamKey identifies the event stream the event belongs to.
	// For product stock events this is the product reference number.
	StreamKey() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RefNo     string    `json:"ref_no"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// StreamKey returns the product reference number the event belongs to
func (e *BaseDomainEvent) StreamKey() string {
	return e.RefNo
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, refNo string, occurredAt time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: occurredAt,
		RefNo:     refNo,
	}
}
