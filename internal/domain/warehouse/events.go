package warehouse

import (
	"time"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProductStock = "ProductStock"

// Event type constants. These tags are persisted with each event entry
// and drive deserialization; renaming one breaks stored history.
const (
	EventTypeRegistered = "Registered"
	EventTypeStored     = "Stored"
	EventTypePicked     = "Picked"
	EventTypeLocked     = "Locked"
	EventTypeUnlocked   = "Unlocked"
	EventTypeDelivered  = "Delivered"
	EventTypeDestroyed  = "Destroyed"
)

// Registered is raised when a freshly produced palette enters stock.
// It carries the full registration context: the scanned contents, the
// suggested storage location and the validation outcome. The palette
// itself still sits in production until a Store command moves it.
type Registered struct {
	shared.BaseDomainEvent
	Label             PaletteLabel     `json:"label"`
	ScannedBoxes      int              `json:"scanned_boxes"`
	ReadyAt           time.Time        `json:"ready_at"`
	SuggestedLocation Location         `json:"suggested_location"`
	Validation        ValidationResult `json:"validation"`
}

// NewRegistered creates a new Registered event
func NewRegistered(label PaletteLabel, scannedBoxes int, readyAt time.Time, suggested Location, validation ValidationResult) *Registered {
	return &Registered{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRegistered, label.RefNo, readyAt),
		Label:             label,
		ScannedBoxes:      scannedBoxes,
		ReadyAt:           readyAt,
		SuggestedLocation: suggested,
		Validation:        validation,
	}
}

// EventType returns the event type name
func (e *Registered) EventType() string {
	return EventTypeRegistered
}

// Stored is raised when a palette is put down at a location
type Stored struct {
	shared.BaseDomainEvent
	Label    PaletteLabel `json:"label"`
	Location Location     `json:"location"`
}

// NewStored creates a new Stored event
func NewStored(label PaletteLabel, location Location, occurredAt time.Time) *Stored {
	return &Stored{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStored, label.RefNo, occurredAt),
		Label:           label,
		Location:        location,
	}
}

// EventType returns the event type name
func (e *Stored) EventType() string {
	return EventTypeStored
}

// Picked is raised when an operator takes a palette. FromLocation is
// where the palette was; ToLocation is the operator's on-the-move
// location.
type Picked struct {
	shared.BaseDomainEvent
	Label        PaletteLabel `json:"label"`
	Operator     string       `json:"operator"`
	FromLocation Location     `json:"from_location"`
	ToLocation   Location     `json:"to_location"`
}

// NewPicked creates a new Picked event
func NewPicked(label PaletteLabel, operator string, from Location, occurredAt time.Time) *Picked {
	return &Picked{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePicked, label.RefNo, occurredAt),
		Label:           label,
		Operator:        operator,
		FromLocation:    from,
		ToLocation:      OnTheMove(operator),
	}
}

// EventType returns the event type name
func (e *Picked) EventType() string {
	return EventTypePicked
}

// Locked is raised by quality control when a palette must not be
// shipped. The aggregate does not track lock state; the pick engine
// does.
type Locked struct {
	shared.BaseDomainEvent
	Label  PaletteLabel `json:"label"`
	Reason string       `json:"reason,omitempty"`
}

// NewLocked creates a new Locked event
func NewLocked(label PaletteLabel, reason string, occurredAt time.Time) *Locked {
	return &Locked{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocked, label.RefNo, occurredAt),
		Label:           label,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *Locked) EventType() string {
	return EventTypeLocked
}

// Unlocked is raised by quality control when a previously locked
// palette may ship again
type Unlocked struct {
	shared.BaseDomainEvent
	Label PaletteLabel `json:"label"`
}

// NewUnlocked creates a new Unlocked event
func NewUnlocked(label PaletteLabel, occurredAt time.Time) *Unlocked {
	return &Unlocked{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnlocked, label.RefNo, occurredAt),
		Label:           label,
	}
}

// EventType returns the event type name
func (e *Unlocked) EventType() string {
	return EventTypeUnlocked
}

// Delivered is raised when a palette leaves the warehouse on a truck
type Delivered struct {
	shared.BaseDomainEvent
	Label PaletteLabel `json:"label"`
}

// NewDelivered creates a new Delivered event
func NewDelivered(label PaletteLabel, occurredAt time.Time) *Delivered {
	return &Delivered{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDelivered, label.RefNo, occurredAt),
		Label:           label,
	}
}

// EventType returns the event type name
func (e *Delivered) EventType() string {
	return EventTypeDelivered
}

// Destroyed is raised when quality control scraps a palette
type Destroyed struct {
	shared.BaseDomainEvent
	Label  PaletteLabel `json:"label"`
	Reason string       `json:"reason,omitempty"`
}

// NewDestroyed creates a new Destroyed event
func NewDestroyed(label PaletteLabel, reason string, occurredAt time.Time) *Destroyed {
	return &Destroyed{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDestroyed, label.RefNo, occurredAt),
		Label:           label,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *Destroyed) EventType() string {
	return EventTypeDestroyed
}
