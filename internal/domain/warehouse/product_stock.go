package warehouse

import (
	"fmt"
	"time"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
)

// PaletteInformation is the aggregate's record of one palette: the
// originating Registered event plus the palette's current location.
// Every palette starts in production; the registration's suggested
// location only takes effect through a later Store command.
type PaletteInformation struct {
	Registered      Registered
	CurrentLocation Location
}

// ProductStock is the event-sourced aggregate tracking every palette
// of one product that has been registered and not yet removed.
//
// ProductStock is not safe for concurrent use. All access must go
// through the per-aggregate agent that serializes commands.
type ProductStock struct {
	refNo     string
	validator PaletteValidator
	locations LocationPicker
	now       func() time.Time

	stock map[PaletteLabel]PaletteInformation
}

// NewProductStock creates an empty aggregate for the given product.
// A nil now falls back to time.Now.
func NewProductStock(refNo string, validator PaletteValidator, locations LocationPicker, now func() time.Time) *ProductStock {
	if now == nil {
		now = time.Now
	}
	return &ProductStock{
		refNo:     refNo,
		validator: validator,
		locations: locations,
		now:       now,
		stock:     make(map[PaletteLabel]PaletteInformation),
	}
}

// RefNo returns the product reference number identifying the aggregate
func (s *ProductStock) RefNo() string {
	return s.refNo
}

// Size returns the number of palettes currently tracked
func (s *ProductStock) Size() int {
	return len(s.stock)
}

// RegisterNew registers a freshly produced palette. Registering a
// label that is already present is a no-op returning no events. When
// validation fails the palette is still registered (with quarantine as
// its suggested location) and a Locked event follows the Registered
// event.
func (s *ProductStock) RegisterNew(cmd RegisterNew) ([]shared.DomainEvent, error) {
	if err := s.checkIdentity(cmd.Label); err != nil {
		return nil, err
	}
	if _, ok := s.stock[cmd.Label]; ok {
		return nil, nil
	}

	validation := s.validator.IsValid(cmd)
	suggested := Quarantine()
	if validation.Valid {
		suggested = s.locations.SuggestFor(cmd.Label.RefNo)
	}

	event := NewRegistered(cmd.Label, cmd.ScannedBoxes, s.now(), suggested, validation)
	if err := s.Apply(event); err != nil {
		return nil, err
	}

	events := []shared.DomainEvent{event}
	if !validation.Valid {
		events = append(events, NewLocked(cmd.Label, validation.Details, s.now()))
	}
	return events, nil
}

// Pick hands the palette to an operator. Fails with ErrNotFound when
// the label is not part of the stock.
func (s *ProductStock) Pick(cmd Pick) ([]shared.DomainEvent, error) {
	if err := s.checkIdentity(cmd.Label); err != nil {
		return nil, err
	}
	info, ok := s.stock[cmd.Label]
	if !ok {
		return nil, fmt.Errorf("pick %s: %w", cmd.Label, shared.ErrNotFound)
	}

	event := NewPicked(cmd.Label, cmd.Operator, info.CurrentLocation, s.now())
	if err := s.Apply(event); err != nil {
		return nil, err
	}
	return []shared.DomainEvent{event}, nil
}

// Store puts the palette down at the target location. Fails with
// ErrNotFound when the label is not part of the stock.
func (s *ProductStock) Store(cmd Store) ([]shared.DomainEvent, error) {
	if err := s.checkIdentity(cmd.Label); err != nil {
		return nil, err
	}
	if _, ok := s.stock[cmd.Label]; !ok {
		return nil, fmt.Errorf("store %s: %w", cmd.Label, shared.ErrNotFound)
	}

	event := NewStored(cmd.Label, cmd.Location, s.now())
	if err := s.Apply(event); err != nil {
		return nil, err
	}
	return []shared.DomainEvent{event}, nil
}

// Delivered removes the palette from stock. Idempotent when the label
// is already absent.
func (s *ProductStock) Delivered(event *Delivered) {
	delete(s.stock, event.Label)
}

// Destroyed removes the palette from stock. Idempotent when the label
// is already absent.
func (s *ProductStock) Destroyed(event *Destroyed) {
	delete(s.stock, event.Label)
}

// GetLocation returns the palette's current location, or the unknown
// location when the palette is not part of the stock. Never fails.
func (s *ProductStock) GetLocation(label PaletteLabel) Location {
	if info, ok := s.stock[label]; ok {
		return info.CurrentLocation
	}
	return Unknown()
}

// Apply is the reducer: it folds one event into the aggregate state.
// It is side-effect free and replay safe; the switch covers the full
// closed set of event kinds, with explicit no-op arms for kinds the
// aggregate does not react to.
func (s *ProductStock) Apply(event shared.DomainEvent) error {
	switch e := event.(type) {
	case *Registered:
		s.stock[e.Label] = PaletteInformation{
			Registered:      *e,
			CurrentLocation: Production(),
		}
	case *Picked:
		s.setCurrentLocation(e.Label, e.ToLocation)
	case *Stored:
		s.setCurrentLocation(e.Label, e.Location)
	case *Locked, *Unlocked:
		// lock state lives in the pick engine, not here
	case *Delivered:
		s.Delivered(e)
	case *Destroyed:
		s.Destroyed(e)
	default:
		return fmt.Errorf("product stock cannot apply event type %q: %w", event.EventType(), shared.ErrInvalidInput)
	}
	return nil
}

func (s *ProductStock) setCurrentLocation(label PaletteLabel, location Location) {
	if info, ok := s.stock[label]; ok {
		info.CurrentLocation = location
		s.stock[label] = info
	}
}

func (s *ProductStock) checkIdentity(label PaletteLabel) error {
	if label.RefNo != s.refNo {
		return fmt.Errorf("command for %s addressed to stock of %s: %w", label, s.refNo, shared.ErrInvalidInput)
	}
	return nil
}
