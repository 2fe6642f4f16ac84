package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
)

// EventSerializer handles JSON serialization/deserialization of domain
// events. Deserialization is driven by the persisted type tag through
// a tag-to-type registry.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]reflect.Type // type tag -> Go type
}

// NewEventSerializer creates an empty event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		registry: make(map[string]reflect.Type),
	}
}

// NewWarehouseSerializer creates a serializer with every product stock
// event kind registered
func NewWarehouseSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(warehouse.EventTypeRegistered, &warehouse.Registered{})
	s.Register(warehouse.EventTypeStored, &warehouse.Stored{})
	s.Register(warehouse.EventTypePicked, &warehouse.Picked{})
	s.Register(warehouse.EventTypeLocked, &warehouse.Locked{})
	s.Register(warehouse.EventTypeUnlocked, &warehouse.Unlocked{})
	s.Register(warehouse.EventTypeDelivered, &warehouse.Delivered{})
	s.Register(warehouse.EventTypeDestroyed, &warehouse.Destroyed{})
	return s
}

// Register registers an event type for deserialization. The eventType
// should match what EventType() returns on the event.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.registry[eventType] = t
}

// Serialize serializes a domain event to JSON bytes
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize deserializes JSON bytes to a domain event of the kind
// the type tag names
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.registry[eventType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event type %q: %w", eventType, shared.ErrDeserialization)
	}

	eventPtr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, eventPtr); err != nil {
		return nil, fmt.Errorf("unmarshal %q event: %v: %w", eventType, err, shared.ErrDeserialization)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type registered for %q does not implement DomainEvent: %w", eventType, shared.ErrDeserialization)
	}
	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}
