package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewWarehouseSerializer()
	label := warehouse.NewPaletteLabel("P-1", "900001")
	readyAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	original := warehouse.NewRegistered(label, 20, readyAt, warehouse.Quarantine(), warehouse.InvalidResult("too light"))

	payload, err := serializer.Serialize(original)
	require.NoError(t, err)

	decoded, err := serializer.Deserialize(warehouse.EventTypeRegistered, payload)
	require.NoError(t, err)

	registered, ok := decoded.(*warehouse.Registered)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), registered.EventID())
	assert.Equal(t, "P-1", registered.StreamKey())
	assert.Equal(t, label, registered.Label)
	assert.Equal(t, 20, registered.ScannedBoxes)
	assert.True(t, registered.ReadyAt.Equal(readyAt))
	assert.Equal(t, warehouse.Quarantine(), registered.SuggestedLocation)
	assert.Equal(t, warehouse.InvalidResult("too light"), registered.Validation)
}

func TestEventSerializer_AllWarehouseKindsRegistered(t *testing.T) {
	serializer := NewWarehouseSerializer()
	for _, eventType := range []string{
		warehouse.EventTypeRegistered,
		warehouse.EventTypeStored,
		warehouse.EventTypePicked,
		warehouse.EventTypeLocked,
		warehouse.EventTypeUnlocked,
		warehouse.EventTypeDelivered,
		warehouse.EventTypeDestroyed,
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}

func TestEventSerializer_UnknownTypeTag(t *testing.T) {
	serializer := NewWarehouseSerializer()

	_, err := serializer.Deserialize("Teleported", []byte(`{}`))

	assert.ErrorIs(t, err, shared.ErrDeserialization)
}

func TestEventSerializer_MalformedPayload(t *testing.T) {
	serializer := NewWarehouseSerializer()

	_, err := serializer.Deserialize(warehouse.EventTypeRegistered, []byte(`{not json`))

	assert.ErrorIs(t, err, shared.ErrDeserialization)
}
