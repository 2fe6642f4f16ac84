package stock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/event"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/persistence"
)

func newTestRepository(store persistence.EventStore, opts Options) *Repository {
	validator := &warehouse.BasicPaletteValidator{MinBoxes: 1}
	locations := warehouse.NewBasicLocationPicker(nil, warehouse.Storage("A", ""))
	return NewRepository(store, event.NewWarehouseSerializer(), validator, locations, zap.NewNop(), opts)
}

func seedHistory(t *testing.T, store persistence.EventStore, events ...shared.DomainEvent) {
	t.Helper()
	repo := newTestRepository(store, Options{})
	for _, ev := range events {
		require.NoError(t, repo.Persist(context.Background(), ev.StreamKey(), ev))
	}
}

func TestRepository_GetUnknownProduct(t *testing.T) {
	repo := newTestRepository(persistence.NewMemoryEventStore(), Options{})
	defer repo.Stop()

	_, err := repo.Get(context.Background(), "P-1")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRepository_GetOrCreateEmptyProduct(t *testing.T) {
	repo := newTestRepository(persistence.NewMemoryEventStore(), Options{})
	defer repo.Stop()

	agent, err := repo.GetOrCreate(context.Background(), "P-1")

	require.NoError(t, err)
	assert.Equal(t, "P-1", agent.RefNo())
	assert.Empty(t, agent.ReplayWarnings())
}

func TestRepository_ReplayRebuildsAggregateState(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	label := warehouse.NewPaletteLabel("P-1", "900001")
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	seedHistory(t, store,
		warehouse.NewRegistered(label, 10, now, warehouse.Production(), warehouse.ValidResult()),
		warehouse.NewStored(label, warehouse.Storage("B", "12"), now.Add(time.Minute)),
	)

	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	agent, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)

	var location warehouse.Location
	err = agent.Execute(context.Background(), func(s *warehouse.ProductStock) error {
		location = s.GetLocation(label)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, warehouse.Storage("B", "12"), location)
	assert.Empty(t, agent.ReplayWarnings())
}

func TestRepository_GetCachesAggregate(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	label := warehouse.NewPaletteLabel("P-1", "900001")
	seedHistory(t, store,
		warehouse.NewRegistered(label, 10, time.Now(), warehouse.Production(), warehouse.ValidResult()),
	)

	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	first, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)
	second, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRepository_ConcurrentGetConstructsOnce(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	label := warehouse.NewPaletteLabel("P-1", "900001")
	seedHistory(t, store,
		warehouse.NewRegistered(label, 10, time.Now(), warehouse.Production(), warehouse.ValidResult()),
	)

	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	const callers = 16
	agents := make([]*Agent, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agent, err := repo.Get(context.Background(), "P-1")
			assert.NoError(t, err)
			agents[i] = agent
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, agents[0], agents[i])
	}
}

func TestRepository_ReplaySkipsUnreadableEntries(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	label := warehouse.NewPaletteLabel("P-1", "900001")
	seedHistory(t, store,
		warehouse.NewRegistered(label, 10, time.Now(), warehouse.Production(), warehouse.ValidResult()),
	)
	require.NoError(t, store.Append(context.Background(), &persistence.EventEntry{
		ID:        uuid.New(),
		Created:   time.Now(),
		StreamKey: "P-1",
		Type:      "Teleported",
		Payload:   "{}",
	}))

	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	agent, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)

	require.Len(t, agent.ReplayWarnings(), 1)
	assert.Equal(t, "Teleported", agent.ReplayWarnings()[0].EventType)

	// the readable part of the history still applied
	var location warehouse.Location
	require.NoError(t, agent.Execute(context.Background(), func(s *warehouse.ProductStock) error {
		location = s.GetLocation(label)
		return nil
	}))
	assert.Equal(t, warehouse.Production(), location)
}

func TestRepository_StrictReplayFailsOnUnreadableEntry(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	require.NoError(t, store.Append(context.Background(), &persistence.EventEntry{
		ID:        uuid.New(),
		Created:   time.Now(),
		StreamKey: "P-1",
		Type:      "Registered",
		Payload:   "{not json",
	}))

	repo := newTestRepository(store, Options{StrictReplay: true})
	defer repo.Stop()

	_, err := repo.Get(context.Background(), "P-1")

	assert.ErrorIs(t, err, shared.ErrDeserialization)
}

func TestRepository_FailedLookupIsNotCached(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	_, err := repo.Get(context.Background(), "P-1")
	require.ErrorIs(t, err, shared.ErrNotFound)

	// once history exists the same key resolves
	label := warehouse.NewPaletteLabel("P-1", "900001")
	seedHistory(t, store,
		warehouse.NewRegistered(label, 10, time.Now(), warehouse.Production(), warehouse.ValidResult()),
	)
	agent, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, "P-1", agent.RefNo())
}

func TestRepository_GetOrCreateUnderRacingGets(t *testing.T) {
	repo := newTestRepository(persistence.NewMemoryEventStore(), Options{})
	defer repo.Stop()

	// plain Gets on the empty product keep installing and deleting
	// failed entries; GetOrCreate must still come back with an agent
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_, _ = repo.Get(context.Background(), "P-1")
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	agent, err := repo.GetOrCreate(context.Background(), "P-1")
	close(stop)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "P-1", agent.RefNo())

	// once created, the racing Gets resolve to the same cached agent
	again, err := repo.Get(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Same(t, agent, again)
}

func TestRepository_PersistRoundTrip(t *testing.T) {
	store := persistence.NewMemoryEventStore()
	repo := newTestRepository(store, Options{})
	defer repo.Stop()

	label := warehouse.NewPaletteLabel("P-1", "900001")
	ev := warehouse.NewRegistered(label, 10, time.Now(), warehouse.Production(), warehouse.ValidResult())
	require.NoError(t, repo.Persist(context.Background(), "P-1", ev))

	entries, err := store.ReadAll(context.Background(), "P-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ev.EventID(), entries[0].ID)
	assert.Equal(t, warehouse.EventTypeRegistered, entries[0].Type)
}
