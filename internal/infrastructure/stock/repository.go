package stock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/event"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/persistence"
)

// ReplayWarning records one historical event that could not be
// decoded or applied during aggregate reconstruction.
type ReplayWarning struct {
	EntryID   uuid.UUID
	EventType string
	Err       error
}

// Options tunes repository behavior
type Options struct {
	// StrictReplay turns replay errors fatal instead of accumulating
	// them and continuing with a best-effort state
	StrictReplay bool
	// Now is the clock handed to reconstructed aggregates; nil means
	// time.Now
	Now func() time.Time
}

// Repository is the aggregate cache and replayer. The first Get for a
// product reads the full event history, folds it through the reducer
// and wraps the result in an Agent; the instance is then cached for
// the process lifetime. Construction happens at most once per key,
// and first access for different keys proceeds concurrently.
type Repository struct {
	store      persistence.EventStore
	serializer *event.EventSerializer
	validator  warehouse.PaletteValidator
	locations  warehouse.LocationPicker
	logger     *zap.Logger
	opts       Options

	mu      sync.Mutex // guards entries; never held across replay IO
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	agent *Agent
	err   error
}

// NewRepository creates an aggregate repository over the given event
// store
func NewRepository(
	store persistence.EventStore,
	serializer *event.EventSerializer,
	validator warehouse.PaletteValidator,
	locations warehouse.LocationPicker,
	logger *zap.Logger,
	opts Options,
) *Repository {
	return &Repository{
		store:      store,
		serializer: serializer,
		validator:  validator,
		locations:  locations,
		logger:     logger,
		opts:       opts,
		entries:    make(map[string]*cacheEntry),
	}
}

// Get returns the agent for refNo, reconstructing the aggregate from
// its history on first access. A product with no history at all fails
// with ErrNotFound; an existing aggregate is never re-replayed.
func (r *Repository) Get(ctx context.Context, refNo string) (*Agent, error) {
	return r.lookup(ctx, refNo, false)
}

// getOrCreateRetries bounds how often GetOrCreate re-runs its lookup
// after losing the entry-install race to a concurrent Get that found
// no history. Each loss requires another caller to grab the entry map
// first, so the bound is generous.
const getOrCreateRetries = 16

// GetOrCreate behaves like Get but constructs a fresh empty aggregate
// when the product has no history yet. Used by palette registration.
func (r *Repository) GetOrCreate(ctx context.Context, refNo string) (*Agent, error) {
	var err error
	for i := 0; i < getOrCreateRetries; i++ {
		var agent *Agent
		agent, err = r.lookup(ctx, refNo, true)
		// another caller's plain Get may have raced us into a
		// not-found result; its failed entry is gone, so retry
		if err != nil && errors.Is(err, shared.ErrNotFound) {
			continue
		}
		return agent, err
	}
	// deliberately not wrapped: exhaustion is a livelock symptom, not a
	// missing product, and must not map to a not-found response
	return nil, fmt.Errorf("create product stock %s: lost the install race %d times: %v",
		refNo, getOrCreateRetries, err)
}

// Persist serializes one freshly produced event and appends it to the
// product's stream. Failure is fatal to the issuing command.
func (r *Repository) Persist(ctx context.Context, refNo string, ev shared.DomainEvent) error {
	payload, err := r.serializer.Serialize(ev)
	if err != nil {
		return fmt.Errorf("serialize %s event for %s: %w", ev.EventType(), refNo, err)
	}
	entry := &persistence.EventEntry{
		ID:        ev.EventID(),
		Created:   ev.OccurredAt(),
		StreamKey: refNo,
		Type:      ev.EventType(),
		Payload:   string(payload),
	}
	return r.store.Append(ctx, entry)
}

// Stop shuts down every cached agent
func (r *Repository) Stop() {
	r.mu.Lock()
	agents := make([]*Agent, 0, len(r.entries))
	for _, e := range r.entries {
		select {
		case <-e.ready:
			if e.agent != nil {
				agents = append(agents, e.agent)
			}
		default:
		}
	}
	r.mu.Unlock()

	for _, agent := range agents {
		agent.Stop()
	}
}

func (r *Repository) lookup(ctx context.Context, refNo string, createIfEmpty bool) (*Agent, error) {
	r.mu.Lock()
	if e, ok := r.entries[refNo]; ok {
		r.mu.Unlock()
		return e.wait(ctx)
	}
	e := &cacheEntry{ready: make(chan struct{})}
	r.entries[refNo] = e
	r.mu.Unlock()

	agent, err := r.replay(ctx, refNo, createIfEmpty)
	e.agent, e.err = agent, err
	if err != nil {
		// leave no failed entries behind; the next access retries
		r.mu.Lock()
		delete(r.entries, refNo)
		r.mu.Unlock()
	}
	close(e.ready)
	return agent, err
}

func (e *cacheEntry) wait(ctx context.Context) (*Agent, error) {
	select {
	case <-e.ready:
		return e.agent, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Repository) replay(ctx context.Context, refNo string, createIfEmpty bool) (*Agent, error) {
	entries, err := r.store.ReadAll(ctx, refNo)
	if err != nil {
		return nil, fmt.Errorf("load history of %s: %w", refNo, err)
	}
	if len(entries) == 0 && !createIfEmpty {
		return nil, fmt.Errorf("product stock %s: %w", refNo, shared.ErrNotFound)
	}

	aggregate := warehouse.NewProductStock(refNo, r.validator, r.locations, r.opts.Now)
	var warnings []ReplayWarning
	for _, en := range entries {
		ev, err := r.serializer.Deserialize(en.Type, []byte(en.Payload))
		if err == nil {
			err = aggregate.Apply(ev)
		}
		if err == nil {
			continue
		}
		if r.opts.StrictReplay {
			return nil, fmt.Errorf("replay %s entry %s: %w", refNo, en.ID, err)
		}
		warnings = append(warnings, ReplayWarning{EntryID: en.ID, EventType: en.Type, Err: err})
		r.logger.Warn("skipping unreadable event during replay",
			zap.String("ref_no", refNo),
			zap.String("entry_id", en.ID.String()),
			zap.String("event_type", en.Type),
			zap.Error(err),
		)
	}

	r.logger.Debug("product stock reconstructed",
		zap.String("ref_no", refNo),
		zap.Int("events", len(entries)),
		zap.Int("palettes", aggregate.Size()),
		zap.Int("replay_warnings", len(warnings)),
	)
	return NewAgent(aggregate, warnings), nil
}
