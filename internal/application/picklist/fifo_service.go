package picklist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/picklist"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/event"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/persistence"
)

// FifoService maintains the pick engine's per-product indexes as a
// projection of the product stock event stream and builds pick lists
// for orders. It subscribes to the event router; events for one
// product must arrive in persisted order, which the in-memory bus
// guarantees for synchronous publishing.
type FifoService struct {
	mu       sync.RWMutex
	products map[string]*picklist.PerProduct

	fifo   *picklist.Fifo
	logger *zap.Logger
}

// NewFifoService creates the pick-list service
func NewFifoService(locations picklist.PaletteLocations, logger *zap.Logger) *FifoService {
	s := &FifoService{
		products: make(map[string]*picklist.PerProduct),
		logger:   logger,
	}
	s.fifo = picklist.NewFifo(locations, s)
	return s
}

// Product returns the index for a product, creating an empty one on
// first use
func (s *FifoService) Product(refNo string) *picklist.PerProduct {
	s.mu.RLock()
	index, ok := s.products[refNo]
	s.mu.RUnlock()
	if ok {
		return index
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if index, ok = s.products[refNo]; !ok {
		index = picklist.NewPerProduct()
		s.products[refNo] = index
	}
	return index
}

// Handle folds one routed event into the product's index
func (s *FifoService) Handle(ctx context.Context, ev shared.DomainEvent) error {
	s.Product(ev.StreamKey()).Apply(ev)
	return nil
}

// EventTypes returns the event kinds that affect fulfillability.
// Stored and Picked only move palettes around and are not observed.
func (s *FifoService) EventTypes() []string {
	return []string{
		warehouse.EventTypeRegistered,
		warehouse.EventTypeLocked,
		warehouse.EventTypeUnlocked,
		warehouse.EventTypeDelivered,
		warehouse.EventTypeDestroyed,
	}
}

// PickList builds a pick list for the order, serving each item from
// the oldest ready available palettes
func (s *FifoService) PickList(order picklist.Order) picklist.PickList {
	return s.fifo.PickList(order)
}

// Rebuild re-creates every per-product index from the event store.
// Used at startup so a restarted process serves pick lists without
// having observed the live stream. Unreadable entries are skipped the
// same way aggregate replay skips them.
func (s *FifoService) Rebuild(ctx context.Context, store persistence.EventStore, serializer *event.EventSerializer) error {
	streams, err := store.Streams(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = make(map[string]*picklist.PerProduct)
	s.mu.Unlock()

	for _, refNo := range streams {
		entries, err := store.ReadAll(ctx, refNo)
		if err != nil {
			return err
		}
		index := s.Product(refNo)
		for _, entry := range entries {
			ev, err := serializer.Deserialize(entry.Type, []byte(entry.Payload))
			if err != nil {
				s.logger.Warn("skipping unreadable event during index rebuild",
					zap.String("ref_no", refNo),
					zap.String("entry_id", entry.ID.String()),
					zap.Error(err),
				)
				continue
			}
			index.Apply(ev)
		}
	}

	s.logger.Info("pick indexes rebuilt", zap.Int("products", len(streams)))
	return nil
}

// Ensure FifoService wires into the event bus and the pick engine
var (
	_ shared.EventHandler = (*FifoService)(nil)
	_ picklist.Products   = (*FifoService)(nil)
)
