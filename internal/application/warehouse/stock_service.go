package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/stock"
)

// StockService is the command side of the warehouse: it routes
// commands through the per-product agents, persists the produced
// events and hands them to the event router. Persisting always comes
// before routing, so projections only ever see durable events.
type StockService struct {
	repo   *stock.Repository
	bus    shared.EventPublisher
	now    func() time.Time
	logger *zap.Logger
}

// NewStockService creates a stock command service. A nil now falls
// back to time.Now.
func NewStockService(repo *stock.Repository, bus shared.EventPublisher, now func() time.Time, logger *zap.Logger) *StockService {
	if now == nil {
		now = time.Now
	}
	return &StockService{repo: repo, bus: bus, now: now, logger: logger}
}

// RegisterNew registers a freshly produced palette, creating the
// product's aggregate when this is its first palette ever
func (s *StockService) RegisterNew(ctx context.Context, cmd warehouse.RegisterNew) error {
	if cmd.Label.IsZero() {
		return fmt.Errorf("palette label is required: %w", shared.ErrInvalidInput)
	}
	agent, err := s.repo.GetOrCreate(ctx, cmd.Label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		events, err := st.RegisterNew(cmd)
		if err != nil {
			return err
		}
		return s.emit(ctx, cmd.Label.RefNo, events)
	})
}

// Pick hands a palette to an operator
func (s *StockService) Pick(ctx context.Context, cmd warehouse.Pick) error {
	agent, err := s.repo.Get(ctx, cmd.Label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		events, err := st.Pick(cmd)
		if err != nil {
			return err
		}
		return s.emit(ctx, cmd.Label.RefNo, events)
	})
}

// Store puts a palette down at a target location
func (s *StockService) Store(ctx context.Context, cmd warehouse.Store) error {
	agent, err := s.repo.Get(ctx, cmd.Label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		events, err := st.Store(cmd)
		if err != nil {
			return err
		}
		return s.emit(ctx, cmd.Label.RefNo, events)
	})
}

// Lock marks a palette as not shippable. The aggregate does not track
// lock state, but the palette must exist; the event feeds the pick
// engine.
func (s *StockService) Lock(ctx context.Context, label warehouse.PaletteLabel, reason string) error {
	agent, err := s.repo.Get(ctx, label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		if st.GetLocation(label).IsUnknown() {
			return fmt.Errorf("lock %s: %w", label, shared.ErrNotFound)
		}
		return s.emit(ctx, label.RefNo, []shared.DomainEvent{warehouse.NewLocked(label, reason, s.now())})
	})
}

// Unlock makes a previously locked palette shippable again
func (s *StockService) Unlock(ctx context.Context, label warehouse.PaletteLabel) error {
	agent, err := s.repo.Get(ctx, label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		if st.GetLocation(label).IsUnknown() {
			return fmt.Errorf("unlock %s: %w", label, shared.ErrNotFound)
		}
		return s.emit(ctx, label.RefNo, []shared.DomainEvent{warehouse.NewUnlocked(label, s.now())})
	})
}

// Delivered removes a palette that left the warehouse. Idempotent when
// the palette is already gone.
func (s *StockService) Delivered(ctx context.Context, label warehouse.PaletteLabel) error {
	agent, err := s.repo.Get(ctx, label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		event := warehouse.NewDelivered(label, s.now())
		st.Delivered(event)
		return s.emit(ctx, label.RefNo, []shared.DomainEvent{event})
	})
}

// Destroyed removes a palette scrapped by quality control. Idempotent
// when the palette is already gone.
func (s *StockService) Destroyed(ctx context.Context, label warehouse.PaletteLabel, reason string) error {
	agent, err := s.repo.Get(ctx, label.RefNo)
	if err != nil {
		return err
	}
	return agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		event := warehouse.NewDestroyed(label, reason, s.now())
		st.Destroyed(event)
		return s.emit(ctx, label.RefNo, []shared.DomainEvent{event})
	})
}

// GetLocation returns the palette's current location. A palette or
// product the warehouse has never seen resolves to the unknown
// location.
func (s *StockService) GetLocation(ctx context.Context, label warehouse.PaletteLabel) (warehouse.Location, error) {
	agent, err := s.repo.Get(ctx, label.RefNo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return warehouse.Unknown(), nil
		}
		return warehouse.Unknown(), err
	}
	var location warehouse.Location
	err = agent.Execute(ctx, func(st *warehouse.ProductStock) error {
		location = st.GetLocation(label)
		return nil
	})
	return location, err
}

// LocationOf resolves a palette's physical location for the pick
// engine. Lookup failures degrade to the unknown location; building a
// pick list never aborts on a single palette.
func (s *StockService) LocationOf(label warehouse.PaletteLabel) warehouse.Location {
	location, err := s.GetLocation(context.Background(), label)
	if err != nil {
		s.logger.Warn("palette location lookup failed",
			zap.String("label", label.String()),
			zap.Error(err),
		)
		return warehouse.Unknown()
	}
	return location
}

// emit persists each event and routes it; both in the produced order.
// An append failure aborts the command before anything is routed for
// that event.
func (s *StockService) emit(ctx context.Context, refNo string, events []shared.DomainEvent) error {
	for _, event := range events {
		if err := s.repo.Persist(ctx, refNo, event); err != nil {
			return err
		}
		if err := s.bus.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
