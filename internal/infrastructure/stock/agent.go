package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
)

// ErrAgentStopped is returned when a command is submitted to an agent
// that has been shut down.
var ErrAgentStopped = errors.New("stock agent stopped")

const taskQueueSize = 64

type task struct {
	fn   func(*warehouse.ProductStock) error
	done chan error
}

// Agent wraps one live ProductStock with a single-consumer task queue.
// Commands submitted to the same agent execute one at a time in
// submission order; agents for different products run fully in
// parallel. The aggregate's own methods are not thread safe and must
// only ever be touched from inside Execute.
type Agent struct {
	stock    *warehouse.ProductStock
	tasks    chan task
	quit     chan struct{}
	stopped  chan struct{}
	warnings []ReplayWarning
}

// NewAgent creates an agent around the given aggregate and starts its
// worker. replayWarnings carries diagnostics accumulated while the
// aggregate was reconstructed; empty for a live aggregate.
func NewAgent(stock *warehouse.ProductStock, replayWarnings []ReplayWarning) *Agent {
	a := &Agent{
		stock:    stock,
		tasks:    make(chan task, taskQueueSize),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		warnings: replayWarnings,
	}
	go a.run()
	return a
}

// RefNo returns the product reference number of the wrapped aggregate
func (a *Agent) RefNo() string {
	return a.stock.RefNo()
}

// ReplayWarnings returns the diagnostics recorded while the aggregate
// was rebuilt from its history. A non-empty result means the aggregate
// state may be incomplete.
func (a *Agent) ReplayWarnings() []ReplayWarning {
	return a.warnings
}

// Execute submits fn to the agent's queue and waits for the result.
// The context is honored while the command is queued and while waiting
// for the result; a command that already started running is never
// interrupted.
func (a *Agent) Execute(ctx context.Context, fn func(*warehouse.ProductStock) error) error {
	t := task{fn: fn, done: make(chan error, 1)}

	select {
	case a.tasks <- t:
	case <-a.quit:
		return ErrAgentStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-a.stopped:
		// the submit may have raced the shutdown and parked the task in
		// the buffer after the worker drained it. The worker could also
		// have answered just before exiting, so check once more.
		select {
		case err := <-t.done:
			return err
		default:
			return ErrAgentStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts down the agent's worker. Queued commands that have not
// started yet fail with ErrAgentStopped.
func (a *Agent) Stop() {
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
	<-a.stopped
}

func (a *Agent) run() {
	defer close(a.stopped)
	for {
		select {
		case t := <-a.tasks:
			t.done <- a.invoke(t.fn)
		case <-a.quit:
			a.drain()
			return
		}
	}
}

func (a *Agent) drain() {
	for {
		select {
		case t := <-a.tasks:
			t.done <- ErrAgentStopped
		default:
			return
		}
	}
}

func (a *Agent) invoke(fn func(*warehouse.ProductStock) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stock command panicked: %v", r)
		}
	}()
	return fn(a.stock)
}
