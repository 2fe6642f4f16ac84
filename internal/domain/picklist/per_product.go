package picklist

import (
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/shared"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
)

// PaletteInfo is an immutable snapshot of one fulfillable palette.
// ReadyAt is fixed at registration and, together with the label id, is
// the ordering key of the per-product queue.
type PaletteInfo struct {
	Label   warehouse.PaletteLabel `json:"label"`
	ReadyAt time.Time              `json:"ready_at"`
}

func lessPaletteInfo(a, b PaletteInfo) bool {
	if !a.ReadyAt.Equal(b.ReadyAt) {
		return a.ReadyAt.Before(b.ReadyAt)
	}
	return a.Label.ID < b.Label.ID
}

type paletteEntry struct {
	info      PaletteInfo
	available bool
}

// PerProduct is the pick engine's index for one product: palettes
// ordered by (readyAt, label id) plus a by-label lookup carrying the
// mutable availability flag. The ordered queue holds only immutable
// snapshots; anything that would change the ordering key has to go
// through remove and reinsert.
//
// PerProduct is safe for concurrent use: projection updates take the
// write lock, reads take the read lock.
type PerProduct struct {
	mu    sync.RWMutex
	queue *btree.BTreeG[PaletteInfo]
	index map[warehouse.PaletteLabel]paletteEntry
}

// NewPerProduct creates an empty per-product index
func NewPerProduct() *PerProduct {
	return &PerProduct{
		queue: btree.NewG(2, lessPaletteInfo),
		index: make(map[warehouse.PaletteLabel]paletteEntry),
	}
}

// Apply folds one event into the index. Only the event kinds that
// affect fulfillability change anything; the rest are no-ops. Events
// must arrive in the order the aggregate persisted them.
func (p *PerProduct) Apply(event shared.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := event.(type) {
	case *warehouse.Registered:
		p.add(PaletteInfo{Label: e.Label, ReadyAt: e.ReadyAt})
	case *warehouse.Locked:
		p.setAvailable(e.Label, false)
	case *warehouse.Unlocked:
		p.setAvailable(e.Label, true)
	case *warehouse.Delivered:
		p.remove(e.Label)
	case *warehouse.Destroyed:
		p.remove(e.Label)
	}
}

// First returns up to amount available palettes in (readyAt, label id)
// order. Fewer entries than asked for is not an error.
func (p *PerProduct) First(amount int) []PaletteInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if amount <= 0 {
		return nil
	}
	result := make([]PaletteInfo, 0, amount)
	p.queue.Ascend(func(info PaletteInfo) bool {
		if p.index[info.Label].available {
			result = append(result, info)
		}
		return len(result) < amount
	})
	return result
}

// Len returns the number of palettes in the index, available or not
func (p *PerProduct) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.index)
}

func (p *PerProduct) add(info PaletteInfo) {
	// duplicate registration keeps the original entry
	if _, ok := p.index[info.Label]; ok {
		return
	}
	p.queue.ReplaceOrInsert(info)
	p.index[info.Label] = paletteEntry{info: info, available: true}
}

func (p *PerProduct) setAvailable(label warehouse.PaletteLabel, available bool) {
	if entry, ok := p.index[label]; ok {
		entry.available = available
		p.index[label] = entry
	}
}

func (p *PerProduct) remove(label warehouse.PaletteLabel) {
	if entry, ok := p.index[label]; ok {
		delete(p.index, label)
		p.queue.Delete(entry.info)
	}
}
