package picklist

import "github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"

// PaletteLocations resolves the physical location of a palette. It is
// consulted only while materializing a pick list.
type PaletteLocations interface {
	LocationOf(label warehouse.PaletteLabel) warehouse.Location
}

// Products gives access to the per-product indexes the engine selects
// from
type Products interface {
	Product(refNo string) *PerProduct
}

// Fifo builds pick lists by serving the longest-ready available
// palettes first
type Fifo struct {
	locations PaletteLocations
	products  Products
}

// NewFifo creates a pick engine over the given indexes and location
// resolver
func NewFifo(locations PaletteLocations, products Products) *Fifo {
	return &Fifo{locations: locations, products: products}
}

// PickList selects palettes for each order item in item order. Items
// that cannot be fully served yield fewer entries with no error.
func (f *Fifo) PickList(order Order) PickList {
	var list PickList
	for _, item := range order.Items {
		for _, info := range f.products.Product(item.RefNo).First(item.Amount) {
			list.add(info.Label, f.locations.LocationOf(info.Label))
		}
	}
	return list
}
