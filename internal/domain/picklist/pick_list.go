package picklist

import "github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"

// PickItem assigns one concrete palette and its physical location to
// an order
type PickItem struct {
	Label    warehouse.PaletteLabel `json:"label"`
	Location warehouse.Location     `json:"location"`
}

// PickList is the ordered plan produced for an order. Items appear in
// order-item order, and within one item in FIFO readiness order. A
// pick list may hold fewer palettes than the order asked for; checking
// fulfillment is the caller's concern.
type PickList struct {
	Items []PickItem `json:"items"`
}

func (p *PickList) add(label warehouse.PaletteLabel, location warehouse.Location) {
	p.Items = append(p.Items, PickItem{Label: label, Location: location})
}

// Len returns the number of palettes on the list
func (p PickList) Len() int {
	return len(p.Items)
}
