package picklist

// Order is the transient demand an outbound shipment has to satisfy.
// Orders are never persisted.
type Order struct {
	Items []OrderItem `json:"items"`
}

// OrderItem requests an amount of palettes of one product
type OrderItem struct {
	RefNo  string `json:"ref_no"`
	Amount int    `json:"amount"`
}
