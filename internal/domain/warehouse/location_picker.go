package warehouse

// LocationPicker suggests a storage location for palettes of a product
type LocationPicker interface {
	SuggestFor(refNo string) Location
}

// BasicLocationPicker suggests locations from a static per-product map
// and falls back to a default location for products it does not know
type BasicLocationPicker struct {
	preferred map[string]Location
	fallback  Location
}

// NewBasicLocationPicker creates a picker over the given preferences.
// The preferred map is copied; later mutation of the argument has no
// effect.
func NewBasicLocationPicker(preferred map[string]Location, fallback Location) *BasicLocationPicker {
	copied := make(map[string]Location, len(preferred))
	for refNo, location := range preferred {
		copied[refNo] = location
	}
	return &BasicLocationPicker{preferred: copied, fallback: fallback}
}

// SuggestFor returns the preferred location for the product, or the
// fallback when no preference is configured
func (p *BasicLocationPicker) SuggestFor(refNo string) Location {
	if location, ok := p.preferred[refNo]; ok {
		return location
	}
	return p.fallback
}
