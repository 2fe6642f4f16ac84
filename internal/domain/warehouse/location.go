package warehouse

// LocationKind enumerates the closed set of location states a palette
// can be in.
type LocationKind string

const (
	// LocationProduction is the production output buffer where every
	// palette physically starts
	LocationProduction LocationKind = "production"
	// LocationQuarantine holds palettes that failed validation
	LocationQuarantine LocationKind = "quarantine"
	// LocationOnTheMove means an operator is carrying the palette
	LocationOnTheMove LocationKind = "on_the_move"
	// LocationStorage is a concrete rack slot in the warehouse
	LocationStorage LocationKind = "storage"
	// LocationUnknown is returned when the system cannot tell where a
	// palette is
	LocationUnknown LocationKind = "unknown"
)

// Location is an immutable value describing where a palette is.
// Transitions replace the whole value; fields are never mutated in
// place.
type Location struct {
	Kind LocationKind `json:"kind"`
	// Operator is set only for on-the-move locations
	Operator string `json:"operator,omitempty"`
	// Area and Slot are set only for storage locations
	Area string `json:"area,omitempty"`
	Slot string `json:"slot,omitempty"`
}

// Production returns the production output location
func Production() Location {
	return Location{Kind: LocationProduction}
}

// Quarantine returns the quarantine location
func Quarantine() Location {
	return Location{Kind: LocationQuarantine}
}

// OnTheMove returns a location describing a palette carried by the
// given operator
func OnTheMove(operator string) Location {
	return Location{Kind: LocationOnTheMove, Operator: operator}
}

// Storage returns a concrete rack slot location
func Storage(area, slot string) Location {
	return Location{Kind: LocationStorage, Area: area, Slot: slot}
}

// Unknown returns the unknown location
func Unknown() Location {
	return Location{Kind: LocationUnknown}
}

// IsUnknown reports whether the location is the unknown location.
// The zero value of Location is treated as unknown as well.
func (l Location) IsUnknown() bool {
	return l.Kind == LocationUnknown || l.Kind == ""
}

func (l Location) String() string {
	switch l.Kind {
	case LocationOnTheMove:
		return string(LocationOnTheMove) + "(" + l.Operator + ")"
	case LocationStorage:
		return string(LocationStorage) + "(" + l.Area + "/" + l.Slot + ")"
	case "":
		return string(LocationUnknown)
	default:
		return string(l.Kind)
	}
}
