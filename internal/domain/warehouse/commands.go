package warehouse

// Commands are intents addressed to one ProductStock aggregate. They
// are never persisted; only the events they produce are.

// RegisterNew requests registration of a freshly produced palette
type RegisterNew struct {
	Label        PaletteLabel
	ScannedBoxes int
}

// Pick requests that an operator takes a palette from its current
// location
type Pick struct {
	Label    PaletteLabel
	Operator string
}

// Store requests that a palette is put down at a target location
type Store struct {
	Label    PaletteLabel
	Location Location
}
