package warehouse

import "fmt"

// ValidationResult carries the outcome of palette registration
// validation. It is embedded in the Registered event so that replays
// see the same outcome the live command saw.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Details string `json:"details,omitempty"`
}

// ValidResult returns a passing validation result
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing validation result with details
func InvalidResult(details string) ValidationResult {
	return ValidationResult{Valid: false, Details: details}
}

// PaletteValidator validates registration data before a palette enters
// stock
type PaletteValidator interface {
	IsValid(cmd RegisterNew) ValidationResult
}

// BasicPaletteValidator accepts palettes whose scanned box count falls
// within configured bounds
type BasicPaletteValidator struct {
	MinBoxes int
	MaxBoxes int
}

// NewBasicPaletteValidator creates a validator with the given bounds.
// A MaxBoxes of zero disables the upper bound.
func NewBasicPaletteValidator(minBoxes, maxBoxes int) *BasicPaletteValidator {
	return &BasicPaletteValidator{MinBoxes: minBoxes, MaxBoxes: maxBoxes}
}

// IsValid checks the scanned box count against the configured bounds
func (v *BasicPaletteValidator) IsValid(cmd RegisterNew) ValidationResult {
	if cmd.ScannedBoxes < v.MinBoxes {
		return InvalidResult(fmt.Sprintf("scanned %d boxes, at least %d required", cmd.ScannedBoxes, v.MinBoxes))
	}
	if v.MaxBoxes > 0 && cmd.ScannedBoxes > v.MaxBoxes {
		return InvalidResult(fmt.Sprintf("scanned %d boxes, at most %d allowed", cmd.ScannedBoxes, v.MaxBoxes))
	}
	return ValidResult()
}
