package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicPaletteValidator(t *testing.T) {
	label := NewPaletteLabel("P-1", "900001")

	t.Run("accepts a count within bounds", func(t *testing.T) {
		v := NewBasicPaletteValidator(1, 30)
		result := v.IsValid(RegisterNew{Label: label, ScannedBoxes: 20})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Details)
	})

	t.Run("rejects a count below the minimum", func(t *testing.T) {
		v := NewBasicPaletteValidator(1, 30)
		result := v.IsValid(RegisterNew{Label: label, ScannedBoxes: 0})
		assert.False(t, result.Valid)
		assert.Contains(t, result.Details, "at least")
	})

	t.Run("rejects a count above the maximum", func(t *testing.T) {
		v := NewBasicPaletteValidator(1, 30)
		result := v.IsValid(RegisterNew{Label: label, ScannedBoxes: 31})
		assert.False(t, result.Valid)
		assert.Contains(t, result.Details, "at most")
	})

	t.Run("zero maximum disables the upper bound", func(t *testing.T) {
		v := NewBasicPaletteValidator(1, 0)
		result := v.IsValid(RegisterNew{Label: label, ScannedBoxes: 10000})
		assert.True(t, result.Valid)
	})
}

func TestBasicLocationPicker(t *testing.T) {
	picker := NewBasicLocationPicker(
		map[string]Location{"P-1": Storage("B", "12")},
		Storage("A", ""),
	)

	assert.Equal(t, Storage("B", "12"), picker.SuggestFor("P-1"))
	assert.Equal(t, Storage("A", ""), picker.SuggestFor("P-unknown"))
}
