package warehouse

// PaletteLabel identifies one physical palette. A palette belongs to
// exactly one product; RefNo is the product reference number and ID is
// unique within that product. The zero value is not a valid label.
type PaletteLabel struct {
	RefNo string `json:"ref_no"`
	ID    string `json:"id"`
}

// NewPaletteLabel creates a palette label
func NewPaletteLabel(refNo, id string) PaletteLabel {
	return PaletteLabel{RefNo: refNo, ID: id}
}

// IsZero reports whether the label is missing either component
func (l PaletteLabel) IsZero() bool {
	return l.RefNo == "" || l.ID == ""
}

func (l PaletteLabel) String() string {
	return l.RefNo + "/" + l.ID
}
