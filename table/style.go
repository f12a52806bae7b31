// Package table lays out tabular data on a gofpdf document.
//
// Rows are atomic: a row that would cross the bottom limit moves to a new
// page, header rows are repeated at the top of every page, and an optional
// callback runs on each page the table starts so callers can draw running
// headers and choose where the table resumes.
package table

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Family string
	Style  string  // "", "B", "I", "BI"
	Size   float64 // in points
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color RGBColor
}

// CellStyle defines the visual appearance of a cell.
type CellStyle struct {
	FillColor *RGBColor
	TextColor *RGBColor
	Font      *FontSpec
	Align     string // "L", "C", "R"
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border      *BorderStyle
	HeaderStyle *CellStyle
	CellPadding Padding
	CellFont    *FontSpec
	CellColor   *RGBColor
	// LineHeight is the distance between wrapped lines inside a cell.
	// Zero means 1.5 times the font size.
	LineHeight float64
}
