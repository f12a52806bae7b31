// Package canvas defines the drawing capabilities the layout engine needs
// from a PDF backend.
//
// Coordinates are in points with the origin at the top-left corner of the
// page. Text is placed by its baseline, as in the underlying PDF writers.
package canvas

import "io"

// Color is an RGB color value.
type Color struct {
	R, G, B uint8
}

// FontStyle selects a face of the document font.
type FontStyle string

const (
	Regular FontStyle = ""
	Bold    FontStyle = "B"
	Italic  FontStyle = "I"
)

// Align is the horizontal anchoring of a text run relative to its x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Image is an encoded raster asset ready for embedding.
type Image struct {
	Name string // registration key, unique per document
	Type string // "PNG", "JPG" or "GIF"
	Data []byte
}

// Canvas is the set of drawing and measurement primitives used by the
// section renderers.
type Canvas interface {
	PageSize() (w, h float64)
	AddPage()
	PageNo() int

	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	// SetLineDash sets a dash pattern for subsequent lines; nil restores solid lines.
	SetLineDash(pattern []float64)

	Text(x, y float64, s string, align Align)
	Line(x1, y1, x2, y2 float64)
	Image(img Image, x, y, w, h float64) error

	// WrapText breaks text into lines no wider than maxWidth in the current font.
	WrapText(text string, maxWidth float64) []string
}

// TableRenderer lays out a table across as many pages as needed.
//
// Whenever the renderer starts a new page it calls onPageBreak with the new
// page number and resumes drawing at the returned y. DrawTable reports the
// y coordinate just below the last row.
type TableRenderer interface {
	DrawTable(t Table, onPageBreak func(page int) float64) (finalY float64, err error)
}

// Surface is a complete backend: drawing, table layout and serialisation.
type Surface interface {
	Canvas
	TableRenderer
	Output(w io.Writer) error
}

// Barcoder is implemented by surfaces that can draw 2D codes.
type Barcoder interface {
	QRCode(payload string, x, y, size float64) error
	PDF417(payload string, x, y, w, h float64) error
}

// Backgrounder is implemented by surfaces that can stamp an imported PDF
// page behind the content of every page. It must be called before the
// first AddPage.
type Backgrounder interface {
	SetBackground(pdf []byte) error
}
