package billpdf

// A4 portrait in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	// ContinuationGap separates the continuation banner, drawn at half the
	// margin, from the content resumed below it.
	ContinuationGap = 20.0
)

// Sheet is the fixed target page.
type Sheet struct {
	Width, Height, Margin float64
}

// A4 returns the A4 portrait sheet with the standard margin.
func A4() Sheet {
	return Sheet{Width: PageWidth, Height: PageHeight, Margin: Margin}
}

// ContentWidth is the width between the left and right margins.
func (s Sheet) ContentWidth() float64 { return s.Width - 2*s.Margin }

// Bottom is the lowest y content may reach.
func (s Sheet) Bottom() float64 { return s.Height - s.Margin }

// Top is where content resumes on a continuation page.
func (s Sheet) Top() float64 { return s.Margin + ContinuationGap }

// Cursor tracks the current page and vertical position. Sections move it
// forward; only the page break controller starts a new page.
type Cursor struct {
	Page int
	Y    float64

	sheet Sheet
}

// NewCursor returns a cursor at the top margin of the first page.
func NewCursor(s Sheet) *Cursor {
	return &Cursor{Page: 1, Y: s.Margin, sheet: s}
}

// Sheet returns the page geometry the cursor is bound to.
func (c *Cursor) Sheet() Sheet { return c.sheet }

// Advance moves the cursor down by h.
func (c *Cursor) Advance(h float64) { c.Y += h }

// MoveTo places the cursor at y, as returned by a section renderer.
func (c *Cursor) MoveTo(y float64) { c.Y = y }

// WouldOverflow reports whether a block of height h starting at the cursor
// would cross the bottom margin.
func (c *Cursor) WouldOverflow(h float64) bool {
	return c.Y+h > c.sheet.Bottom()
}

// Remaining is the height left above the bottom margin.
func (c *Cursor) Remaining() float64 {
	return c.sheet.Bottom() - c.Y
}

// atTop reports whether nothing has been placed since the last page break.
func (c *Cursor) atTop() bool {
	return c.Page > 1 && c.Y <= c.sheet.Top()
}

func (c *Cursor) breakPage() {
	c.Page++
	c.Y = c.sheet.Top()
}
