package table

import (
	"github.com/jung-kurt/gofpdf"
)

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64 // Fixed width. 0 means auto/fill.
	MinWidth float64 // Minimum width for auto columns.
	MaxWidth float64 // Maximum width for auto columns. 0 means unlimited.
	Align    string  // Default alignment for this column ("L", "C", "R").
}

// Placement records where a body row was drawn.
type Placement struct {
	Row    int // index among body rows
	Page   int
	Y      float64
	Height float64
}

// PageBreakFunc is called after the table adds a page. It returns the y
// at which the table resumes on that page.
type PageBreakFunc func(page int) float64

// Table is a high-level table builder for generating PDF tables.
type Table struct {
	pdf        *gofpdf.Fpdf
	columns    []ColumnDef
	rows       []*Row
	style      TableStyle
	x, y       float64 // starting position (0,0 means current)
	tableWidth float64 // total table width (0 means page width minus margins)
	bottom     float64 // lowest y a row may reach (0 means page height minus bottom margin)
	onPage     PageBreakFunc

	placements []Placement
	finalY     float64
}

// New creates a new Table associated with the given PDF document.
func New(pdf *gofpdf.Fpdf) *Table {
	return &Table{
		pdf: pdf,
		style: TableStyle{
			CellPadding: UniformPadding(1),
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetColumnWidths is a convenience method to set column widths directly.
// A width of 0 means the column will auto-fill remaining space.
func (t *Table) SetColumnWidths(widths ...float64) *Table {
	t.columns = make([]ColumnDef, len(widths))
	for i, w := range widths {
		t.columns[i] = ColumnDef{Width: w}
	}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// SetPosition sets the starting position for the table.
// If not called, the table starts at the current PDF cursor position.
func (t *Table) SetPosition(x, y float64) *Table {
	t.x = x
	t.y = y
	return t
}

// SetWidth sets the total table width. If not called, uses page width minus margins.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// SetBottom sets the lowest y coordinate a row may extend to.
func (t *Table) SetBottom(y float64) *Table {
	t.bottom = y
	return t
}

// OnPageBreak registers fn to run on every page the table adds.
func (t *Table) OnPageBreak(fn PageBreakFunc) *Table {
	t.onPage = fn
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a header row. Header rows are drawn before the body
// and repeated at the top of each new page.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	t.rows = append(t.rows, r)
	return r
}

// FinalY returns the y coordinate just below the last rendered row.
func (t *Table) FinalY() float64 {
	return t.finalY
}

// Placements returns the position of every body row from the last Render.
func (t *Table) Placements() []Placement {
	return t.placements
}

// Render draws the table to the PDF document.
func (t *Table) Render() error {
	if t.pdf.Err() {
		return t.pdf.Error()
	}

	widths := t.calculateWidths()

	startX := t.x
	if startX == 0 {
		startX = t.pdf.GetX()
	}
	y := t.y
	if y == 0 {
		y = t.pdf.GetY()
	}
	bottom := t.bottom
	if bottom == 0 {
		_, pageH := t.pdf.GetPageSize()
		_, _, _, bMargin := t.pdf.GetMargins()
		bottom = pageH - bMargin
	}
	lineW := t.pdf.GetLineWidth()

	var headerRows, bodyRows []*Row
	for _, r := range t.rows {
		if r.isHeader {
			headerRows = append(headerRows, r)
		} else {
			bodyRows = append(bodyRows, r)
		}
	}

	for _, r := range headerRows {
		y = t.renderRow(r, widths, startX, y, true)
	}

	t.placements = t.placements[:0]
	// Each row breaks at most once, so a row taller than a whole page is
	// drawn below the repeated header and overruns the bottom.
	for i, r := range bodyRows {
		rowH := t.calculateRowHeight(r, widths, false)
		if y+rowH > bottom {
			y = t.newPage()
			for _, hr := range headerRows {
				y = t.renderRow(hr, widths, startX, y, true)
			}
		}
		t.placements = append(t.placements, Placement{Row: i, Page: t.pdf.PageNo(), Y: y, Height: rowH})
		y = t.renderRow(r, widths, startX, y, false)
	}

	t.finalY = y
	t.pdf.SetLineWidth(lineW)
	t.pdf.SetXY(startX, y)
	return t.pdf.Error()
}

func (t *Table) newPage() float64 {
	t.pdf.AddPage()
	if t.onPage != nil {
		return t.onPage(t.pdf.PageNo())
	}
	_, top, _, _ := t.pdf.GetMargins()
	return top
}

// calculateWidths computes final column widths based on definitions and available space.
func (t *Table) calculateWidths() []float64 {
	totalWidth := t.tableWidth
	if totalWidth == 0 {
		pageW, _ := t.pdf.GetPageSize()
		lMargin, _, rMargin, _ := t.pdf.GetMargins()
		totalWidth = pageW - lMargin - rMargin
	}

	numCols := len(t.columns)
	if numCols == 0 {
		if len(t.rows) > 0 {
			numCols = len(t.rows[0].cells)
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	widths := make([]float64, numCols)
	fixedTotal := 0.0
	autoCount := 0

	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoCount++
		}
	}

	if autoCount > 0 {
		remaining := totalWidth - fixedTotal
		if remaining < 0 {
			remaining = 0
		}
		autoWidth := remaining / float64(autoCount)
		for i, col := range t.columns {
			if col.Width == 0 {
				w := autoWidth
				if col.MinWidth > 0 && w < col.MinWidth {
					w = col.MinWidth
				}
				if col.MaxWidth > 0 && w > col.MaxWidth {
					w = col.MaxWidth
				}
				widths[i] = w
			}
		}
	}

	return widths
}

func (t *Table) lineHeight() float64 {
	if t.style.LineHeight > 0 {
		return t.style.LineHeight
	}
	_, fontSize := t.pdf.GetFontSize()
	return fontSize * 1.5
}

func (t *Table) applyFont(f *FontSpec) {
	if f != nil {
		t.pdf.SetFont(f.Family, f.Style, f.Size)
	}
}

// calculateRowHeight computes the height needed for a row based on cell content.
func (t *Table) calculateRowHeight(r *Row, widths []float64, isHeader bool) float64 {
	maxH := r.minH
	padding := t.style.CellPadding

	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		style := t.resolveCellStyle(cell, r, isHeader)
		t.applyFont(style.Font)

		contentW := widths[i] - padding.Left - padding.Right
		if contentW < 1 {
			contentW = 1
		}
		lines := t.pdf.SplitLines([]byte(cell.text), contentW)
		n := len(lines)
		if n == 0 {
			n = 1
		}
		cellH := float64(n)*t.lineHeight() + padding.Top + padding.Bottom
		if cellH > maxH {
			maxH = cellH
		}
	}

	return maxH
}

// renderRow draws r with its top edge at y and returns the y below it.
func (t *Table) renderRow(r *Row, widths []float64, startX, y float64, isHeader bool) float64 {
	rowH := t.calculateRowHeight(r, widths, isHeader)
	padding := t.style.CellPadding

	x := startX
	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		cellW := widths[i]
		style := t.resolveCellStyle(cell, r, isHeader)

		if style.FillColor != nil {
			t.pdf.SetFillColor(style.FillColor.R, style.FillColor.G, style.FillColor.B)
			t.pdf.Rect(x, y, cellW, rowH, "F")
		}

		if t.style.Border != nil {
			bc := t.style.Border.Color
			t.pdf.SetDrawColor(bc.R, bc.G, bc.B)
			if t.style.Border.Width > 0 {
				t.pdf.SetLineWidth(t.style.Border.Width)
			}
			t.pdf.Rect(x, y, cellW, rowH, "D")
		}

		if style.TextColor != nil {
			t.pdf.SetTextColor(style.TextColor.R, style.TextColor.G, style.TextColor.B)
		}
		t.applyFont(style.Font)

		align := "L"
		if style.Align != "" {
			align = style.Align
		} else if i < len(t.columns) && t.columns[i].Align != "" {
			align = t.columns[i].Align
		}

		contentW := cellW - padding.Left - padding.Right
		if contentW < 1 {
			contentW = 1
		}
		lineH := t.lineHeight()
		for j, line := range t.pdf.SplitLines([]byte(cell.text), contentW) {
			t.pdf.SetXY(x+padding.Left, y+padding.Top+float64(j)*lineH)
			t.pdf.CellFormat(contentW, lineH, string(line), "", 0, align, false, 0, "")
		}

		x += cellW
	}

	t.pdf.SetDrawColor(0, 0, 0)
	t.pdf.SetFillColor(0, 0, 0)
	t.pdf.SetTextColor(0, 0, 0)

	return y + rowH
}

// resolveCellStyle determines the effective style for a cell by merging
// table, header, row, and cell-level styles.
func (t *Table) resolveCellStyle(cell *Cell, row *Row, isHeader bool) CellStyle {
	var result CellStyle

	if t.style.CellFont != nil {
		result.Font = t.style.CellFont
	}
	if t.style.CellColor != nil {
		result.TextColor = t.style.CellColor
	}
	if isHeader && t.style.HeaderStyle != nil {
		mergeStyle(&result, t.style.HeaderStyle)
	}
	if row.style != nil {
		mergeStyle(&result, row.style)
	}
	if cell.style != nil {
		mergeStyle(&result, cell.style)
	}

	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
}
