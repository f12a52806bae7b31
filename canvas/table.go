package canvas

// Column describes one table column. A zero Width shares the remaining space.
type Column struct {
	Width float64
	Align Align
}

// TableStyle controls the look and metrics of a table.
type TableStyle struct {
	FontSize     float64
	LineHeight   float64
	CellPadding  float64
	MinRowHeight float64
	HeadFill     Color
	HeadText     Color
	BodyText     Color
	Border       Color
}

// Table is a self-contained table description handed to a TableRenderer.
type Table struct {
	X, Y    float64
	Width   float64
	Bottom  float64 // no row may extend below this y
	Head    []string
	Rows    [][]string
	Columns []Column
	Style   TableStyle
}

// ColumnWidths resolves auto columns against the table width.
func (t Table) ColumnWidths() []float64 {
	widths := make([]float64, len(t.Columns))
	fixed, auto := 0.0, 0
	for i, c := range t.Columns {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}
	share := (t.Width - fixed) / float64(auto)
	if share < 0 {
		share = 0
	}
	for i, c := range t.Columns {
		if c.Width <= 0 {
			widths[i] = share
		}
	}
	return widths
}
