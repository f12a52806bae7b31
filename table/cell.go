package table

import "fmt"

// Cell represents a single text cell in a table row.
type Cell struct {
	text  string
	style *CellStyle
}

// Text returns the cell content.
func (c *Cell) Text() string { return c.text }

// SetStyle sets the style for this cell, overriding table/row defaults.
func (c *Cell) SetStyle(s CellStyle) *Cell {
	c.style = &s
	return c
}

// SetAlign sets the horizontal alignment for this cell.
func (c *Cell) SetAlign(align string) *Cell {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	c.style.Align = align
	return c
}

// Row represents a single row in a table.
type Row struct {
	cells    []*Cell
	style    *CellStyle
	isHeader bool
	minH     float64
}

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{text: text}
	r.cells = append(r.cells, c)
	return c
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// SetStyle sets the style for all cells in this row.
func (r *Row) SetStyle(s CellStyle) *Row {
	r.style = &s
	return r
}

// SetMinHeight sets the minimum height for this row.
func (r *Row) SetMinHeight(h float64) *Row {
	r.minH = h
	return r
}
