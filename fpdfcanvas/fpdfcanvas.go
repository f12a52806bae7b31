// Package fpdfcanvas implements canvas.Surface on top of gofpdf.
//
// The document is A4 portrait in points with automatic page breaks turned
// off: every break is decided by the caller or by the table primitive.
// Text is given in UTF-8 and translated to the cp1252 encoding of the core
// Helvetica font before measuring and drawing.
package fpdfcanvas

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/lvillar/billpdf/canvas"
	"github.com/lvillar/billpdf/table"
)

const family = "Helvetica"

// Option configures a Canvas.
type Option func(*config)

type config struct {
	created time.Time
	title   string
	author  string
	subject string
}

// WithCreationDate fixes the creation and modification dates written to the
// document info dictionary. Identical input and date give identical bytes.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}

// WithMetadata sets the document title, author and subject.
func WithMetadata(title, author, subject string) Option {
	return func(c *config) {
		c.title = title
		c.author = author
		c.subject = subject
	}
}

// Canvas is a gofpdf-backed canvas.Surface.
type Canvas struct {
	pdf  *gofpdf.Fpdf
	tr   func(string) string
	imp  *gofpdi.Importer
	size float64

	background int
	hasBG      bool
	registered map[string]bool
	placements []table.Placement
}

// New creates an empty A4 document. No page is added.
func New(opts ...Option) *Canvas {
	cfg := &config{created: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, opt := range opts {
		opt(cfg)
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	// the table primitive pads cells itself
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(cfg.created)
	pdf.SetModificationDate(cfg.created)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}
	if cfg.subject != "" {
		pdf.SetSubject(cfg.subject, true)
	}
	pdf.SetFont(family, "", 10)

	c := &Canvas{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		imp:        gofpdi.NewImporter(),
		size:       10,
		registered: make(map[string]bool),
	}
	pdf.SetHeaderFunc(c.drawBackground)
	return c
}

// PDF exposes the underlying document.
func (c *Canvas) PDF() *gofpdf.Fpdf { return c.pdf }

func (c *Canvas) PageSize() (float64, float64) { return c.pdf.GetPageSize() }

func (c *Canvas) AddPage() { c.pdf.AddPage() }

func (c *Canvas) PageNo() int { return c.pdf.PageNo() }

func (c *Canvas) SetFont(style canvas.FontStyle, size float64) {
	c.size = size
	c.pdf.SetFont(family, string(style), size)
}

func (c *Canvas) SetTextColor(col canvas.Color) {
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
}

func (c *Canvas) SetDrawColor(col canvas.Color) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
}

func (c *Canvas) SetLineDash(pattern []float64) {
	if len(pattern) == 0 {
		c.pdf.SetDashPattern([]float64{}, 0)
		return
	}
	c.pdf.SetDashPattern(pattern, 0)
}

func (c *Canvas) Text(x, y float64, s string, align canvas.Align) {
	s = c.tr(s)
	switch align {
	case canvas.AlignCenter:
		x -= c.pdf.GetStringWidth(s) / 2
	case canvas.AlignRight:
		x -= c.pdf.GetStringWidth(s)
	}
	c.pdf.Text(x, y, s)
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

// Image embeds img. A payload gofpdf cannot parse is reported as an error
// and leaves the document usable.
func (c *Canvas) Image(img canvas.Image, x, y, w, h float64) error {
	opt := gofpdf.ImageOptions{ImageType: img.Type}
	if !c.registered[img.Name] {
		c.pdf.RegisterImageOptionsReader(img.Name, opt, bytes.NewReader(img.Data))
		if err := c.takeError(); err != nil {
			return fmt.Errorf("fpdfcanvas: image %s: %w", img.Name, err)
		}
		c.registered[img.Name] = true
	}
	c.pdf.ImageOptions(img.Name, x, y, w, h, false, opt, 0, "")
	return nil
}

func (c *Canvas) measure(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *Canvas) WrapText(text string, maxWidth float64) []string {
	return canvas.Wrap(text, maxWidth, c.measure)
}

// DrawTable renders t with the table package.
func (c *Canvas) DrawTable(t canvas.Table, onPageBreak func(page int) float64) (float64, error) {
	st := t.Style
	tb := table.New(c.pdf)

	cols := make([]table.ColumnDef, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = table.ColumnDef{Width: col.Width, Align: alignStr(col.Align)}
	}
	tb.SetColumns(cols...)
	tb.SetPosition(t.X, t.Y).SetWidth(t.Width).SetBottom(t.Bottom)
	tb.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(st.CellPadding),
		LineHeight:  st.LineHeight,
		Border:      &table.BorderStyle{Width: 0.5, Color: rgb(st.Border)},
		HeaderStyle: &table.CellStyle{
			FillColor: ptr(rgb(st.HeadFill)),
			TextColor: ptr(rgb(st.HeadText)),
			Font:      &table.FontSpec{Family: family, Style: "B", Size: st.FontSize},
		},
		CellFont:  &table.FontSpec{Family: family, Size: st.FontSize},
		CellColor: ptr(rgb(st.BodyText)),
	})
	if onPageBreak != nil {
		tb.OnPageBreak(func(page int) float64 { return onPageBreak(page) })
	}

	if len(t.Head) > 0 {
		head := tb.AddHeaderRow().SetMinHeight(st.MinRowHeight)
		for _, h := range t.Head {
			head.AddCell(c.tr(h))
		}
	}
	for _, cells := range t.Rows {
		row := tb.AddRow().SetMinHeight(st.MinRowHeight)
		for _, s := range cells {
			row.AddCell(c.tr(s))
		}
	}

	if err := tb.Render(); err != nil {
		return 0, fmt.Errorf("fpdfcanvas: table: %w", err)
	}
	c.placements = tb.Placements()
	c.SetFont(canvas.Regular, c.size)
	return tb.FinalY(), nil
}

// Placements reports where each body row of the last table was drawn.
func (c *Canvas) Placements() []table.Placement { return c.placements }

// QRCode draws a square QR code with medium error correction.
func (c *Canvas) QRCode(payload string, x, y, size float64) error {
	key := barcode.RegisterQR(c.pdf, payload, qr.M, qr.Unicode)
	return c.drawCode(key, x, y, size, size)
}

// PDF417 draws a PDF417 stacked barcode at security level 2. The
// encoder picks text submodes from fixed tables, so the same payload
// always yields the same symbol.
func (c *Canvas) PDF417(payload string, x, y, w, h float64) error {
	code, err := pdf417.Encode(payload, 2)
	if err != nil {
		return fmt.Errorf("fpdfcanvas: barcode: %w", err)
	}
	return c.drawCode(barcode.Register(code), x, y, w, h)
}

func (c *Canvas) drawCode(key string, x, y, w, h float64) error {
	if err := c.takeError(); err != nil {
		return fmt.Errorf("fpdfcanvas: barcode: %w", err)
	}
	barcode.Barcode(c.pdf, key, x, y, w, h, false)
	if err := c.takeError(); err != nil {
		return fmt.Errorf("fpdfcanvas: barcode: %w", err)
	}
	return nil
}

// takeError returns and clears the document error so a failed asset does
// not poison the rest of the render.
func (c *Canvas) takeError() error {
	if !c.pdf.Err() {
		return nil
	}
	err := c.pdf.Error()
	c.pdf.ClearError()
	return err
}

// SetBackground imports the first page of a PDF to be stamped behind every
// page added afterwards. gofpdi writes the imported page's dictionaries in
// map order, so documents with a background are equivalent across renders
// but not byte-identical.
func (c *Canvas) SetBackground(data []byte) (err error) {
	if c.pdf.PageNo() > 0 {
		return fmt.Errorf("fpdfcanvas: background must be set before the first page")
	}
	defer func() {
		// gofpdi panics on malformed input
		if r := recover(); r != nil {
			err = fmt.Errorf("fpdfcanvas: importing background: %v", r)
		}
	}()
	rs := io.ReadSeeker(bytes.NewReader(data))
	tpl := c.imp.ImportPageFromStream(c.pdf, &rs, 1, "/MediaBox")
	if err := c.takeError(); err != nil {
		return fmt.Errorf("fpdfcanvas: importing background: %w", err)
	}
	c.background, c.hasBG = tpl, true
	return nil
}

func (c *Canvas) drawBackground() {
	if !c.hasBG {
		return
	}
	w, h := c.pdf.GetPageSize()
	c.imp.UseImportedTemplate(c.pdf, c.background, 0, 0, w, h)
}

// Output closes the document and writes it to w.
func (c *Canvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("fpdfcanvas: output: %w", err)
	}
	return nil
}

func alignStr(a canvas.Align) string {
	switch a {
	case canvas.AlignCenter:
		return "C"
	case canvas.AlignRight:
		return "R"
	}
	return "L"
}

func rgb(c canvas.Color) table.RGBColor {
	return table.RGBColor{R: int(c.R), G: int(c.G), B: int(c.B)}
}

func ptr[T any](v T) *T { return &v }
