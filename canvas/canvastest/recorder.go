// Package canvastest provides an in-memory canvas.Surface that records every
// drawing operation instead of producing a PDF.
package canvastest

import (
	"fmt"
	"io"
	"strings"

	"github.com/lvillar/billpdf/canvas"
)

// A4 portrait in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

// Op is one recorded drawing operation.
type Op struct {
	Page int
	Kind string // page, text, line, image, head, row, qr, pdf417, background
	X, Y float64
	W, H float64
	Text string
	Size float64
	Bold bool
	Dash bool
}

// Recorder is a deterministic canvas.Surface. Glyphs are RuneWidth×size wide.
type Recorder struct {
	Ops []Op

	// ImageErr, when set, is returned by every Image call.
	ImageErr error
	// RuneWidth is the advance of one rune per point of font size (default 0.5).
	RuneWidth float64

	page  int
	size  float64
	style canvas.FontStyle
	dash  bool
	bg    bool
}

// New returns an empty recorder with no pages.
func New() *Recorder {
	return &Recorder{RuneWidth: 0.5, size: 10}
}

func (r *Recorder) record(op Op) {
	op.Page = r.page
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) PageSize() (float64, float64) { return PageWidth, PageHeight }

func (r *Recorder) AddPage() {
	r.page++
	r.record(Op{Kind: "page"})
	if r.bg {
		r.record(Op{Kind: "background", W: PageWidth, H: PageHeight})
	}
}

func (r *Recorder) PageNo() int { return r.page }

func (r *Recorder) SetFont(style canvas.FontStyle, size float64) {
	r.style = style
	r.size = size
}

func (r *Recorder) SetTextColor(canvas.Color) {}
func (r *Recorder) SetDrawColor(canvas.Color) {}

func (r *Recorder) SetLineDash(pattern []float64) { r.dash = len(pattern) > 0 }

func (r *Recorder) Text(x, y float64, s string, _ canvas.Align) {
	r.record(Op{Kind: "text", X: x, Y: y, Text: s, Size: r.size, Bold: r.style == canvas.Bold})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.record(Op{Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Dash: r.dash})
}

func (r *Recorder) Image(img canvas.Image, x, y, w, h float64) error {
	if r.ImageErr != nil {
		return r.ImageErr
	}
	r.record(Op{Kind: "image", X: x, Y: y, W: w, H: h, Text: img.Name})
	return nil
}

// Measure returns the width of s in the current font.
func (r *Recorder) Measure(s string) float64 {
	return float64(len([]rune(s))) * r.RuneWidth * r.size
}

func (r *Recorder) WrapText(text string, maxWidth float64) []string {
	return canvas.Wrap(text, maxWidth, r.Measure)
}

// DrawTable paginates whole rows: a row that does not fit above t.Bottom
// moves to a new page below the repeated head. Each row breaks at most
// once, so one taller than a page overruns the bottom.
func (r *Recorder) DrawTable(t canvas.Table, onPageBreak func(page int) float64) (float64, error) {
	widths := t.ColumnWidths()
	r.SetFont(canvas.Regular, t.Style.FontSize)

	y := t.Y
	head := func() {
		if len(t.Head) == 0 {
			return
		}
		h := r.rowHeight(t, widths, t.Head)
		r.record(Op{Kind: "head", X: t.X, Y: y, W: t.Width, H: h, Text: strings.Join(t.Head, "|")})
		y += h
	}
	head()
	for _, row := range t.Rows {
		h := r.rowHeight(t, widths, row)
		if y+h > t.Bottom {
			r.AddPage()
			y = onPageBreak(r.page)
			r.SetFont(canvas.Regular, t.Style.FontSize)
			head()
		}
		r.record(Op{Kind: "row", X: t.X, Y: y, W: t.Width, H: h, Text: strings.Join(row, "|")})
		y += h
	}
	return y, nil
}

func (r *Recorder) rowHeight(t canvas.Table, widths []float64, cells []string) float64 {
	pad := t.Style.CellPadding
	lines := 1
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		if n := len(r.WrapText(c, widths[i]-2*pad)); n > lines {
			lines = n
		}
	}
	h := float64(lines)*t.Style.LineHeight + 2*pad
	if h < t.Style.MinRowHeight {
		h = t.Style.MinRowHeight
	}
	return h
}

func (r *Recorder) QRCode(payload string, x, y, size float64) error {
	r.record(Op{Kind: "qr", X: x, Y: y, W: size, H: size, Text: payload})
	return nil
}

func (r *Recorder) PDF417(payload string, x, y, w, h float64) error {
	r.record(Op{Kind: "pdf417", X: x, Y: y, W: w, H: h, Text: payload})
	return nil
}

func (r *Recorder) SetBackground(pdf []byte) error {
	if len(pdf) == 0 {
		return fmt.Errorf("canvastest: empty background")
	}
	r.bg = true
	return nil
}

// Output writes one line per recorded operation.
func (r *Recorder) Output(w io.Writer) error {
	for _, op := range r.Ops {
		_, err := fmt.Fprintf(w, "%d %s %.2f %.2f %.2f %.2f %q\n", op.Page, op.Kind, op.X, op.Y, op.W, op.H, op.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

// OnPage returns the operations recorded on page n, in order.
func (r *Recorder) OnPage(n int) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Page == n {
			ops = append(ops, op)
		}
	}
	return ops
}

// Texts returns the text of every text op, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// PageOf returns the page of the first text op containing s, or 0.
func (r *Recorder) PageOf(s string) int {
	for _, op := range r.Ops {
		if op.Kind == "text" && strings.Contains(op.Text, s) {
			return op.Page
		}
	}
	return 0
}
