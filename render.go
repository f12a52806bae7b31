package billpdf

import (
	"bytes"
	"strings"
	"time"

	"github.com/lvillar/billpdf/canvas"
	"github.com/lvillar/billpdf/fpdfcanvas"
)

// Result is a finished render.
type Result struct {
	FileName      string // <DOCTYPE>-<number>.pdf
	Data          []byte
	Pages         int
	Totals        Totals
	AmountInWords string
	NegativeTotal bool
	Warnings      []error // asset fallbacks and the negative total flag
}

// FileName returns the output name for a normalised document.
func FileName(v *View) string {
	return v.DocType + "-" + v.Number + ".pdf"
}

// SafeFileName replaces path separators so a file name taken from a
// document number stays inside its directory.
func SafeFileName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}

// Render lays out doc on A4 pages with the gofpdf backend and returns the
// PDF. The output depends only on its inputs: the creation date written
// into the file is the issue date unless WithCreationDate says otherwise.
func Render(doc Document, profile CompanyProfile, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	v, err := normalize(doc, profile, cfg)
	if err != nil {
		return nil, err
	}
	created := cfg.created
	if created.IsZero() {
		created = v.issued
	}
	if created.IsZero() {
		created = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	s := fpdfcanvas.New(
		fpdfcanvas.WithCreationDate(created),
		fpdfcanvas.WithMetadata(v.DocType+" "+v.Number, profile.Name, v.Label),
	)
	return emit(s, v, cfg)
}

// RenderOn is Render on a caller supplied surface.
func RenderOn(s canvas.Surface, doc Document, profile CompanyProfile, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	v, err := normalize(doc, profile, cfg)
	if err != nil {
		return nil, err
	}
	return emit(s, v, cfg)
}

// emit lays out v and serialises the surface. Nothing is returned unless
// every step succeeded.
func emit(s canvas.Surface, v *View, cfg *config) (*Result, error) {
	if err := newPager(s, v, cfg).run(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, &RenderError{Op: "Output", Err: err}
	}
	return &Result{
		FileName:      FileName(v),
		Data:          buf.Bytes(),
		Pages:         s.PageNo(),
		Totals:        v.Totals,
		AmountInWords: v.AmountInWords,
		NegativeTotal: v.NegativeTotal,
		Warnings:      v.Warnings,
	}, nil
}
