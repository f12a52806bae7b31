package billpdf

import (
	"io"
	"log"
	"math"
	"time"

	"github.com/lvillar/billpdf/canvas"
)

// Theme holds the colours and line heights used by every section.
type Theme struct {
	Primary  canvas.Color // document label and section headers
	Text     canvas.Color
	Light    canvas.Color // continuation banner, terms, rules
	Border   canvas.Color // table grid
	HeadFill canvas.Color // table head background

	LineHeight      float64 // wrapped body text
	SmallLineHeight float64 // terms and conditions
}

// DefaultTheme returns the blue-on-grey theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:         canvas.Color{R: 43, G: 108, B: 176},
		Text:            canvas.Color{R: 45, G: 55, B: 72},
		Light:           canvas.Color{R: 113, G: 128, B: 150},
		Border:          canvas.Color{R: 200, G: 200, B: 200},
		HeadFill:        canvas.Color{R: 243, G: 244, B: 246},
		LineHeight:      12,
		SmallLineHeight: 10,
	}
}

func (t *Theme) check() error {
	for _, lh := range []struct {
		name string
		v    float64
	}{{"theme line height", t.LineHeight}, {"theme small line height", t.SmallLineHeight}} {
		if !(lh.v > 0) || math.IsInf(lh.v, 0) {
			return &OverflowError{Section: lh.name, Height: lh.v}
		}
	}
	return nil
}

// Currency names the unit amounts are printed and spelled in.
type Currency struct {
	Symbol string // printed before amounts, e.g. "Rs"
	Name   string // spelled before the amount in words, e.g. "Rupees"
	Minor  string // spelled after the fractional part, e.g. "paise"
}

// Rupee is the default currency.
var Rupee = Currency{Symbol: "Rs", Name: "Rupees", Minor: "paise"}

// Option configures a render.
type Option func(*config)

type config struct {
	theme         Theme
	currency      Currency
	taxLabel      string
	taxIDLabel    string
	created       time.Time
	paymentQR     bool
	referenceCode bool
	logger        *log.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		theme:      DefaultTheme(),
		currency:   Rupee,
		taxLabel:   "GST",
		taxIDLabel: "GSTIN",
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(c *config) {
		c.theme = t
	}
}

// WithCurrency sets the currency amounts are printed and spelled in.
func WithCurrency(cur Currency) Option {
	return func(c *config) {
		c.currency = cur
	}
}

// WithTaxLabel sets the name of the tax line ("GST") and of the company's
// registration id ("GSTIN").
func WithTaxLabel(tax, registration string) Option {
	return func(c *config) {
		c.taxLabel = tax
		c.taxIDLabel = registration
	}
}

// WithCreationDate fixes the creation date written into the PDF. By default
// the issue date of the document is used, so the same input always yields
// the same bytes.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}

// WithPaymentQR draws a UPI payment QR code in the payment details of a
// transaction paid by UPI when the company has a UPI id.
func WithPaymentQR(on bool) Option {
	return func(c *config) {
		c.paymentQR = on
	}
}

// WithReferenceCode draws a PDF417 barcode encoding the document type,
// number, date and grand total after the footer.
func WithReferenceCode(on bool) Option {
	return func(c *config) {
		c.referenceCode = on
	}
}

// WithLogger sets the logger asset fallbacks are reported to. Nothing is
// logged by default.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
