package billpdf

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lvillar/billpdf/asset"
	"github.com/lvillar/billpdf/canvas"
	"github.com/lvillar/billpdf/words"
)

var validate = validator.New()

// maxAmount bounds totals that can still be spelled out.
const maxAmount = 1e15

// Totals are derived from the line items on every render. Values are kept
// unrounded; rounding to two digits happens when they are printed.
type Totals struct {
	Subtotal           float64
	Discount           float64
	DiscountedSubtotal float64
	TaxPercentage      float64
	Tax                float64
	GrandTotal         float64
	Taxed              bool // true for estimates
}

// ComputeTotals applies the discount once to the subtotal and, for an
// estimate, the tax percentage once to the discounted subtotal.
func ComputeTotals(doc Document) (Totals, error) {
	switch d := deref(doc).(type) {
	case Estimate:
		t := Totals{Subtotal: sum(d.Items), Discount: d.Discount, TaxPercentage: d.TaxPercentage, Taxed: true}
		t.DiscountedSubtotal = t.Subtotal - t.Discount
		t.Tax = t.DiscountedSubtotal * (t.TaxPercentage / 100)
		t.GrandTotal = t.DiscountedSubtotal + t.Tax
		return t, nil
	case Transaction:
		t := Totals{Subtotal: sum(d.Items), Discount: d.Discount}
		t.DiscountedSubtotal = t.Subtotal - t.Discount
		t.GrandTotal = t.DiscountedSubtotal
		return t, nil
	}
	return Totals{}, unknown(doc)
}

func sum(items []LineItem) float64 {
	var s float64
	for _, it := range items {
		s += it.Total()
	}
	return s
}

// deref turns pointer documents into values so callers switch on two cases.
func deref(doc Document) Document {
	switch d := doc.(type) {
	case *Estimate:
		if d != nil {
			return *d
		}
		return nil
	case *Transaction:
		if d != nil {
			return *d
		}
		return nil
	}
	return doc
}

func unknown(doc Document) error {
	return &ValidationError{
		Kind:     "document",
		Problems: []string{fmt.Sprintf("unsupported document type %T", doc)},
		Err:      ErrUnknownDocument,
	}
}

// View is a validated document with everything the sections draw already
// derived.
type View struct {
	Doc        Document // Estimate or Transaction value
	Label      string   // Quotation, Invoice, Receipt or Bill
	DocType    string   // upper-cased label
	Number     string
	Date       string // DD-MM-YYYY
	ValidUntil string // DD-MM-YYYY, estimates only
	Items      []LineItem

	Totals        Totals
	AmountInWords string
	NegativeTotal bool

	Profile    CompanyProfile
	Logo       *canvas.Image
	Signature  *canvas.Image
	Letterhead []byte

	Currency   Currency
	TaxLabel   string
	TaxIDLabel string

	Warnings []error

	issued time.Time
	log    *log.Logger
}

func (v *View) warn(err error) {
	v.Warnings = append(v.Warnings, err)
	if v.log != nil {
		v.log.Printf("%v", err)
	}
}

// Money formats an amount with the currency symbol and two digits.
func (v *View) Money(amount float64) string {
	return fmt.Sprintf("%s %.2f", v.Currency.Symbol, round2(amount))
}

// Normalize validates doc and derives the totals, labels, display dates and
// decoded images. Undecodable images are recorded as warnings and left out.
func Normalize(doc Document, profile CompanyProfile, opts ...Option) (*View, error) {
	return normalize(doc, profile, newConfig(opts))
}

func normalize(doc Document, profile CompanyProfile, cfg *config) (*View, error) {
	v := &View{
		Profile:    profile,
		Currency:   cfg.currency,
		TaxLabel:   cfg.taxLabel,
		TaxIDLabel: cfg.taxIDLabel,
		log:        cfg.logger,
	}

	switch d := deref(doc).(type) {
	case Estimate:
		if err := check("estimate", d, d.Items); err != nil {
			return nil, err
		}
		v.Doc, v.Label, v.Number, v.Items = d, "Quotation", d.Number, d.Items
		v.Date, v.ValidUntil = formatDate(d.Date), formatDate(d.ValidUntil)
		v.issued, _ = time.Parse(time.DateOnly, d.Date)
	case Transaction:
		if err := check("transaction", d, d.Items); err != nil {
			return nil, err
		}
		v.Doc, v.Label, v.Number, v.Items = d, string(d.Variant), d.Number, d.Items
		v.Date = formatDate(d.Date)
		v.issued, _ = time.Parse(time.DateOnly, d.Date)
	default:
		return nil, unknown(doc)
	}
	v.DocType = strings.ToUpper(v.Label)

	t, err := ComputeTotals(v.Doc)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(t.GrandTotal) || math.IsInf(t.GrandTotal, 0) || math.Abs(t.GrandTotal) >= maxAmount {
		return nil, &ValidationError{
			Kind:     strings.ToLower(kindName(v.Doc)),
			Problems: []string{fmt.Sprintf("grand total %v is out of range", t.GrandTotal)},
		}
	}
	v.Totals = t
	v.AmountInWords = AmountInWords(t.GrandTotal, cfg.currency)
	if round2(t.GrandTotal) < 0 {
		v.NegativeTotal = true
		v.warn(fmt.Errorf("%w: %s", ErrNegativeTotal, v.Money(t.GrandTotal)))
	}

	v.Logo = v.decode("logo", profile.Logo)
	v.Signature = v.decode("signature", profile.Signature)
	if len(profile.Letterhead) > 0 {
		if asset.IsPDF(profile.Letterhead) {
			v.Letterhead = profile.Letterhead
		} else {
			v.warn(&AssetError{Asset: "letterhead", Err: errors.New("not a PDF document")})
		}
	}
	return v, nil
}

func kindName(doc Document) string {
	if _, ok := doc.(Estimate); ok {
		return "Estimate"
	}
	return "Transaction"
}

func (v *View) decode(name string, data []byte) *canvas.Image {
	if len(data) == 0 {
		return nil
	}
	img, err := asset.Decode(name, data)
	if err != nil {
		v.warn(&AssetError{Asset: name, Err: err})
		return nil
	}
	return &img
}

// check runs the struct validation and reports every failing field.
func check(kind string, doc any, items []LineItem) error {
	var problems []string
	var cause error
	if len(items) == 0 {
		problems = append(problems, "Items: at least one line item is required")
		cause = ErrNoItems
	}
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{Kind: kind, Problems: []string{err.Error()}, Err: err}
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
		if cause == nil {
			cause = verrs
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Kind: kind, Problems: problems, Err: cause}
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "datetime":
		return fmt.Sprintf("%s: %q is not a YYYY-MM-DD date", field, fe.Value())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must not be less than %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", field, fe.Value(), fe.Param())
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}

// AmountInWords spells amount in the currency, e.g. 236 with Rupee gives
// "Rupees Two Hundred And Thirty Six Only /-". The minor unit is spelled
// when the amount rounds to a non-zero fraction; negative amounts are
// prefixed with "Minus".
func AmountInWords(amount float64, cur Currency) string {
	cents := math.Round(math.Abs(amount) * 100)
	whole, minor := int64(cents/100), int64(math.Mod(cents, 100))

	s := words.Cardinal(whole)
	if minor > 0 {
		s += " and " + words.Cardinal(minor)
		if cur.Minor != "" {
			s += " " + cur.Minor
		}
	}
	if amount < 0 && cents > 0 {
		s = "minus " + s
	}
	// Casers are stateful; one per call.
	s = cases.Title(language.English).String(s)
	if cur.Name != "" {
		s = cur.Name + " " + s
	}
	return s + " Only /-"
}

func formatDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("02-01-2006")
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// round2 rounds half away from zero to two digits and folds -0 into 0.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
