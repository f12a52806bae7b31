package billpdf

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func quotation(items ...LineItem) Estimate {
	return Estimate{
		Number:        "Q-2024-001",
		Date:          "2024-01-15",
		ValidUntil:    "2024-02-14",
		Client:        Client{Name: "Globex", ContactPerson: "Hank Scorpio", Phone: "555-0100", Email: "hank@globex.test"},
		Items:         items,
		TaxPercentage: 18,
	}
}

func bill() Transaction {
	return Transaction{
		Variant:     Bill,
		Number:      "B-7",
		Date:        "2024-01-15",
		Customer:    Customer{Name: "Marge", Phone: "555-0199"},
		PaymentMode: Cash,
		Items: []LineItem{
			{ID: "a", Description: "Pretzels", Quantity: 1, Price: 50},
			{ID: "b", Description: "Donuts", Quantity: 3, Price: 10},
		},
		Discount: 5,
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestEstimateScenario(t *testing.T) {
	v, err := Normalize(quotation(LineItem{Description: "Consulting", Quantity: 2, Price: 100}), CompanyProfile{Name: "Acme"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := Totals{
		Subtotal:           200,
		DiscountedSubtotal: 200,
		TaxPercentage:      18,
		Tax:                36,
		GrandTotal:         236,
		Taxed:              true,
	}
	if diff := cmp.Diff(want, v.Totals, approx); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
	if got := v.Money(v.Totals.GrandTotal); got != "Rs 236.00" {
		t.Errorf("grand total printed as %q", got)
	}
	if want := "Rupees Two Hundred And Thirty Six Only /-"; v.AmountInWords != want {
		t.Errorf("AmountInWords = %q, want %q", v.AmountInWords, want)
	}
	if v.Label != "Quotation" || v.DocType != "QUOTATION" {
		t.Errorf("labels = %q/%q", v.Label, v.DocType)
	}
	if v.Date != "15-01-2024" || v.ValidUntil != "14-02-2024" {
		t.Errorf("dates = %q/%q", v.Date, v.ValidUntil)
	}
	if got := FileName(v); got != "QUOTATION-Q-2024-001.pdf" {
		t.Errorf("FileName = %q", got)
	}
}

func TestBillScenario(t *testing.T) {
	v, err := Normalize(bill(), CompanyProfile{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := Totals{Subtotal: 80, Discount: 5, DiscountedSubtotal: 75, GrandTotal: 75}
	if diff := cmp.Diff(want, v.Totals, approx); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
	if v.DocType != "BILL" || FileName(v) != "BILL-B-7.pdf" {
		t.Errorf("DocType %q, FileName %q", v.DocType, FileName(v))
	}
	if v.NegativeTotal || len(v.Warnings) != 0 {
		t.Errorf("unexpected flags: negative=%v warnings=%v", v.NegativeTotal, v.Warnings)
	}
}

func TestSubtotalIsSumOfLineTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 50; n++ {
		items := make([]LineItem, n)
		var want float64
		for i := range items {
			q := 1 + rng.Intn(20)
			p := float64(1+rng.Intn(100000)) / 100
			items[i] = LineItem{Quantity: q, Price: p}
			want += float64(q) * p
		}
		got, err := ComputeTotals(quotation(items...))
		if err != nil {
			t.Fatal(err)
		}
		if round2(got.Subtotal) != round2(want) {
			t.Fatalf("%d items: subtotal %.2f, want %.2f", n, got.Subtotal, want)
		}
	}
}

func TestTaxScalesOnlyTheTaxLine(t *testing.T) {
	base := quotation(LineItem{Quantity: 3, Price: 33.33}, LineItem{Quantity: 1, Price: 0.01})
	var subtotal float64
	for i, pct := range []float64{0, 5, 12, 18, 28} {
		base.TaxPercentage = pct
		got, err := ComputeTotals(base)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			subtotal = got.Subtotal
		}
		if got.Subtotal != subtotal || got.DiscountedSubtotal != subtotal {
			t.Errorf("pct %v changed the subtotal: %v", pct, got.Subtotal)
		}
		if want := subtotal * pct / 100; math.Abs(got.Tax-want) > 1e-9 {
			t.Errorf("pct %v: tax %v, want %v", pct, got.Tax, want)
		}
		if want := subtotal * (1 + pct/100); math.Abs(got.GrandTotal-want) > 1e-9 {
			t.Errorf("pct %v: grand total %v, want %v", pct, got.GrandTotal, want)
		}
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		is       error
		problems []string
	}{
		{
			name:     "no items",
			doc:      quotation(),
			is:       ErrNoItems,
			problems: []string{"Items"},
		},
		{
			name: "bad fields",
			doc: Estimate{
				Number:     "Q-1",
				Date:       "15/01/2024",
				ValidUntil: "",
				Items:      []LineItem{{Quantity: 0, Price: 10}, {Quantity: 1, Price: -2}},
				Discount:   -1,
			},
			problems: []string{"Date", "ValidUntil", "Items[0].Quantity", "Items[1].Price", "Discount"},
		},
		{
			name: "transaction variant and mode",
			doc: Transaction{
				Variant:     "Quote",
				Number:      "X",
				Date:        "2024-01-15",
				PaymentMode: "Cheque",
				Items:       []LineItem{{Quantity: 1, Price: 1}},
			},
			problems: []string{"Variant", "PaymentMode"},
		},
		{
			name:     "nil estimate",
			doc:      (*Estimate)(nil),
			is:       ErrUnknownDocument,
			problems: []string{"unsupported"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.doc, CompanyProfile{})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want *ValidationError", err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v does not match %v", err, tt.is)
			}
			if len(verr.Problems) != len(tt.problems) {
				t.Fatalf("problems = %q, want %d entries", verr.Problems, len(tt.problems))
			}
			for i, p := range tt.problems {
				if !strings.HasPrefix(verr.Problems[i], p) && !strings.Contains(verr.Problems[i], p) {
					t.Errorf("problem %d = %q, want mention of %q", i, verr.Problems[i], p)
				}
			}
		})
	}
}

func TestPointerDocuments(t *testing.T) {
	b := bill()
	v, err := Normalize(&b, CompanyProfile{})
	if err != nil {
		t.Fatalf("Normalize(*Transaction): %v", err)
	}
	if _, ok := v.Doc.(Transaction); !ok {
		t.Errorf("Doc is %T, want Transaction", v.Doc)
	}
}

func TestNegativeTotalIsFlaggedNotClamped(t *testing.T) {
	b := bill()
	b.Discount = 100
	v, err := Normalize(b, CompanyProfile{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v.Totals.GrandTotal != -20 {
		t.Errorf("grand total = %v, want -20", v.Totals.GrandTotal)
	}
	if !v.NegativeTotal {
		t.Error("NegativeTotal not set")
	}
	if len(v.Warnings) != 1 || !errors.Is(v.Warnings[0], ErrNegativeTotal) {
		t.Errorf("warnings = %v", v.Warnings)
	}
	if want := "Rupees Minus Twenty Only /-"; v.AmountInWords != want {
		t.Errorf("AmountInWords = %q, want %q", v.AmountInWords, want)
	}
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		cur    Currency
		want   string
	}{
		{236, Rupee, "Rupees Two Hundred And Thirty Six Only /-"},
		{0, Rupee, "Rupees Zero Only /-"},
		{0.004, Rupee, "Rupees Zero Only /-"},
		{1005.5, Rupee, "Rupees One Thousand And Five And Fifty Paise Only /-"},
		{75, Currency{Symbol: "$", Name: "Dollars", Minor: "cents"}, "Dollars Seventy Five Only /-"},
		{12.01, Currency{Name: "Euros", Minor: "cents"}, "Euros Twelve And One Cents Only /-"},
	}
	for _, tt := range tests {
		if got := AmountInWords(tt.amount, tt.cur); got != tt.want {
			t.Errorf("AmountInWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestUndecodableImagesBecomeWarnings(t *testing.T) {
	v, err := Normalize(bill(), CompanyProfile{Logo: []byte("nope"), Signature: []byte("nope"), Letterhead: []byte("nope")})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if v.Logo != nil || v.Signature != nil || v.Letterhead != nil {
		t.Error("broken assets should be dropped")
	}
	var assets []string
	for _, w := range v.Warnings {
		var aerr *AssetError
		if !errors.As(w, &aerr) || !errors.Is(w, ErrAsset) {
			t.Errorf("warning %v is not an asset error", w)
			continue
		}
		assets = append(assets, aerr.Asset)
	}
	if diff := cmp.Diff([]string{"logo", "signature", "letterhead"}, assets); diff != "" {
		t.Errorf("warned assets (-want +got):\n%s", diff)
	}
}
