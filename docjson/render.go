package docjson

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/lvillar/billpdf"
)

// ErrNoMode is returned when neither the request nor the document says
// which kind of document it is.
var ErrNoMode = errors.New("docjson: missing mode")

// Parsed is a request translated to the billpdf model.
type Parsed struct {
	Document billpdf.Document
	Profile  billpdf.CompanyProfile
	Options  []billpdf.Option
}

// Render parses a JSON request, renders it and writes the PDF to w.
func Render(w io.Writer, data []byte, opts ...billpdf.Option) (*billpdf.Result, error) {
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	res, err := billpdf.Render(p.Document, p.Profile, append(p.Options, opts...)...)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(res.Data); err != nil {
		return nil, fmt.Errorf("docjson: writing PDF: %w", err)
	}
	return res, nil
}

// Parse decodes a JSON request.
func Parse(data []byte) (*Parsed, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("docjson: parsing request: %w", err)
	}
	return ParseRequest(&req)
}

// ParseRequest translates a decoded request. Images that are not valid
// base64 are passed through as is and reported by the renderer.
func ParseRequest(req *Request) (*Parsed, error) {
	if len(req.Document) == 0 {
		return nil, fmt.Errorf("docjson: missing document")
	}
	mode := req.Mode
	if mode == "" {
		var pk peek
		if err := json.Unmarshal(req.Document, &pk); err != nil {
			return nil, fmt.Errorf("docjson: parsing document: %w", err)
		}
		mode = pk.Type
		if mode == "" {
			mode = pk.Mode
		}
	}
	if mode == "" {
		return nil, ErrNoMode
	}

	p := &Parsed{Profile: req.Company.profile()}
	if isQuotation(mode) {
		var q Quotation
		if err := json.Unmarshal(req.Document, &q); err != nil {
			return nil, fmt.Errorf("docjson: parsing quotation: %w", err)
		}
		p.Document = q.estimate()
	} else {
		var inv Invoice
		if err := json.Unmarshal(req.Document, &inv); err != nil {
			return nil, fmt.Errorf("docjson: parsing %s: %w", strings.ToLower(mode), err)
		}
		p.Document = inv.transaction(mode)
	}

	opts, err := req.Options.options()
	if err != nil {
		return nil, err
	}
	p.Options = opts
	return p, nil
}

func items(in []Item) []billpdf.LineItem {
	out := make([]billpdf.LineItem, len(in))
	for i, it := range in {
		out[i] = billpdf.LineItem{
			ID:          string(it.ID),
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
	}
	return out
}

func (q *Quotation) estimate() billpdf.Estimate {
	return billpdf.Estimate{
		Number:     q.QuotationNumber,
		Date:       q.Date,
		ValidUntil: q.ValidUntil,
		Client: billpdf.Client{
			Name:          q.ClientName,
			ContactPerson: q.ClientContactPerson,
			Address:       q.ClientAddress,
			Phone:         q.ClientPhone,
			Email:         q.ClientEmail,
		},
		ProjectDescription: q.ProjectDescription,
		Items:              items(q.Items),
		Discount:           q.Discount,
		TaxPercentage:      q.GSTPercentage,
		Terms:              q.TermsAndConditions,
		ClosingNote:        q.ClosingNote,
	}
}

func (inv *Invoice) transaction(mode string) billpdf.Transaction {
	return billpdf.Transaction{
		Variant:          variant(mode),
		Number:           inv.InvoiceNumber,
		Date:             inv.Date,
		Customer:         billpdf.Customer{Name: inv.CustomerName, Phone: inv.CustomerContact},
		PaymentMode:      paymentMode(inv.PaymentMode),
		PaymentReference: inv.UPIID,
		Items:            items(inv.Items),
		Discount:         inv.Discount,
		BottomMessage:    inv.BottomMessage,
	}
}

// variant matches mode case-insensitively. Unknown modes pass through and
// fail validation.
func variant(mode string) billpdf.Variant {
	for _, v := range []billpdf.Variant{billpdf.Invoice, billpdf.Receipt, billpdf.Bill} {
		if strings.EqualFold(mode, string(v)) {
			return v
		}
	}
	return billpdf.Variant(mode)
}

func paymentMode(mode string) billpdf.PaymentMode {
	for _, m := range []billpdf.PaymentMode{billpdf.Cash, billpdf.UPI, billpdf.BankTransfer} {
		if strings.EqualFold(mode, string(m)) {
			return m
		}
	}
	return billpdf.PaymentMode(mode)
}

func (c *Company) profile() billpdf.CompanyProfile {
	return billpdf.CompanyProfile{
		Name:       c.Name,
		Logo:       decodeDataURL(c.Logo),
		TaxID:      c.GSTIN,
		Address:    c.Address,
		Phone:      c.Contact,
		Email:      c.Email,
		Website:    c.Website,
		UPIID:      c.UPIID,
		Signatory:  billpdf.Signatory{Name: c.AuthorizedSignatory.Name, Title: c.AuthorizedSignatory.Designation},
		Signature:  decodeDataURL(c.Signature),
		Letterhead: decodeDataURL(c.Letterhead),
	}
}

func (o *Options) options() ([]billpdf.Option, error) {
	if o == nil {
		return nil, nil
	}
	opts := []billpdf.Option{
		billpdf.WithPaymentQR(o.PaymentQR),
		billpdf.WithReferenceCode(o.ReferenceCode),
	}
	if o.TaxLabel != "" || o.TaxIDLabel != "" {
		tax, id := o.TaxLabel, o.TaxIDLabel
		if tax == "" {
			tax = "GST"
		}
		if id == "" {
			id = tax + "IN"
		}
		opts = append(opts, billpdf.WithTaxLabel(tax, id))
	}
	if o.CreationDate != "" {
		t, err := time.Parse(time.DateOnly, o.CreationDate)
		if err != nil {
			return nil, fmt.Errorf("docjson: creationDate: %w", err)
		}
		opts = append(opts, billpdf.WithCreationDate(t))
	}
	return opts, nil
}

// decodeDataURL returns the payload of a data URL or a bare base64 string.
// Anything else is returned unchanged.
func decodeDataURL(s string) []byte {
	if s == "" {
		return nil
	}
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return []byte(s)
		}
		if strings.HasSuffix(meta, ";base64") {
			if b, err := base64.StdEncoding.DecodeString(payload); err == nil {
				return b
			}
			return []byte(payload)
		}
		if u, err := url.PathUnescape(payload); err == nil {
			return []byte(u)
		}
		return []byte(payload)
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b
	}
	return []byte(s)
}
