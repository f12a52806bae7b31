// Package billpdf lays out quotations, invoices, receipts and bills on A4
// pages and renders them to PDF.
//
// A Document is either an Estimate or a Transaction. Render normalises it,
// draws the sections in a fixed order on a canvas.Surface, breaks pages
// ahead of blocks that must stay together and returns the PDF bytes with
// the derived totals:
//
//	res, err := billpdf.Render(billpdf.Estimate{...}, profile)
//	if err != nil {
//		return err
//	}
//	os.WriteFile(res.FileName, res.Data, 0o644)
package billpdf

// Document is the tagged union of the document shapes the engine renders.
// It is implemented by Estimate and Transaction only.
type Document interface {
	document()
}

// LineItem is one row of the item table.
type LineItem struct {
	ID          string // caller bookkeeping, not rendered
	Description string
	Quantity    int     `validate:"gt=0"`
	Price       float64 `validate:"gt=0"`
}

// Total is Quantity × Price.
func (it LineItem) Total() float64 {
	return float64(it.Quantity) * it.Price
}

// Client is the addressee of an estimate.
type Client struct {
	Name          string
	ContactPerson string
	Address       string
	Phone         string
	Email         string
}

// Estimate is a quotation: it carries a validity date, a tax line and
// terms and conditions.
type Estimate struct {
	Number             string `validate:"required"`
	Date               string `validate:"required,datetime=2006-01-02"`
	ValidUntil         string `validate:"required,datetime=2006-01-02"`
	Client             Client
	ProjectDescription string
	Items              []LineItem `validate:"dive"`
	Discount           float64    `validate:"gte=0"`
	TaxPercentage      float64    `validate:"gte=0"`
	Terms              string
	ClosingNote        string
}

func (Estimate) document() {}

// Variant distinguishes the transaction documents.
type Variant string

const (
	Invoice Variant = "Invoice"
	Receipt Variant = "Receipt"
	Bill    Variant = "Bill"
)

// PaymentMode is how a transaction was settled.
type PaymentMode string

const (
	Cash         PaymentMode = "Cash"
	UPI          PaymentMode = "UPI"
	BankTransfer PaymentMode = "Bank Transfer"
)

// Customer is the addressee of a transaction.
type Customer struct {
	Name  string
	Phone string
}

// Transaction is an invoice, receipt or bill. It has no tax line.
type Transaction struct {
	Variant          Variant `validate:"required,oneof=Invoice Receipt Bill"`
	Number           string  `validate:"required"`
	Date             string  `validate:"required,datetime=2006-01-02"`
	Customer         Customer
	PaymentMode      PaymentMode `validate:"required,oneof=Cash UPI 'Bank Transfer'"`
	PaymentReference string      // UPI id or bank transaction id
	Items            []LineItem  `validate:"dive"`
	Discount         float64     `validate:"gte=0"`
	BottomMessage    string
}

func (Transaction) document() {}

// Signatory is the person signing the document.
type Signatory struct {
	Name  string
	Title string
}

// CompanyProfile describes the issuing company. Images are encoded PNG,
// JPEG, GIF, WebP, BMP or TIFF bytes; Letterhead is a PDF whose first page
// is drawn behind every page.
type CompanyProfile struct {
	Name       string
	Logo       []byte
	TaxID      string
	Address    string
	Phone      string
	Email      string
	Website    string
	UPIID      string
	Signatory  Signatory
	Signature  []byte
	Letterhead []byte
}
