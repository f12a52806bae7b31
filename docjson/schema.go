// Package docjson reads render requests in the JSON shape used by the
// billing web app and turns them into billpdf documents.
//
// Images are data URLs, as produced by a browser file input. Example:
//
//	{
//	  "mode": "Quotation",
//	  "document": {
//	    "quotationNumber": "Q-2024-001",
//	    "date": "2024-01-15",
//	    "validUntil": "2024-02-14",
//	    "clientName": "Globex",
//	    "items": [{"id": 1, "description": "Consulting", "quantity": 2, "price": 100}],
//	    "gstPercentage": 18
//	  },
//	  "company": {
//	    "name": "Acme Services",
//	    "logo": "data:image/png;base64,iVBORw0...",
//	    "authorizedSignatory": {"name": "Wile E. Coyote", "designation": "Director"}
//	  }
//	}
package docjson

import (
	"encoding/json"
	"strings"
)

// Request is one render: the document, its mode and the issuing company.
type Request struct {
	Mode     string          `json:"mode,omitempty"` // Quotation, Invoice, Receipt or Bill
	Document json.RawMessage `json:"document"`
	Company  Company         `json:"company"`
	Options  *Options        `json:"options,omitempty"`
}

// Options toggles the optional parts of the layout.
type Options struct {
	PaymentQR     bool   `json:"paymentQR,omitempty"`
	ReferenceCode bool   `json:"referenceCode,omitempty"`
	TaxLabel      string `json:"taxLabel,omitempty"`     // default GST
	TaxIDLabel    string `json:"taxIdLabel,omitempty"`   // default GSTIN
	CreationDate  string `json:"creationDate,omitempty"` // YYYY-MM-DD, default issue date
}

// ItemID accepts the numeric ids of the web app as well as strings.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

// Item is a line item.
type Item struct {
	ID          ItemID  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Quotation is the estimate document.
type Quotation struct {
	QuotationNumber     string  `json:"quotationNumber"`
	Date                string  `json:"date"`
	ValidUntil          string  `json:"validUntil"`
	ClientName          string  `json:"clientName"`
	ClientContactPerson string  `json:"clientContactPerson"`
	ClientAddress       string  `json:"clientAddress"`
	ClientPhone         string  `json:"clientPhone"`
	ClientEmail         string  `json:"clientEmail"`
	ProjectDescription  string  `json:"projectDescription"`
	Items               []Item  `json:"items"`
	Discount            float64 `json:"discount"`
	GSTPercentage       float64 `json:"gstPercentage"`
	TermsAndConditions  string  `json:"termsAndConditions"`
	ClosingNote         string  `json:"closingNote"`
}

// Invoice is the invoice, receipt and bill document.
type Invoice struct {
	Type            string  `json:"type,omitempty"` // set on stored records
	Mode            string  `json:"mode"`
	InvoiceNumber   string  `json:"invoiceNumber"`
	Date            string  `json:"date"`
	CustomerName    string  `json:"customerName"`
	CustomerContact string  `json:"customerContact"`
	PaymentMode     string  `json:"paymentMode"`
	UPIID           string  `json:"upiId"` // UPI id or transaction id
	Items           []Item  `json:"items"`
	Discount        float64 `json:"discount"`
	BottomMessage   string  `json:"bottomMessage"`
}

// Signatory is the person signing the document.
type Signatory struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
}

// Company is the issuing company profile. Logo, Signature and Letterhead
// are data URLs or bare base64.
type Company struct {
	Name                string    `json:"name"`
	Logo                string    `json:"logo,omitempty"`
	GSTIN               string    `json:"gstin,omitempty"`
	Address             string    `json:"address,omitempty"`
	Contact             string    `json:"contact,omitempty"`
	Email               string    `json:"email,omitempty"`
	Website             string    `json:"website,omitempty"`
	UPIID               string    `json:"upiId,omitempty"`
	AuthorizedSignatory Signatory `json:"authorizedSignatory"`
	Signature           string    `json:"signature,omitempty"`
	Letterhead          string    `json:"letterhead,omitempty"`
}

// peek reads the discriminators a stored record carries inside the
// document itself.
type peek struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
}

func isQuotation(mode string) bool {
	return strings.EqualFold(mode, "Quotation") || strings.EqualFold(mode, "Estimate")
}
