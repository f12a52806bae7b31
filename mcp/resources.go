package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lvillar/billpdf"
)

// RegisterDefaultResources adds the reference resources to the server.
// Resources use the billpdf:// scheme.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "billpdf://schema/request",
		Name:        "Render Request Example",
		Description: "An example render request accepted by render_document, compute_totals and document_filename.",
		MIMEType:    "application/json",
		Read:        readRequestExample,
	})

	s.AddResource(Resource{
		URI:         "billpdf://theme/default",
		Name:        "Default Theme",
		Description: "Colors and line heights used by the layout.",
		MIMEType:    "application/json",
		Read:        readTheme,
	})
}

const exampleRequest = `{
  "mode": "Invoice",
  "document": {
    "invoiceNumber": "INV-7",
    "date": "2024-01-15",
    "customerName": "Marge",
    "customerContact": "555-0199",
    "paymentMode": "UPI",
    "upiId": "UTR123",
    "items": [
      {"id": 1, "description": "Pretzels", "quantity": 1, "price": 50},
      {"id": 2, "description": "Donuts", "quantity": 3, "price": 10}
    ],
    "discount": 5,
    "bottomMessage": "Thank you for your business!"
  },
  "company": {
    "name": "Acme Services",
    "gstin": "29ABCDE1234F1Z5",
    "address": "42 Main Road, Bengaluru",
    "contact": "+91 80 1234 5678",
    "email": "billing@acme.test",
    "upiId": "acme@upi",
    "logo": "data:image/png;base64,...",
    "authorizedSignatory": {"name": "Wile E. Coyote", "designation": "Director"}
  },
  "options": {"paymentQR": true, "referenceCode": false}
}
`

func readRequestExample(_ context.Context, uri string) ([]ResourceContent, error) {
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     exampleRequest,
	}}, nil
}

func readTheme(_ context.Context, uri string) ([]ResourceContent, error) {
	t := billpdf.DefaultTheme()
	data, err := json.MarshalIndent(map[string]interface{}{
		"primary":         t.Primary,
		"text":            t.Text,
		"light":           t.Light,
		"border":          t.Border,
		"headFill":        t.HeadFill,
		"lineHeight":      t.LineHeight,
		"smallLineHeight": t.SmallLineHeight,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding theme: %w", err)
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
