package docjson_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/lvillar/billpdf/docjson"
)

func ExampleRender() {
	request := `{
		"mode": "Bill",
		"document": {
			"invoiceNumber": "B-7",
			"date": "2024-01-15",
			"customerName": "Marge",
			"paymentMode": "Cash",
			"items": [
				{"id": 1, "description": "Pretzels", "quantity": 1, "price": 50},
				{"id": 2, "description": "Donuts", "quantity": 3, "price": 10}
			],
			"discount": 5,
			"bottomMessage": "Thank you for shopping with us!"
		},
		"company": {
			"name": "Acme Services",
			"authorizedSignatory": {"name": "Wile E. Coyote", "designation": "Director"}
		},
		"options": {"referenceCode": true}
	}`

	var buf bytes.Buffer
	res, err := docjson.Render(&buf, []byte(request))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.FileName)
	fmt.Printf("%.2f\n", res.Totals.GrandTotal)
	fmt.Println(res.AmountInWords)
	// Output:
	// BILL-B-7.pdf
	// 75.00
	// Rupees Seventy Five Only /-
}
