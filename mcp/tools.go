package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lvillar/billpdf"
	"github.com/lvillar/billpdf/docjson"
)

// RegisterDefaultTools adds the billing tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(NewTool("render_document",
		"Render a quotation, invoice, receipt or bill to an A4 PDF. Returns the PDF as base64 unless outputPath is given.",
		requestInput(map[string]Schema{
			"outputPath": {Type: "string", Description: "Optional file or directory to save the PDF. A directory gets the document's file name."},
		}),
		renderDocument))
	s.AddTool(NewTool("compute_totals",
		"Validate a document and return its subtotal, discount, tax, grand total and amount in words without rendering.",
		requestInput(nil), computeTotals))
	s.AddTool(NewTool("document_filename",
		"Return the file name a document renders to, such as INVOICE-INV-7.pdf.",
		requestInput(nil), documentFileName))
}

// requestInput is the input schema of a tool taking a render request,
// plus any extra properties.
func requestInput(extra map[string]Schema) Schema {
	props := map[string]Schema{
		"request": {Type: "object", Description: "Render request with mode, document, company and options. See billpdf://schema/request."},
	}
	for k, v := range extra {
		props[k] = v
	}
	return Schema{Type: "object", Properties: props, Required: []string{"request"}}
}

type requestArgs struct {
	Request json.RawMessage `json:"request"`
}

func (a requestArgs) parse() (*docjson.Parsed, error) {
	if len(a.Request) == 0 {
		return nil, fmt.Errorf("missing 'request' argument")
	}
	return docjson.Parse(a.Request)
}

type renderArgs struct {
	Request    json.RawMessage `json:"request"`
	OutputPath string          `json:"outputPath"`
}

type renderInfo struct {
	FileName      string   `json:"fileName"`
	Path          string   `json:"path,omitempty"`
	Pages         int      `json:"pages"`
	Bytes         int      `json:"bytes"`
	GrandTotal    float64  `json:"grandTotal"`
	AmountInWords string   `json:"amountInWords"`
	Warnings      []string `json:"warnings"`
}

type totalsInfo struct {
	Subtotal           float64  `json:"subtotal"`
	Discount           float64  `json:"discount"`
	DiscountedSubtotal float64  `json:"discountedSubtotal"`
	TaxPercentage      *float64 `json:"taxPercentage,omitempty"`
	Tax                *float64 `json:"tax,omitempty"`
	GrandTotal         float64  `json:"grandTotal"`
	AmountInWords      string   `json:"amountInWords"`
	NegativeTotal      bool     `json:"negativeTotal"`
	Warnings           []string `json:"warnings"`
}

func warnings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func jsonResult(v any) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return TextResult(string(data)), nil
}

func renderDocument(_ context.Context, args renderArgs) (ToolResult, error) {
	p, err := requestArgs{Request: args.Request}.parse()
	if err != nil {
		return ToolResult{}, err
	}
	res, err := billpdf.Render(p.Document, p.Profile, p.Options...)
	if err != nil {
		return ToolResult{}, fmt.Errorf("rendering PDF: %w", err)
	}
	info := renderInfo{
		FileName:      res.FileName,
		Pages:         res.Pages,
		Bytes:         len(res.Data),
		GrandTotal:    res.Totals.GrandTotal,
		AmountInWords: res.AmountInWords,
		Warnings:      warnings(res.Warnings),
	}

	if path := args.OutputPath; path != "" {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			path = filepath.Join(path, billpdf.SafeFileName(res.FileName))
		}
		if err := os.WriteFile(path, res.Data, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		info.Path = path
		return jsonResult(info)
	}

	result, err := jsonResult(info)
	if err != nil {
		return ToolResult{}, err
	}
	result.Content = append(result.Content, ContentBlock{
		Type:     "resource",
		MIMEType: "application/pdf",
		Data:     base64.StdEncoding.EncodeToString(res.Data),
	})
	return result, nil
}

func computeTotals(_ context.Context, args requestArgs) (ToolResult, error) {
	p, err := args.parse()
	if err != nil {
		return ToolResult{}, err
	}
	v, err := billpdf.Normalize(p.Document, p.Profile, p.Options...)
	if err != nil {
		return ToolResult{}, err
	}
	t := v.Totals
	info := totalsInfo{
		Subtotal:           t.Subtotal,
		Discount:           t.Discount,
		DiscountedSubtotal: t.DiscountedSubtotal,
		GrandTotal:         t.GrandTotal,
		AmountInWords:      v.AmountInWords,
		NegativeTotal:      v.NegativeTotal,
		Warnings:           warnings(v.Warnings),
	}
	if t.Taxed {
		info.TaxPercentage, info.Tax = &t.TaxPercentage, &t.Tax
	}
	return jsonResult(info)
}

func documentFileName(_ context.Context, args requestArgs) (ToolResult, error) {
	p, err := args.parse()
	if err != nil {
		return ToolResult{}, err
	}
	v, err := billpdf.Normalize(p.Document, p.Profile, p.Options...)
	if err != nil {
		return ToolResult{}, err
	}
	return TextResult(billpdf.FileName(v)), nil
}
