package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestServer() *Server {
	s := NewServer("billpdf-mcp", "test")
	RegisterDefaultTools(s)
	RegisterDefaultResources(s)
	return s
}

// serve feeds lines to s and returns every response line.
func serve(t *testing.T, s *Server, lines ...string) []response {
	t.Helper()
	var out bytes.Buffer
	if err := s.Serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var resps []response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r response
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("decoding %q: %v", line, err)
		}
		resps = append(resps, r)
	}
	return resps
}

func call(t *testing.T, s *Server, method string, params any) response {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "id": 1, "method": method}
	if params != nil {
		req["params"] = params
	}
	line, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resps := serve(t, s, string(line))
	if len(resps) != 1 {
		t.Fatalf("%d responses, want 1", len(resps))
	}
	return resps[0]
}

// decode re-encodes a generic result into v.
func decode(t *testing.T, resp response, v any) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %d %s", resp.Error.Code, resp.Error.Message)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
}

func callTool(t *testing.T, s *Server, name string, args any) ToolResult {
	t.Helper()
	var res ToolResult
	decode(t, call(t, s, "tools/call", map[string]any{"name": name, "arguments": args}), &res)
	if len(res.Content) == 0 {
		t.Fatalf("%s: empty result", name)
	}
	return res
}

func billRequest() map[string]any {
	return map[string]any{
		"mode": "Bill",
		"document": map[string]any{
			"invoiceNumber": "B/7",
			"date":          "2024-01-15",
			"customerName":  "Marge",
			"paymentMode":   "Cash",
			"items": []any{
				map[string]any{"id": 1, "description": "Pretzels", "quantity": 1, "price": 50},
				map[string]any{"id": 2, "description": "Donuts", "quantity": 3, "price": 10},
			},
			"discount": 5,
		},
		"company": map[string]any{"name": "Acme Services"},
	}
}

func TestServerInitialize(t *testing.T) {
	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	decode(t, call(t, newTestServer(), "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
	}), &result)

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version %q", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "billpdf-mcp" {
		t.Errorf("server name %q", result.ServerInfo.Name)
	}
}

func TestServerToolsList(t *testing.T) {
	var result struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema Schema `json:"inputSchema"`
		} `json:"tools"`
	}
	decode(t, call(t, newTestServer(), "tools/list", nil), &result)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		if diff := cmp.Diff([]string{"request"}, tool.InputSchema.Required); diff != "" {
			t.Errorf("%s required (-want +got):\n%s", tool.Name, diff)
		}
	}
	// listed in name order
	want := []string{"compute_totals", "document_filename", "render_document"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tools (-want +got):\n%s", diff)
	}
}

func TestServerResourcesList(t *testing.T) {
	var result struct {
		Resources []Resource `json:"resources"`
	}
	decode(t, call(t, newTestServer(), "resources/list", nil), &result)

	var uris []string
	for _, r := range result.Resources {
		uris = append(uris, r.URI)
	}
	want := []string{"billpdf://schema/request", "billpdf://theme/default"}
	if diff := cmp.Diff(want, uris); diff != "" {
		t.Errorf("resources (-want +got):\n%s", diff)
	}
}

func TestServerProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code int
	}{
		{"parse error", `{"jsonrpc":`, codeParse},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"ping"}`, codeInvalidRequest},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"nonexistent/method"}`, codeMethodNotFound},
		{"unknown tool", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope","arguments":{}}}`, codeInvalidParams},
		{"unknown resource", `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"billpdf://nope"}}`, codeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resps := serve(t, newTestServer(), tt.line)
			if len(resps) != 1 || resps[0].Error == nil {
				t.Fatalf("responses %+v, want one error", resps)
			}
			if resps[0].Error.Code != tt.code {
				t.Errorf("code %d, want %d", resps[0].Error.Code, tt.code)
			}
		})
	}
}

func TestServerSkipsNotifications(t *testing.T) {
	resps := serve(t, newTestServer(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","method":"nonexistent/method"}`,
		`{"jsonrpc":"2.0","id":7,"method":"ping"}`,
	)
	if len(resps) != 1 || string(resps[0].ID) != "7" {
		t.Fatalf("responses %+v, want only the ping answer", resps)
	}
}

func TestServerMultipleRequests(t *testing.T) {
	resps := serve(t, newTestServer(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	)
	if len(resps) != 4 {
		t.Fatalf("%d responses, want 4", len(resps))
	}
	for i, r := range resps {
		if r.Error != nil {
			t.Errorf("response %d: %s", i, r.Error.Message)
		}
		if want := string(rune('1' + i)); string(r.ID) != want {
			t.Errorf("response %d has id %s", i, r.ID)
		}
	}
}

func TestServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := newTestServer().Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("answered after cancel: %s", out.String())
	}
}

func TestRenderDocumentTool(t *testing.T) {
	res := callTool(t, newTestServer(), "render_document", map[string]any{"request": billRequest()})
	if res.IsError {
		t.Fatalf("tool failed: %s", res.Content[0].Text)
	}

	var info renderInfo
	if err := json.Unmarshal([]byte(res.Content[0].Text), &info); err != nil {
		t.Fatalf("decoding info: %v", err)
	}
	want := renderInfo{
		FileName:      "BILL-B/7.pdf",
		Pages:         1,
		Bytes:         info.Bytes,
		GrandTotal:    75,
		AmountInWords: "Rupees Seventy Five Only /-",
		Warnings:      []string{},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("info (-want +got):\n%s", diff)
	}

	if len(res.Content) != 2 || res.Content[1].MIMEType != "application/pdf" {
		t.Fatalf("missing PDF block: %+v", res.Content)
	}
	pdf, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	if err != nil {
		t.Fatalf("decoding PDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || len(pdf) != info.Bytes {
		t.Errorf("PDF block is %d bytes, info says %d", len(pdf), info.Bytes)
	}
}

func TestRenderDocumentToDirectory(t *testing.T) {
	dir := t.TempDir()
	res := callTool(t, newTestServer(), "render_document", map[string]any{"request": billRequest(), "outputPath": dir})
	if res.IsError {
		t.Fatalf("tool failed: %s", res.Content[0].Text)
	}

	path := filepath.Join(dir, "BILL-B-7.pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("file is not a PDF")
	}
	if !strings.Contains(res.Content[0].Text, path) {
		t.Errorf("result does not name %s: %s", path, res.Content[0].Text)
	}
}

func TestComputeTotalsTool(t *testing.T) {
	res := callTool(t, newTestServer(), "compute_totals", map[string]any{"request": billRequest()})

	var got totalsInfo
	if err := json.Unmarshal([]byte(res.Content[0].Text), &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	want := totalsInfo{
		Subtotal:           80,
		Discount:           5,
		DiscountedSubtotal: 75,
		GrandTotal:         75,
		AmountInWords:      "Rupees Seventy Five Only /-",
		Warnings:           []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("totals (-want +got):\n%s", diff)
	}
}

func TestToolErrorsAreResults(t *testing.T) {
	req := billRequest()
	req["document"].(map[string]any)["items"] = []any{}

	tests := []struct {
		name string
		args any
		want string
	}{
		{"invalid document", map[string]any{"request": req}, "line item"},
		{"missing request", map[string]any{}, "missing 'request'"},
		{"unknown argument", map[string]any{"request": req, "colour": "red"}, "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, newTestServer(), "document_filename", tt.args)
			if !res.IsError || !strings.Contains(res.Content[0].Text, tt.want) {
				t.Errorf("got %q (isError %v), want an error mentioning %q", res.Content[0].Text, res.IsError, tt.want)
			}
		})
	}
}

func TestDocumentFileNameTool(t *testing.T) {
	res := callTool(t, newTestServer(), "document_filename", map[string]any{"request": billRequest()})
	if res.IsError || res.Content[0].Text != "BILL-B/7.pdf" {
		t.Errorf("got %q (isError %v)", res.Content[0].Text, res.IsError)
	}
}

func TestReadResources(t *testing.T) {
	s := newTestServer()
	for _, uri := range []string{"billpdf://schema/request", "billpdf://theme/default"} {
		var out struct {
			Contents []ResourceContent `json:"contents"`
		}
		decode(t, call(t, s, "resources/read", map[string]any{"uri": uri}), &out)
		if len(out.Contents) != 1 || !json.Valid([]byte(out.Contents[0].Text)) {
			t.Errorf("%s: contents %+v", uri, out.Contents)
		}
	}
}

func TestNewToolDecodesArguments(t *testing.T) {
	type args struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	s := NewServer("test", "0")
	s.AddTool(NewTool("greet", "Greets.", Schema{Type: "object"}, func(_ context.Context, a args) (ToolResult, error) {
		return TextResult(strings.Repeat("hi "+a.Name+" ", a.Count)), nil
	}))

	res := callTool(t, s, "greet", map[string]any{"name": "Marge", "count": 2})
	if got := res.Content[0].Text; got != "hi Marge hi Marge " {
		t.Errorf("got %q", got)
	}
}
