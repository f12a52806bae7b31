// Package mcp serves billpdf over the Model Context Protocol: newline
// delimited JSON-RPC 2.0 on a stream, protocol revision 2024-11-05, with
// tools and read-only resources.
//
// # Usage with Claude Desktop
//
// Add to your claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "billpdf": {
//	      "command": "billpdf-mcp"
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"
)

const protocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeParse          = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// maxMessage bounds one request line; render requests carry base64 images.
const maxMessage = 16 << 20

// Schema is the subset of JSON Schema used to describe tool input.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

// Tool is a callable tool. Handler receives the raw "arguments" object.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema Schema      `json:"inputSchema"`
	Handler     ToolHandler `json:"-"`
}

// ToolHandler executes a tool. A returned error becomes a result with
// IsError set, as the protocol wants for failures inside the tool.
type ToolHandler func(ctx context.Context, args json.RawMessage) (ToolResult, error)

// NewTool builds a Tool whose arguments are decoded into A. Unknown
// argument names are rejected.
func NewTool[A any](name, description string, schema Schema, fn func(context.Context, A) (ToolResult, error)) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
		Handler: func(ctx context.Context, raw json.RawMessage) (ToolResult, error) {
			var args A
			if len(raw) > 0 {
				dec := json.NewDecoder(bytes.NewReader(raw))
				dec.DisallowUnknownFields()
				if err := dec.Decode(&args); err != nil {
					return ToolResult{}, fmt.Errorf("%s: arguments: %w", name, err)
				}
			}
			return fn(ctx, args)
		},
	}
}

// ToolResult is the result of a tool call.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of a tool result.
type ContentBlock struct {
	Type     string `json:"type"` // "text" or "resource"
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64
}

// TextResult is a result holding a single text block.
func TextResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// Resource is a readable resource.
type Resource struct {
	URI         string       `json:"uri"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	MIMEType    string       `json:"mimeType,omitempty"`
	Read        ResourceFunc `json:"-"`
}

// ResourceFunc returns the contents of a resource.
type ResourceFunc func(ctx context.Context, uri string) ([]ResourceContent, error)

// ResourceContent is the content of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// notification reports whether the message expects no response.
func (r *request) notification() bool { return len(r.ID) == 0 }

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type method func(ctx context.Context, params json.RawMessage) (any, *rpcError)

// Server dispatches MCP requests to registered tools and resources.
type Server struct {
	name, version string
	tools         map[string]Tool
	resources     map[string]Resource
	methods       map[string]method
	logger        *log.Logger

	mu  sync.Mutex // serialises writes to out
	out io.Writer
}

// NewServer returns a server with no tools or resources.
func NewServer(name, version string) *Server {
	s := &Server{
		name:      name,
		version:   version,
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		logger:    log.New(io.Discard, "", 0),
	}
	s.methods = map[string]method{
		"initialize":     s.initialize,
		"ping":           func(context.Context, json.RawMessage) (any, *rpcError) { return struct{}{}, nil },
		"tools/list":     s.listTools,
		"tools/call":     s.callTool,
		"resources/list": s.listResources,
		"resources/read": s.readResource,
	}
	return s
}

// SetLogger sets where transport failures are reported. Nil keeps the
// current logger.
func (s *Server) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// AddTool registers t, replacing a tool of the same name.
func (s *Server) AddTool(t Tool) { s.tools[t.Name] = t }

// AddResource registers r, replacing a resource with the same URI.
func (s *Server) AddResource(r Resource) { s.resources[r.URI] = r }

// Run serves stdin and stdout until EOF.
func (s *Server) Run() error {
	return s.Serve(context.Background(), os.Stdin, os.Stdout)
}

// Serve reads one request per line from in and writes responses to out
// until EOF or until ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64<<10), maxMessage)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		s.handle(ctx, line)
	}
	return sc.Err()
}

func (s *Server) handle(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.reply(nil, nil, &rpcError{Code: codeParse, Message: "Parse error", Data: err.Error()})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		if !req.notification() {
			s.reply(req.ID, nil, &rpcError{Code: codeInvalidRequest, Message: "Invalid request"})
		}
		return
	}
	m, ok := s.methods[req.Method]
	if req.notification() {
		// notifications/initialized and friends need no answer
		return
	}
	if !ok {
		s.reply(req.ID, nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found", Data: req.Method})
		return
	}
	result, rerr := m(ctx, req.Params)
	s.reply(req.ID, result, rerr)
}

func (s *Server) initialize(context.Context, json.RawMessage) (any, *rpcError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		"serverInfo": map[string]any{"name": s.name, "version": s.version},
	}, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (any, *rpcError) {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return map[string]any{"tools": tools}, nil
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	t, ok := s.tools[p.Name]
	if !ok {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Unknown tool", Data: p.Name}
	}
	res, err := t.Handler(ctx, p.Arguments)
	if err != nil {
		res = TextResult("Error: " + err.Error())
		res.IsError = true
	}
	return res, nil
}

func (s *Server) listResources(context.Context, json.RawMessage) (any, *rpcError) {
	rs := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].URI < rs[j].URI })
	return map[string]any{"resources": rs}, nil
}

func (s *Server) readResource(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	r, ok := s.resources[p.URI]
	if !ok {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Unknown resource", Data: p.URI}
	}
	contents, err := r.Read(ctx, p.URI)
	if err != nil {
		return nil, &rpcError{Code: codeInternal, Message: "Resource error", Data: err.Error()}
	}
	return map[string]any{"contents": contents}, nil
}

func (s *Server) reply(id json.RawMessage, result any, rerr *rpcError) {
	if id == nil {
		id = json.RawMessage("null")
	}
	resp := response{JSONRPC: "2.0", ID: id, Error: rerr}
	if rerr == nil {
		resp.Result = result
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Printf("mcp: encoding response: %v", err)
		data, _ = json.Marshal(response{JSONRPC: "2.0", ID: id,
			Error: &rpcError{Code: codeInternal, Message: "Internal error"}})
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(data); err != nil {
		s.logger.Printf("mcp: writing response: %v", err)
	}
}
