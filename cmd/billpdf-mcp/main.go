// Command billpdf-mcp is an MCP (Model Context Protocol) server that lets
// AI assistants render quotations, invoices, receipts and bills.
//
// # Installation
//
//	go install github.com/lvillar/billpdf/cmd/billpdf-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "billpdf": {
//	      "command": "billpdf-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - render_document: Render a request to PDF
//   - compute_totals: Totals and amount in words
//   - document_filename: Output file name for a request
//
// # Available Resources
//
//   - billpdf://schema/request : Example render request
//   - billpdf://theme/default : Default layout theme
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lvillar/billpdf/mcp"
)

func main() {
	server := mcp.NewServer("billpdf-mcp", "1.0.0")
	server.SetLogger(log.New(os.Stderr, "billpdf-mcp: ", log.LstdFlags))

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "billpdf-mcp: %v\n", err)
		os.Exit(1)
	}
}
