// Package mcp exposes the respMSL compiler as an MCP (Model Context
// Protocol) tool over stdio, so agent hosts can compile schema blocks
// without going through the chat loop.
package mcp

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/respmsl/resp-cli/internal/schema"
)

// CompileSchemaInput is the input schema for the compile_schema tool.
type CompileSchemaInput struct {
	Text string `json:"text" jsonschema:"respMSL text to compile; may be a bare block or contain a :::: delimiter line"`
}

// Server is an MCP server. It communicates via JSON-RPC over stdio.
type Server struct {
	version string
}

// NewServer creates a new MCP server instance.
func NewServer(version string) *Server {
	return &Server{version: version}
}

// Run serves MCP requests over stdio until the context is cancelled or
// the host closes the connection.
func (s *Server) Run(ctx context.Context) error {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "respmsl",
		Version: s.version,
	}, nil)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compile_schema",
		Description: "Compile a respMSL block (indentation- and bullet-based schema notation) into a JSON Schema document suitable as a structured-output constraint.",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, input CompileSchemaInput) (*sdkmcp.CallToolResult, map[string]any, error) {
		result, err := compileText(input.Text)
		if err != nil {
			return &sdkmcp.CallToolResult{IsError: true}, nil, err
		}
		return nil, map[string]any{
			"content": []map[string]any{{"type": "text", "text": result}},
		}, nil
	})

	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

func compileText(text string) (string, error) {
	if block, ok := schema.ExtractBlock(text); ok {
		text = block
	}
	node, err := schema.Compile(text)
	if err != nil {
		return "", fmt.Errorf("compile failed: %w", err)
	}
	out, err := json.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
