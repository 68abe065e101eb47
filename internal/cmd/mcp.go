package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/respmsl/resp-cli/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Run an MCP (Model Context Protocol) server over stdio.

The server exposes a compile_schema tool that turns respMSL text into a
JSON Schema document, for use by MCP-capable agent hosts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.NewServer(version).Run(context.Background())
	},
}
