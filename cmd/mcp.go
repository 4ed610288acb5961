package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/wod-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes the block library, the title parser and the run history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("the MCP server is disabled; set mcp.enabled = true in the config")
		}

		// stdout carries the protocol.
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "🚀 Starting MCP server on stdio")
		fmt.Fprintln(errOut, "   Press Ctrl+C to stop")

		ctx, cancel := setupSignalHandler()
		defer cancel()

		server := mcp.NewServer(app.state)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
