package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Run the Model Context Protocol server on stdio. AI assistants can
then read the current fast, start and end fasts, and query stats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		fmt.Fprintln(os.Stderr, "Starting MCP server on stdio...")
		fmt.Fprintln(os.Stderr, "Tools: get_current_fast, start_fast, end_fast, cancel_fast, list_schedules, recent_fasts, get_stats")

		mcpServer := mcp.NewServer(app.state)
		return mcpServer.Start(ctx)
	},
}
