package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	praxismcp "github.com/praxiskit/praxis/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the praxis MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the praxis MCP server on stdio",
	Long: `Start the praxis MCP server on stdio transport.

The server exposes praxis functionality as MCP tools that AI assistants can
call: generate_prompt, score_text, validate_method_text, recommend_method,
get_continuity, record_decision, session_analytics, search_knowledge,
get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Engine == nil {
			return fmt.Errorf("orchestrator not initialized")
		}

		srv := praxismcp.NewServer(Engine, Scorer, Tracker, KnowledgeStore, MetricsCalc, AlertEngine, EventLog, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
