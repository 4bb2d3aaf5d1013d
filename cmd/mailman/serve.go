package main

import (
	"fmt"

	"github.com/mark3labs/mailman/internal/orchestrator"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	port    int
	metrics string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the templates as MCP tools",
	Long: `Serve the template store as MCP tools over streamable HTTP at /mcp.

Tools: list_templates, get_template, delete_template, set_repeating and
record_run. With --metrics, Prometheus metrics are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", -1, "MCP port, 0 picks a free one (default: mcp_port)")
	serveCmd.Flags().StringVar(&serveFlags.metrics, "metrics", "", "Metrics listen address (default: metrics_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	oc := orchestratorConfig(true)
	oc.ServeMCP = true
	if serveFlags.port >= 0 {
		oc.MCPPort = serveFlags.port
	}
	if serveFlags.metrics != "" {
		oc.MetricsAddr = serveFlags.metrics
	}

	orch, err := orchestrator.New(oc)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() { _ = orch.Stop() }()
	stopOnSignal(orch)

	fmt.Printf("MCP server listening at %s\n", orch.MCPURL())
	if oc.MetricsAddr != "" {
		fmt.Printf("Metrics at http://%s/metrics\n", oc.MetricsAddr)
	}
	return orch.Run()
}
