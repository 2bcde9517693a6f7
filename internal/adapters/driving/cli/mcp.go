package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/overlap-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can check text
for overlap and add sources.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. In HTTP mode, metrics are
served at /metrics.

Examples:
  # Stdio mode (default)
  overlap mcp serve

  # HTTP mode
  overlap mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "overlap": {
        "command": "/path/to/overlap",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if checkService == nil {
		return notConfigured("check")
	}

	ports := &mcp.Ports{
		Check:  checkService,
		Ingest: ingestService,
		Corpus: corpusService,
	}

	var opts []mcp.Option
	if metricsHandler != nil {
		opts = append(opts, mcp.WithMetricsHandler(metricsHandler))
	}

	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
