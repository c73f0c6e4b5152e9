package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/attrfilter/internal/adapters/driving/mcp"
	"github.com/custodia-labs/attrfilter/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can page through
elements and edit saved filters.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. In HTTP mode the server also
exposes Prometheus metrics on /metrics and reloads the config file when it
changes.

Examples:
  # Stdio mode (default)
  attrfilter mcp serve

  # HTTP mode
  attrfilter mcp serve --port 8080`,
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

	server, err := newMCPServer()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port <= 0 {
		return server.Run(ctx)
	}

	addr := fmt.Sprintf(":%d", port)
	cmd.Printf("MCP server listening on http://localhost%s\n", addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.RunHTTP(ctx, addr)
	})
	if watchConfig != nil {
		g.Go(func() error {
			return watchConfig(ctx, func() {
				logger.Info("configuration reloaded")
			})
		})
	}
	return g.Wait()
}

func newMCPServer() (*mcp.Server, error) {
	ports := &mcp.Ports{
		Elements: elementService,
		Filters:  filterService,
	}

	var opts []mcp.Option
	if collector != nil {
		opts = append(opts, mcp.WithMetricsHandler(collector.Handler()))
	}
	return mcp.NewServer(ports, opts...)
}
