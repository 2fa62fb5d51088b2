package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcptransport "github.com/kailas-cloud/docchat/internal/transport/mcp"
)

func newMCPCmd(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server (stdio transport)",
		Long: `Serve the analyze and documents tools over stdin/stdout.

  analyze    relevant passages with reranker scores
  documents  titles of relevant documents`,
		Example: `  docchat mcp
  claude mcp add docchat -- docchat mcp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMCP(ctx, *env)
		},
	}
}

func runMCP(ctx context.Context, env string) error {
	a, err := newApp(ctx, env)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("Starting MCP server", zap.String("transport", "stdio"))
	if err := mcptransport.NewServer(a.search, a.logger).Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	a.logger.Info("MCP server stopped")
	return nil
}
