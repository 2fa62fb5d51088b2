// Command hello-mcp is a minimal stdio MCP server with a single hello tool.
// It is a playground for wiring MCP clients before pointing them at docchat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/config"
	logpkg "github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/version"
)

// HelloInput is the hello tool argument.
type HelloInput struct {
	Value string `json:"value" jsonschema:"text echoed back in the greeting"`
}

func greeting(value string) string {
	return "Hello from MCP server 👋 " + value
}

func newServer(logger *zap.Logger) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: "hello-mcp", Version: version.Version}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "hello",
		Description: "Says hello",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in HelloInput) (*mcp.CallToolResult, any, error) {
		logger.Debug("hello", zap.String("value", in.Value))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: greeting(in.Value)}},
		}, nil, nil
	})

	return s
}

func main() {
	logger, err := logpkg.NewLogger(config.GetEnv(), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newServer(logger).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("hello-mcp stopped", zap.Error(err))
		os.Exit(1)
	}
}
