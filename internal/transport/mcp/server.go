// Package mcp exposes the query pipeline as MCP tools.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/usecase/search"
	"github.com/kailas-cloud/docchat/internal/version"
)

// Tool names.
const (
	ToolAnalyze   = "analyze"
	ToolDocuments = "documents"
)

// toolTopN is the result cap requested by both tools.
const toolTopN = 100

type pipeline interface {
	Run(ctx context.Context, query string, opts search.Options) (string, error)
}

// QueryInput is the argument object of both tools.
type QueryInput struct {
	Text string `json:"text" jsonschema:"the full text specified in the prompt, passed as given"`
}

// Server is the docchat MCP server.
type Server struct {
	pipeline pipeline
	logger   *zap.Logger
	server   *mcp.Server
}

// NewServer registers the analyze and documents tools.
func NewServer(p pipeline, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: p,
		logger:   logger,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "docchat",
			Title:   "Hoisington",
			Version: version.Version,
		}, &mcp.ServerOptions{
			Instructions: "Searches the Hoisington document index. " +
				"Use analyze for relevant passages with scores and documents for matching document titles.",
		}),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAnalyze,
		Title:       "Analysis Tool",
		Description: "Query the Hoisington documents. Pass the full text specified in the prompt.",
	}, s.handler(ToolAnalyze, search.Options{TopN: toolTopN}))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDocuments,
		Title:       "Document Tool",
		Description: "Query the Hoisington documents for document names only. Pass the full text specified in the prompt.",
	}, s.handler(ToolDocuments, search.Options{TitlesOnly: true, TopN: toolTopN}))

	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server { return s.server }

// Run serves over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handler(
	tool string, opts search.Options,
) mcp.ToolHandlerFor[QueryInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, any, error) {
		ctx, log := logger.With(ctx, s.logger, zap.String("tool", tool))

		start := time.Now()
		out, err := s.pipeline.Run(ctx, in.Text, opts)
		if err != nil {
			log.Warn("Tool call failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return nil, nil, err
		}

		log.Info("Tool call", zap.Int("response_bytes", len(out)), zap.Duration("duration", time.Since(start)))

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out}},
		}, nil, nil
	}
}
