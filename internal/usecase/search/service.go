package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Options tune a single pipeline run. The zero value means full detail, top 100.
type Options struct {
	TitlesOnly bool
	TopN       int
}

// Service runs the query pipeline: embed, hybrid search, relevance gate, projection.
type Service struct {
	embed    Embedder
	searcher Searcher
	settings SettingsResolver
}

// New creates a search service.
func New(embed Embedder, searcher Searcher, settings SettingsResolver) *Service {
	return &Service{embed: embed, searcher: searcher, settings: settings}
}

// Run answers query with a JSON array of relevant documents.
// Hits without a reranker score >= 1.0 are dropped; order is the backend's.
func (s *Service) Run(ctx context.Context, query string, opts Options) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", domain.ErrEmptyQuery
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFrom(ctx).AddEmbedding(embResult.TotalTokens)

	cfg, err := s.settings.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve settings: %w", err)
	}

	req, err := request.New(query, cfg.SemanticConfiguration, embResult.Embedding, opts.TopN)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	m := mode.FromTitlesOnly(opts.TitlesOnly)
	c := result.NewCollector(m)
	for hit, err := range s.searcher.Search(ctx, req) {
		if err != nil {
			return "", fmt.Errorf("search: %w", err)
		}
		c.Add(hit)
	}

	metrics.SearchHitsTotal.WithLabelValues("kept").Add(float64(c.Kept()))
	metrics.SearchHitsTotal.WithLabelValues("dropped").Add(float64(c.Dropped()))

	logger.FromContext(ctx).Debug("Search completed",
		zap.Int("query_len", len(query)),
		zap.String("mode", string(m)),
		zap.Int("top", req.Top()),
		zap.Int("kept", c.Kept()),
		zap.Int("dropped", c.Dropped()),
	)

	return c.JSON()
}
