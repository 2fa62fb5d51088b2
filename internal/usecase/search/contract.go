package search

import (
	"context"
	"iter"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher runs a hybrid query against the search index.
// The sequence yields hits in backend order; an error ends it.
type Searcher interface {
	Search(ctx context.Context, req request.Request) iter.Seq2[result.Hit, error]
}

// SettingsResolver provides the resolved search settings.
type SettingsResolver interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}
