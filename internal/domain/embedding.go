package domain

import (
	"context"
	"sync/atomic"
)

// EmbeddingResult is one query vector plus the tokens the provider billed for it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

type usageKey struct{}

// Usage accumulates embedding consumption across one request.
// Safe for concurrent use; methods are no-ops on a nil receiver.
type Usage struct {
	tokens atomic.Int64
	calls  atomic.Int32
}

// WithUsage attaches a fresh Usage to ctx and returns both.
func WithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFrom returns the Usage attached to ctx, or nil.
func UsageFrom(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbedding records one embedding call.
func (u *Usage) AddEmbedding(tokens int) {
	if u == nil {
		return
	}
	u.tokens.Add(int64(tokens))
	u.calls.Add(1)
}

// Tokens is the total billed so far.
func (u *Usage) Tokens() int {
	if u == nil {
		return 0
	}
	return int(u.tokens.Load())
}

// Embedded reports whether any embedding call was recorded.
func (u *Usage) Embedded() bool {
	return u != nil && u.calls.Load() > 0
}
