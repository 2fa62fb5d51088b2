package request

import (
	"fmt"
	"strings"
)

// Hybrid query parameters.
const (
	DefaultTop = 100
	// MaxTop is the hard cap on results requested from the backend.
	MaxTop = 100

	QueryTypeSemantic       = "semantic"
	QueryLanguage           = "en-us"
	ScoringStatisticsGlobal = "global"
	VectorKind              = "vector"
	// VectorField is the index field holding chunk embeddings.
	VectorField = "text_vector"
)

// VectorQuery is a single vector sub-query of a hybrid request.
type VectorQuery struct {
	Kind       string
	Vector     []float32
	Fields     string
	Exhaustive bool
}

// Request is a validated hybrid (lexical + vector + semantic) search request.
type Request struct {
	searchText            string
	semanticConfiguration string
	top                   int
	vectorQueries         []VectorQuery
}

// New builds a hybrid request for query with a single exhaustive vector sub-query.
// top <= 0 means DefaultTop; anything above MaxTop is clamped.
func New(query, semanticConfiguration string, vector []float32, top int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if semanticConfiguration == "" {
		return Request{}, fmt.Errorf("semantic configuration is required")
	}
	if len(vector) == 0 {
		return Request{}, fmt.Errorf("query vector is empty")
	}
	if top <= 0 {
		top = DefaultTop
	}
	top = min(top, MaxTop)

	return Request{
		searchText:            query,
		semanticConfiguration: semanticConfiguration,
		top:                   top,
		vectorQueries: []VectorQuery{{
			Kind:       VectorKind,
			Vector:     vector,
			Fields:     VectorField,
			Exhaustive: true,
		}},
	}, nil
}

// SearchText returns the lexical query text.
func (r *Request) SearchText() string { return r.searchText }

// QueryType returns the query type (always semantic).
func (r *Request) QueryType() string { return QueryTypeSemantic }

// SemanticConfiguration returns the semantic ranker configuration name.
func (r *Request) SemanticConfiguration() string { return r.semanticConfiguration }

// QueryLanguage returns the semantic query language.
func (r *Request) QueryLanguage() string { return QueryLanguage }

// ScoringStatistics returns the scoring statistics scope.
func (r *Request) ScoringStatistics() string { return ScoringStatisticsGlobal }

// Top returns the result cap.
func (r *Request) Top() int { return r.top }

// VectorQueries returns the vector sub-queries.
func (r *Request) VectorQueries() []VectorQuery { return r.vectorQueries }
