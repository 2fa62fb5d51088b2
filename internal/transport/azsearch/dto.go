package azsearch

import (
	"bytes"
	"encoding/json"

	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

// Response field names.
const (
	fieldRerankerScore = "@search.rerankerScore"
	fieldTitle         = "title"
	fieldChunk         = "chunk"
	fieldMetaData      = "meta_data"
)

type searchRequest struct {
	Search                string        `json:"search"`
	QueryType             string        `json:"queryType"`
	SemanticConfiguration string        `json:"semanticConfiguration"`
	QueryLanguage         string        `json:"queryLanguage,omitempty"`
	ScoringStatistics     string        `json:"scoringStatistics"`
	Top                   int           `json:"top"`
	VectorQueries         []vectorQuery `json:"vectorQueries"`
}

type vectorQuery struct {
	Kind       string    `json:"kind"`
	Vector     []float32 `json:"vector"`
	Fields     string    `json:"fields"`
	Exhaustive bool      `json:"exhaustive"`
}

type searchPage struct {
	Value              []json.RawMessage `json:"value"`
	NextPageParameters json.RawMessage   `json:"@search.nextPageParameters,omitempty"`
}

func (p searchPage) hasNext() bool {
	return !isNull(p.NextPageParameters)
}

// isNull reports whether v is absent or JSON null.
func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

// toSearchRequest maps the domain request to the REST body.
// queryLanguage is only accepted by preview API versions.
func toSearchRequest(req *request.Request, withLanguage bool) searchRequest {
	body := searchRequest{
		Search:                req.SearchText(),
		QueryType:             req.QueryType(),
		SemanticConfiguration: req.SemanticConfiguration(),
		ScoringStatistics:     req.ScoringStatistics(),
		Top:                   req.Top(),
	}
	if withLanguage {
		body.QueryLanguage = req.QueryLanguage()
	}
	for _, vq := range req.VectorQueries() {
		body.VectorQueries = append(body.VectorQueries, vectorQuery{
			Kind:       vq.Kind,
			Vector:     vq.Vector,
			Fields:     vq.Fields,
			Exhaustive: vq.Exhaustive,
		})
	}
	return body
}

// decodeHit converts one result document. ok is false when raw is not a JSON object.
func decodeHit(raw json.RawMessage) (result.Hit, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return result.Hit{}, false
	}

	var score *float64
	if v, ok := doc[fieldRerankerScore]; ok && !isNull(v) {
		var f float64
		if json.Unmarshal(v, &f) == nil {
			score = &f
		}
	}

	return result.New(score, text(doc[fieldTitle]), text(doc[fieldChunk]), text(doc[fieldMetaData])), true
}

// text returns a string field as-is, null or absent as "", and anything else as compact JSON.
func text(v json.RawMessage) string {
	if isNull(v) {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, v) != nil {
		return string(v)
	}
	return buf.String()
}
