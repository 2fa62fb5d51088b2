package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
)

// MinRerankerScore is the inclusive relevance gate applied to the semantic reranker score.
const MinRerankerScore = 1.0

// Hit is a single search hit as returned by the backend.
// The reranker score is optional: backends may omit it or send a non-numeric value.
type Hit struct {
	rerankerScore *float64
	title         string
	chunk         string
	metaData      string
}

// New creates a search hit. rerankerScore may be nil.
func New(rerankerScore *float64, title, chunk, metaData string) Hit {
	return Hit{
		rerankerScore: rerankerScore,
		title:         title,
		chunk:         chunk,
		metaData:      metaData,
	}
}

// RerankerScore returns the semantic reranker score and whether it is present.
func (h *Hit) RerankerScore() (float64, bool) {
	if h.rerankerScore == nil {
		return 0, false
	}
	return *h.rerankerScore, true
}

// Title returns the document title.
func (h *Hit) Title() string { return h.title }

// Chunk returns the document body text.
func (h *Hit) Chunk() string { return h.chunk }

// MetaData returns the document metadata as text.
func (h *Hit) MetaData() string { return h.metaData }

// Relevant reports whether the hit carries a finite reranker score >= MinRerankerScore.
func (h *Hit) Relevant() bool {
	s, ok := h.RerankerScore()
	if !ok || math.IsNaN(s) || math.IsInf(s, 0) {
		return false
	}
	return s >= MinRerankerScore
}

// Title is the titles-only projection.
type Title struct {
	Title string `json:"title"`
}

// Detail is the full projection. Field order is part of the output contract.
type Detail struct {
	Title         string  `json:"title"`
	RerankerScore float64 `json:"rerankerScore"`
	Content       string  `json:"content"`
	Metadata      string  `json:"metadata"`
}

// Collector filters hits and accumulates their projections in arrival order.
type Collector struct {
	mode    mode.Mode
	items   []any
	dropped int
}

// NewCollector creates a collector projecting with m. Invalid modes fall back to Full.
func NewCollector(m mode.Mode) *Collector {
	if !m.IsValid() {
		m = mode.Full
	}
	return &Collector{mode: m, items: make([]any, 0)}
}

// Add projects h if it passes the relevance gate. Returns false when h was dropped.
func (c *Collector) Add(h Hit) bool {
	if !h.Relevant() {
		c.dropped++
		return false
	}

	title := normalize(h.title)
	if c.mode == mode.Titles {
		c.items = append(c.items, Title{Title: title})
		return true
	}

	score, _ := h.RerankerScore()
	c.items = append(c.items, Detail{
		Title:         title,
		RerankerScore: score,
		Content:       normalize(h.chunk),
		Metadata:      normalize(h.metaData),
	})
	return true
}

// Kept returns the number of retained hits.
func (c *Collector) Kept() int { return len(c.items) }

// Dropped returns the number of hits rejected by the relevance gate.
func (c *Collector) Dropped() int { return c.dropped }

// JSON renders the retained projections as a 2-space indented JSON array.
func (c *Collector) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.items); err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
