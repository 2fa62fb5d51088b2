package result

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
)

func score(v float64) *float64 { return &v }

func TestHit_Relevant(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  bool
	}{
		{"absent", nil, false},
		{"below", score(0.999999), false},
		{"zero", score(0), false},
		{"negative", score(-2), false},
		{"boundary", score(1.0), true},
		{"above", score(3.2), true},
		{"nan", score(math.NaN()), false},
		{"inf", score(math.Inf(1)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := New(tc.score, "t", "c", "m")
			if got := h.Relevant(); got != tc.want {
				t.Errorf("Relevant() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCollector_FullMode(t *testing.T) {
	c := NewCollector(mode.Full)
	c.Add(New(score(1.5), "Intro\nto Azure", "line1\nline2\n", "{\"page\":\n1}"))
	c.Add(New(score(0.5), "Dropped", "x", "y"))

	if c.Kept() != 1 || c.Dropped() != 1 {
		t.Fatalf("kept=%d dropped=%d", c.Kept(), c.Dropped())
	}

	out, err := c.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	doc := got[0]
	if len(doc) != 4 {
		t.Errorf("expected 4 keys, got %v", doc)
	}
	if doc["title"] != "Intro to Azure" {
		t.Errorf("title = %v", doc["title"])
	}
	if doc["rerankerScore"] != 1.5 {
		t.Errorf("rerankerScore = %v", doc["rerankerScore"])
	}
	if doc["content"] != "line1 line2 " {
		t.Errorf("content = %q", doc["content"])
	}
	if doc["metadata"] != "{\"page\": 1}" {
		t.Errorf("metadata = %q", doc["metadata"])
	}
}

func TestCollector_TitlesMode(t *testing.T) {
	c := NewCollector(mode.Titles)
	c.Add(New(score(2), "A\nB", "chunk", "meta"))

	out, err := c.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[\n  {\n    \"title\": \"A B\"\n  }\n]"
	if out != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestCollector_Empty(t *testing.T) {
	out, err := NewCollector(mode.Full).JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected [], got %q", out)
	}
}

func TestCollector_EmptyFieldsDefault(t *testing.T) {
	c := NewCollector(mode.Full)
	c.Add(New(score(1), "", "", ""))

	out, _ := c.JSON()
	want := "[\n  {\n    \"title\": \"\",\n    \"rerankerScore\": 1,\n    \"content\": \"\",\n    \"metadata\": \"\"\n  }\n]"
	if out != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestCollector_NoNewlinesInValues(t *testing.T) {
	c := NewCollector(mode.Full)
	c.Add(New(score(1), "\n\ntitle\n", "\na\n\nb\n", "\n"))

	var got []Detail
	out, _ := c.JSON()
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, s := range []string{got[0].Title, got[0].Content, got[0].Metadata} {
		if strings.Contains(s, "\n") {
			t.Errorf("value contains newline: %q", s)
		}
	}
	if got[0].Title != "  title " {
		t.Errorf("each newline should become one space, got %q", got[0].Title)
	}
}

func TestCollector_PreservesOrderAndHTML(t *testing.T) {
	c := NewCollector(mode.Titles)
	c.Add(New(score(1.1), "b <&>", "", ""))
	c.Add(New(score(5), "a", "", ""))

	out, _ := c.JSON()
	if !strings.Contains(out, "b <&>") {
		t.Errorf("HTML characters must not be escaped: %s", out)
	}
	if strings.Index(out, "b <&>") > strings.Index(out, "\"a\"") {
		t.Errorf("backend order not preserved: %s", out)
	}
}

func TestNewCollector_InvalidModeFallsBackToFull(t *testing.T) {
	c := NewCollector(mode.Mode("bogus"))
	c.Add(New(score(1), "t", "c", "m"))
	out, _ := c.JSON()
	if !strings.Contains(out, "rerankerScore") {
		t.Errorf("expected full projection, got %s", out)
	}
}
