package search

import (
	"math"
	"testing"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

func kwDoc(t *testing.T, p domdoc.Params) domdoc.Document {
	t.Helper()
	if p.ID == "" {
		p.ID = "d1"
	}
	if p.Owner == "" {
		p.Owner = "alice"
	}
	if p.Filename == "" {
		p.Filename = "file.txt"
	}
	doc, err := domdoc.New(p)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		doc   domdoc.Params
		want  float64
	}{
		{
			// One of two tokens hits the filename, nothing else matches:
			// 0.4 * 0.5 = 0.2.
			name:  "partial filename match",
			query: "quarterly planning",
			doc:   domdoc.Params{Filename: "planning-notes.txt"},
			want:  0.2,
		},
		{
			name:  "full filename match",
			query: "planning notes",
			doc:   domdoc.Params{Filename: "planning-notes.txt"},
			want:  0.4,
		},
		{
			name:  "filename and text",
			query: "budget",
			doc:   domdoc.Params{Filename: "budget.xlsx", ExtractedText: "annual budget review"},
			want:  0.7,
		},
		{
			name:  "all four fields",
			query: "budget",
			doc: domdoc.Params{
				Filename:      "budget.xlsx",
				ExtractedText: "annual budget review",
				Tags:          []string{"budgets"},
				Department:    "budget office",
			},
			want: 1.0,
		},
		{
			name:  "tags only",
			query: "finance",
			doc:   domdoc.Params{Filename: "report.pdf", Tags: []string{"finance", "q3"}},
			want:  0.2,
		},
		{
			name:  "department only",
			query: "engineering",
			doc:   domdoc.Params{Filename: "report.pdf", Department: "Engineering"},
			want:  0.1,
		},
		{
			name:  "case insensitive",
			query: "REPORT",
			doc:   domdoc.Params{Filename: "Report.PDF"},
			want:  0.4,
		},
		{
			name:  "substring not whole word",
			query: "plan",
			doc:   domdoc.Params{Filename: "planning-notes.txt"},
			want:  0.4,
		},
		{
			name:  "short tokens dropped",
			query: "of planning",
			doc:   domdoc.Params{Filename: "planning-notes.txt"},
			want:  0.4,
		},
		{
			name:  "only short tokens",
			query: "a of in",
			doc:   domdoc.Params{Filename: "planning-notes.txt"},
			want:  0,
		},
		{
			name:  "no match anywhere",
			query: "zebra",
			doc:   domdoc.Params{Filename: "report.pdf", ExtractedText: "annual review"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := kwDoc(t, tt.doc)
			got := keywordScore(tt.query, &doc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("keywordScore(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestKeywordScore_MissingTextSkipsTextWeight(t *testing.T) {
	withText := kwDoc(t, domdoc.Params{Filename: "planning.txt", ExtractedText: "planning session"})
	withoutText := kwDoc(t, domdoc.Params{ID: "d2", Filename: "planning.txt"})

	if got := keywordScore("planning", &withText); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("with text = %v, want 0.7", got)
	}
	if got := keywordScore("planning", &withoutText); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("without text = %v, want 0.4", got)
	}
}
