package document

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	doc, err := New(Params{ID: "doc-1", Owner: "alice", Filename: "report.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Visibility() != VisibilityPrivate {
		t.Errorf("expected private default visibility, got %q", doc.Visibility())
	}
	if doc.CreatedAt().IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"missing id", Params{Owner: "alice", Filename: "a.txt"}},
		{"id too long", Params{ID: strings.Repeat("x", MaxIDLength+1), Owner: "alice", Filename: "a.txt"}},
		{"missing owner", Params{ID: "doc-1", Filename: "a.txt"}},
		{"missing filename", Params{ID: "doc-1", Owner: "alice"}},
		{"invalid visibility", Params{ID: "doc-1", Owner: "alice", Filename: "a.txt", Visibility: "friends"}},
		{"org visibility without org", Params{
			ID: "doc-1", Owner: "alice", Filename: "a.txt", Visibility: VisibilityOrganization,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_DeduplicatesTags(t *testing.T) {
	doc, err := New(Params{
		ID: "doc-1", Owner: "alice", Filename: "a.txt",
		Tags: []string{"finance", "q3", "finance", " ", "q3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := doc.Tags()
	want := []string{"finance", "q3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestIsSharedWith(t *testing.T) {
	doc := Reconstruct(Params{
		ID: "doc-1", Owner: "alice", Filename: "a.txt",
		SharedWith: []string{"bob", "carol"},
	})

	if !doc.IsSharedWith("bob") {
		t.Error("expected doc to be shared with bob")
	}
	if doc.IsSharedWith("mallory") {
		t.Error("doc must not be shared with mallory")
	}
	if doc.IsSharedWith("") {
		t.Error("empty identity must never match")
	}
}

func TestNewEmbedding_TruncatesSnippet(t *testing.T) {
	long := strings.Repeat("a", SnippetLength+50)
	emb := NewEmbedding([]float32{0.1}, long)
	if len([]rune(emb.Snippet())) != SnippetLength {
		t.Errorf("expected snippet truncated to %d, got %d", SnippetLength, len(emb.Snippet()))
	}
}

func TestWithContent_ReplacesEmbeddings(t *testing.T) {
	doc := Reconstruct(Params{
		ID: "doc-1", Owner: "alice", Filename: "a.txt",
		Embeddings: []Embedding{NewEmbedding([]float32{1}, "old")},
	})

	now := time.Now().UTC()
	updated := doc.WithContent("new text", now, []Embedding{NewEmbedding([]float32{2}, "new text")})

	if updated.ExtractedText() != "new text" {
		t.Errorf("expected new text, got %q", updated.ExtractedText())
	}
	if !updated.ProcessedAt().Equal(now) {
		t.Error("expected ProcessedAt updated")
	}
	if len(updated.Embeddings()) != 1 || updated.Embeddings()[0].Snippet() != "new text" {
		t.Error("expected embeddings replaced")
	}
	// original untouched
	if doc.ExtractedText() != "" || doc.Embeddings()[0].Snippet() != "old" {
		t.Error("original document must not be mutated")
	}
}
