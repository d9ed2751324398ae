package search

import (
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// assemble projects scored documents into results with a text preview and
// the requesting identity's capability flags. Flags are derived per response
// and never cached: edit and delete require ownership, share additionally
// allows any non-private document the identity can already see.
func assemble(scored []scoredDoc, identity string) []result.Result {
	results := make([]result.Result, 0, len(scored))
	for i := range scored {
		doc := &scored[i].doc
		owned := doc.IsOwnedBy(identity)
		results = append(results, result.New(
			scored[i].doc,
			scored[i].score,
			preview(doc),
			owned,
			owned || doc.Visibility() != domdoc.VisibilityPrivate,
			owned,
		))
	}
	return results
}

func preview(doc *domdoc.Document) string {
	text := doc.ExtractedText()
	if text == "" {
		return result.PreviewPlaceholder
	}
	runes := []rune(text)
	if len(runes) > result.PreviewLength {
		return string(runes[:result.PreviewLength])
	}
	return text
}
