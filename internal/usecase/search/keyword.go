package search

import (
	"strings"
	"unicode/utf8"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

// Per-field keyword weights. Tuning parameters, not derived from measurement;
// they sum to 1.0 so the clamp below is a safeguard, not a normal-path need.
const (
	filenameWeight   = 0.4
	textWeight       = 0.3
	tagWeight        = 0.2
	departmentWeight = 0.1

	// minTokenLength drops stopword-like noise ("a", "of", "in").
	minTokenLength = 3
)

// keywordScore computes lexical relevance in [0,1] for one document.
//
// The query is lowercased and split on whitespace; tokens shorter than
// minTokenLength are discarded. Each field contributes its weight times the
// fraction of tokens it contains as a substring. Fields the document does not
// have (no extracted text, no department) contribute nothing.
func keywordScore(query string, doc *domdoc.Document) float64 {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return 0
	}

	score := filenameWeight * matchRatio(tokens, strings.ToLower(doc.Filename()))

	if text := doc.ExtractedText(); text != "" {
		score += textWeight * matchRatio(tokens, strings.ToLower(text))
	}

	if tags := doc.Tags(); len(tags) > 0 {
		lowered := make([]string, len(tags))
		for i, tag := range tags {
			lowered[i] = strings.ToLower(tag)
		}
		score += tagWeight * tagMatchRatio(tokens, lowered)
	}

	if dept := doc.Department(); dept != "" {
		score += departmentWeight * matchRatio(tokens, strings.ToLower(dept))
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) >= minTokenLength {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// matchRatio is the fraction of tokens the lowercased field text contains as
// substrings. Substring containment is a deliberate simplification over
// tokenized matching.
func matchRatio(tokens []string, field string) float64 {
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(field, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

// tagMatchRatio is the fraction of tokens contained in any one tag.
func tagMatchRatio(tokens []string, tags []string) float64 {
	matched := 0
	for _, tok := range tokens {
		for _, tag := range tags {
			if strings.Contains(tag, tok) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(tokens))
}
