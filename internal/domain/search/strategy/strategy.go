// Package strategy names the ranking strategy a search actually used.
package strategy

// Strategy is the ranking strategy reported alongside results.
type Strategy string

// Strategy constants.
const (
	// Semantic combines embedding similarity with keyword relevance.
	Semantic Strategy = "semantic"
	// Keyword is the lexical-only fallback.
	Keyword Strategy = "keyword"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Semantic || s == Keyword
}
