package search

import (
	"math"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

// cosineSimilarity computes dot(a,b) / (‖a‖·‖b‖).
// Unequal lengths are a caller error and score 0; a zero-magnitude vector
// scores 0 to avoid division by zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// maxSimilarity scores a document against the query vector as the maximum
// cosine similarity across its embeddings: relevance to any one passage
// counts for the whole document.
func maxSimilarity(query []float32, embs []domdoc.Embedding) float64 {
	best := 0.0
	for _, e := range embs {
		if sim := cosineSimilarity(query, e.Vector()); sim > best {
			best = sim
		}
	}
	return best
}
