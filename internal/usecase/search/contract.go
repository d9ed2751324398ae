package search

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
)

// Repository defines the storage contract for search operations.
// Candidates come back with embeddings eagerly loaded and pre-filtered by
// scope; the ranking phase issues no follow-up reads.
type Repository interface {
	FindCandidates(ctx context.Context, scope access.Scope, f filter.Filter) ([]domdoc.Document, error)
}
