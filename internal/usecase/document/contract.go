package document

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Upsert(ctx context.Context, doc *domdoc.Document) error
	Get(ctx context.Context, id string) (domdoc.Document, error)
	FindCandidates(ctx context.Context, scope access.Scope, f filter.Filter) ([]domdoc.Document, error)
	UpsertEmbedding(ctx context.Context, id string, embs []domdoc.Embedding) error
	Delete(ctx context.Context, id string) error
}
