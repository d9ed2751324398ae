// Package document handles document lifecycle: listing, direct lookup,
// upsert, deletion, and content ingestion with embedding generation.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
	"github.com/kailas-cloud/docdex/internal/domain/search/request"
)

// Service handles document CRUD and content ingestion.
type Service struct {
	repo  Repository
	embed domain.Embedder
}

// New creates a document service.
func New(repo Repository, embed domain.Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Get retrieves a document by id. Unlike search, where out-of-scope documents
// are simply absent, a direct lookup outside the identity's scope is an
// explicit ErrAccessDenied.
func (s *Service) Get(ctx context.Context, actx access.Context, id string) (domdoc.Document, error) {
	if !actx.Can(access.ActionRead, access.ResourceDocument) {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrAccessDenied)
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}

	scope := access.ListScope(actx)
	if !scope.Matches(&doc) {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrAccessDenied)
	}
	return doc, nil
}

// List returns documents visible to the identity (owned, shared, or
// organization-visible) in recency order, plus the pre-pagination total.
func (s *Service) List(
	ctx context.Context, actx access.Context, f filter.Filter, limit, offset int,
) ([]domdoc.Document, int, error) {
	if limit < 0 || offset < 0 {
		return nil, 0, fmt.Errorf("%w: pagination must not be negative", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = request.DefaultLimit
	}
	if limit > request.MaxLimit {
		limit = request.MaxLimit
	}

	docs, err := s.repo.FindCandidates(ctx, access.ListScope(actx), f)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	total := len(docs)
	if offset >= len(docs) {
		return nil, total, nil
	}
	docs = docs[offset:]
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, total, nil
}

// Upsert creates or replaces a document. Writes are owner-only: the document
// must be owned by the requesting identity, and an existing document under
// the same id must belong to it as well.
func (s *Service) Upsert(ctx context.Context, actx access.Context, doc *domdoc.Document) error {
	if !doc.IsOwnedBy(actx.Identity()) {
		return fmt.Errorf("document owner mismatch: %w", domain.ErrAccessDenied)
	}

	existing, err := s.repo.Get(ctx, doc.ID())
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		return fmt.Errorf("get document: %w", err)
	}
	if err == nil && !existing.IsOwnedBy(actx.Identity()) {
		return fmt.Errorf("document %s: %w", doc.ID(), domain.ErrAccessDenied)
	}

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Delete removes an owned document.
func (s *Service) Delete(ctx context.Context, actx access.Context, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if !doc.IsOwnedBy(actx.Identity()) {
		return fmt.Errorf("document %s: %w", id, domain.ErrAccessDenied)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// IngestContent attaches extracted text to an owned document and regenerates
// its embedding. Unlike search, ingestion has no keyword fallback: an
// unavailable embedding provider fails the ingestion so the caller can retry.
//
// The embedding write is keyed on document id; concurrent regenerations are
// last-writer-wins.
func (s *Service) IngestContent(
	ctx context.Context, actx access.Context, id, text string,
) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	if !doc.IsOwnedBy(actx.Identity()) {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrAccessDenied)
	}

	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("vectorize content: %w", err)
	}
	embs := []domdoc.Embedding{domdoc.NewEmbedding(res.Embedding, text)}

	updated := doc.WithContent(text, time.Now().UTC(), embs)
	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return domdoc.Document{}, fmt.Errorf("store content: %w", err)
	}
	if err := s.repo.UpsertEmbedding(ctx, id, embs); err != nil {
		return domdoc.Document{}, fmt.Errorf("store embedding: %w", err)
	}
	return updated, nil
}
