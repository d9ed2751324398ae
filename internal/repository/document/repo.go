// Package document persists documents with their embeddings and the
// ownership/organization/share index sets used for scope pushdown.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/docdex/internal/db"
	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the document storage boundary. Reads go through the single
// retry policy; candidate queries return documents with embeddings eagerly
// loaded so the ranking phase never issues follow-up reads.
type Repo struct {
	store  store
	retry  db.RetryPolicy
	prefix string
}

// New creates a document repository.
func New(s store, retry db.RetryPolicy, keyPrefix string) *Repo {
	return &Repo{store: s, retry: retry, prefix: keyPrefix}
}

// Upsert creates or replaces a document and maintains the index sets.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) error {
	prev, err := r.Get(ctx, doc.ID())
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		return err
	}
	existed := err == nil

	data, err := json.Marshal(fromDomain(doc))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	key := r.docKey(doc.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return storageErr("json.set "+key, err)
	}

	return r.updateIndexes(ctx, prevOrNil(prev, existed), doc)
}

// Get returns a document by id with embeddings loaded.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := r.docKey(id)

	var raw []byte
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		raw, innerErr = r.store.JSONGet(ctx, key, "$")
		return innerErr
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, storageErr("json.get "+key, err)
	}

	doc, err := parseJSONDoc(raw)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("parse document %s: %w", id, err)
	}
	return doc, nil
}

// FindCandidates returns every document in scope that passes the filters,
// ordered by creation time descending (ties broken by id) so downstream
// stable sorting and pagination are deterministic.
//
// The index sets are hints only: membership is re-verified with scope.Matches
// because entries can go stale (revoked shares, changed visibility).
func (r *Repo) FindCandidates(
	ctx context.Context, scope access.Scope, f filter.Filter,
) ([]domdoc.Document, error) {
	if scope.IsEmpty() {
		return nil, nil
	}

	ids, err := r.candidateIDs(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	var raws [][]byte
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		raws, innerErr = r.store.JSONGetMulti(ctx, keys)
		return innerErr
	})
	if err != nil {
		return nil, storageErr("json.get multi", err)
	}

	docs := make([]domdoc.Document, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue // index entry for a deleted document
		}
		doc, parseErr := parseJSONDoc(raw)
		if parseErr != nil {
			return nil, fmt.Errorf("parse document %s: %w", ids[i], parseErr)
		}
		if !scope.Matches(&doc) || !f.Matches(&doc) {
			continue
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt().Equal(docs[j].CreatedAt()) {
			return docs[i].CreatedAt().After(docs[j].CreatedAt())
		}
		return docs[i].ID() < docs[j].ID()
	})

	return docs, nil
}

// UpsertEmbedding replaces the document's embedding rows in place.
// Keyed on document id: concurrent regenerations are last-writer-wins.
func (r *Repo) UpsertEmbedding(ctx context.Context, id string, embs []domdoc.Embedding) error {
	dtos := make([]embeddingDTO, 0, len(embs))
	for _, e := range embs {
		dtos = append(dtos, embeddingDTO{Vector: e.Vector(), Snippet: e.Snippet()})
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("marshal embeddings: %w", err)
	}

	key := r.docKey(id)
	if err := r.store.JSONSet(ctx, key, "$.embeddings", data); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrDocumentNotFound
		}
		return storageErr("json.set "+key, err)
	}
	return nil
}

// Delete removes a document and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	key := r.docKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return storageErr("del "+key, err)
	}
	return r.removeFromIndexes(ctx, &doc)
}

func (r *Repo) candidateIDs(ctx context.Context, scope access.Scope) ([]string, error) {
	setKeys := []string{r.ownerKey(scope.Identity())}
	if !scope.OwnerOnly() {
		setKeys = append(setKeys, r.sharedKey(scope.Identity()))
		if org := scope.OrganizationID(); org != "" {
			setKeys = append(setKeys, r.orgKey(org))
		}
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, setKey := range setKeys {
		var members []string
		err := r.retry.Do(ctx, func(ctx context.Context) error {
			var innerErr error
			members, innerErr = r.store.SMembers(ctx, setKey)
			return innerErr
		})
		if err != nil {
			return nil, storageErr("smembers "+setKey, err)
		}
		for _, id := range members {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// updateIndexes reconciles the index sets with the new document state.
func (r *Repo) updateIndexes(ctx context.Context, prev, doc *domdoc.Document) error {
	if err := r.store.SAdd(ctx, r.ownerKey(doc.Owner()), doc.ID()); err != nil {
		return storageErr("sadd owner", err)
	}
	if org := doc.OrganizationID(); org != "" {
		if err := r.store.SAdd(ctx, r.orgKey(org), doc.ID()); err != nil {
			return storageErr("sadd org", err)
		}
	}
	for _, u := range doc.SharedWith() {
		if err := r.store.SAdd(ctx, r.sharedKey(u), doc.ID()); err != nil {
			return storageErr("sadd shared", err)
		}
	}

	if prev == nil {
		return nil
	}
	if prevOrg := prev.OrganizationID(); prevOrg != "" && prevOrg != doc.OrganizationID() {
		if err := r.store.SRem(ctx, r.orgKey(prevOrg), doc.ID()); err != nil {
			return storageErr("srem org", err)
		}
	}
	for _, u := range prev.SharedWith() {
		if doc.IsSharedWith(u) {
			continue
		}
		if err := r.store.SRem(ctx, r.sharedKey(u), doc.ID()); err != nil {
			return storageErr("srem shared", err)
		}
	}
	return nil
}

func (r *Repo) removeFromIndexes(ctx context.Context, doc *domdoc.Document) error {
	if err := r.store.SRem(ctx, r.ownerKey(doc.Owner()), doc.ID()); err != nil {
		return storageErr("srem owner", err)
	}
	if org := doc.OrganizationID(); org != "" {
		if err := r.store.SRem(ctx, r.orgKey(org), doc.ID()); err != nil {
			return storageErr("srem org", err)
		}
	}
	for _, u := range doc.SharedWith() {
		if err := r.store.SRem(ctx, r.sharedKey(u), doc.ID()); err != nil {
			return storageErr("srem shared", err)
		}
	}
	return nil
}

func (r *Repo) docKey(id string) string    { return r.prefix + "doc:" + id }
func (r *Repo) ownerKey(id string) string  { return r.prefix + "owner:" + id }
func (r *Repo) orgKey(id string) string    { return r.prefix + "org:" + id }
func (r *Repo) sharedKey(id string) string { return r.prefix + "shared:" + id }

// parseJSONDoc unwraps the JSONPath array shape of JSON.GET $ responses.
func parseJSONDoc(raw []byte) (domdoc.Document, error) {
	var wrapped []docDTO
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped) > 0 {
		return wrapped[0].toDomain(), nil
	}

	var dto docDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domdoc.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return dto.toDomain(), nil
}

func prevOrNil(prev domdoc.Document, ok bool) *domdoc.Document {
	if !ok {
		return nil
	}
	return &prev
}

// storageErr wraps a failed storage call as a retryable ErrStorageUnavailable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
