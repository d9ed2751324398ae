package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
)

// --- Mocks ---

type mockRepo struct {
	docs map[string]domdoc.Document

	getErr    error
	upsertErr error

	lastScope    access.Scope
	upsertCalls  int
	embUpserts   int
	deletedIDs   []string
	lastEmbedded []domdoc.Embedding
}

func newMockRepo(docs ...domdoc.Document) *mockRepo {
	m := &mockRepo{docs: map[string]domdoc.Document{}}
	for _, d := range docs {
		m.docs[d.ID()] = d
	}
	return m
}

func (m *mockRepo) Upsert(_ context.Context, doc *domdoc.Document) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertCalls++
	m.docs[doc.ID()] = *doc
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domdoc.Document, error) {
	if m.getErr != nil {
		return domdoc.Document{}, m.getErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockRepo) FindCandidates(
	_ context.Context, scope access.Scope, f filter.Filter,
) ([]domdoc.Document, error) {
	m.lastScope = scope
	var out []domdoc.Document
	for _, doc := range m.docs {
		if scope.Matches(&doc) && f.Matches(&doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *mockRepo) UpsertEmbedding(_ context.Context, id string, embs []domdoc.Embedding) error {
	m.embUpserts++
	m.lastEmbedded = embs
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	delete(m.docs, id)
	return nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func testDoc(t *testing.T, p domdoc.Params) domdoc.Document {
	t.Helper()
	if p.Owner == "" {
		p.Owner = "alice"
	}
	if p.Filename == "" {
		p.Filename = p.ID + ".txt"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	doc, err := domdoc.New(p)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func alice() access.Context {
	return access.NewContext("alice", "", access.RoleGuest)
}

// --- Tests ---

func TestGet_OwnedDocument(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1"}))
	svc := New(repo, &mockEmbedder{})

	doc, err := svc.Get(context.Background(), alice(), "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID() != "d1" {
		t.Errorf("unexpected document %s", doc.ID())
	}
}

func TestGet_OutOfScopeIsAccessDenied(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1", Owner: "bob"}))
	svc := New(repo, &mockEmbedder{})

	_, err := svc.Get(context.Background(), alice(), "d1")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestGet_SharedDocumentIsVisible(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1", Owner: "bob", SharedWith: []string{"alice"}}))
	svc := New(repo, &mockEmbedder{})

	if _, err := svc.Get(context.Background(), alice(), "d1"); err != nil {
		t.Fatalf("shared document must be directly readable: %v", err)
	}
}

func TestGet_AnonymousIsAccessDenied(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1"}))
	svc := New(repo, &mockEmbedder{})

	_, err := svc.Get(context.Background(), access.Anonymous(), "d1")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockEmbedder{})

	_, err := svc.Get(context.Background(), alice(), "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestList_UsesBroadScope(t *testing.T) {
	repo := newMockRepo(
		testDoc(t, domdoc.Params{ID: "mine"}),
		testDoc(t, domdoc.Params{ID: "shared", Owner: "bob", SharedWith: []string{"alice"}}),
		testDoc(t, domdoc.Params{ID: "foreign", Owner: "bob"}),
	)
	svc := New(repo, &mockEmbedder{})

	docs, total, err := svc.List(context.Background(), alice(), filter.Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastScope.OwnerOnly() {
		t.Error("listing must use the broad scope, not the owner-only search scope")
	}
	if total != 2 || len(docs) != 2 {
		t.Errorf("expected owned+shared, got total=%d len=%d", total, len(docs))
	}
}

func TestList_Pagination(t *testing.T) {
	repo := newMockRepo(
		testDoc(t, domdoc.Params{ID: "a"}),
		testDoc(t, domdoc.Params{ID: "b"}),
		testDoc(t, domdoc.Params{ID: "c"}),
	)
	svc := New(repo, &mockEmbedder{})

	docs, total, err := svc.List(context.Background(), alice(), filter.Filter{}, 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(docs) != 1 {
		t.Errorf("total=%d len=%d, want 3/1", total, len(docs))
	}
}

func TestList_NegativePaginationRejected(t *testing.T) {
	svc := New(newMockRepo(), &mockEmbedder{})

	_, _, err := svc.List(context.Background(), alice(), filter.Filter{}, -1, 0)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpsert_OwnerMismatchRejected(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockEmbedder{})

	doc := testDoc(t, domdoc.Params{ID: "d1", Owner: "bob"})
	err := svc.Upsert(context.Background(), alice(), &doc)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Error("denied upsert must not reach storage")
	}
}

func TestUpsert_CannotOverwriteForeignDocument(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1", Owner: "bob"}))
	svc := New(repo, &mockEmbedder{})

	// alice claims the same id for herself
	doc := testDoc(t, domdoc.Params{ID: "d1", Owner: "alice"})
	err := svc.Upsert(context.Background(), alice(), &doc)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestUpsert_NewDocument(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockEmbedder{})

	doc := testDoc(t, domdoc.Params{ID: "d1"})
	if err := svc.Upsert(context.Background(), alice(), &doc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if repo.upsertCalls != 1 {
		t.Error("expected storage write")
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1", Owner: "bob", SharedWith: []string{"alice"}}))
	svc := New(repo, &mockEmbedder{})

	err := svc.Delete(context.Background(), alice(), "d1")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("shared access must not grant delete, got %v", err)
	}
	if len(repo.deletedIDs) != 0 {
		t.Error("denied delete must not reach storage")
	}
}

func TestDelete_Owned(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1"}))
	svc := New(repo, &mockEmbedder{})

	if err := svc.Delete(context.Background(), alice(), "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != "d1" {
		t.Errorf("unexpected deletions: %v", repo.deletedIDs)
	}
}

func TestIngestContent_StoresTextAndEmbedding(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1"}))
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed)

	doc, err := svc.IngestContent(context.Background(), alice(), "d1", "quarterly planning notes")
	if err != nil {
		t.Fatalf("IngestContent: %v", err)
	}
	if doc.ExtractedText() != "quarterly planning notes" {
		t.Errorf("unexpected text %q", doc.ExtractedText())
	}
	if doc.ProcessedAt().IsZero() {
		t.Error("expected processed timestamp")
	}
	if repo.embUpserts != 1 || len(repo.lastEmbedded) != 1 {
		t.Error("expected one embedding upsert")
	}
	if repo.lastEmbedded[0].Snippet() != "quarterly planning notes" {
		t.Errorf("unexpected snippet %q", repo.lastEmbedded[0].Snippet())
	}
}

func TestIngestContent_EmbeddingFailureSurfaces(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1"}))
	embed := &mockEmbedder{err: domain.ErrEmbeddingUnavailable}
	svc := New(repo, embed)

	_, err := svc.IngestContent(context.Background(), alice(), "d1", "text")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("ingestion has no fallback, expected ErrEmbeddingUnavailable, got %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Error("failed ingestion must not write")
	}
}

func TestIngestContent_ForeignDocumentDenied(t *testing.T) {
	repo := newMockRepo(testDoc(t, domdoc.Params{ID: "d1", Owner: "bob"}))
	embed := &mockEmbedder{vec: []float32{1}}
	svc := New(repo, embed)

	_, err := svc.IngestContent(context.Background(), alice(), "d1", "text")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
	if embed.called {
		t.Error("denied ingestion must not call the embedder")
	}
}
