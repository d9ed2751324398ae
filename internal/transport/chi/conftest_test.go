package chi

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docdex/internal/usecase/search"
)

// memRepo is an in-memory document repository backing the HTTP tests.
type memRepo struct {
	docs    map[string]domdoc.Document
	findErr error
}

func newMemRepo(docs ...domdoc.Document) *memRepo {
	m := &memRepo{docs: map[string]domdoc.Document{}}
	for _, d := range docs {
		m.docs[d.ID()] = d
	}
	return m
}

func (m *memRepo) Upsert(_ context.Context, doc *domdoc.Document) error {
	m.docs[doc.ID()] = *doc
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (domdoc.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memRepo) FindCandidates(
	_ context.Context, scope access.Scope, f filter.Filter,
) ([]domdoc.Document, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domdoc.Document
	for _, doc := range m.docs {
		if scope.Matches(&doc) && f.Matches(&doc) {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

func (m *memRepo) UpsertEmbedding(_ context.Context, id string, embs []domdoc.Embedding) error {
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

type memEmbedder struct {
	vec []float32
	err error
}

func (m *memEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type memPinger struct {
	err error
}

func (m *memPinger) Ping(_ context.Context) error { return m.err }

type memChecker struct {
	err error
}

func (m *memChecker) HealthCheck(_ context.Context) error { return m.err }

type testEnv struct {
	handler http.Handler
	repo    *memRepo
	embed   *memEmbedder
	pinger  *memPinger
}

func newTestEnv(t *testing.T, docs ...domdoc.Document) *testEnv {
	t.Helper()
	repo := newMemRepo(docs...)
	embed := &memEmbedder{vec: []float32{1, 0}}
	pinger := &memPinger{}

	log := zap.NewNop()
	srv := NewServer(
		documentuc.New(repo, embed),
		searchuc.New(repo, embed, 0, log),
		healthuc.New(pinger, &memChecker{}),
		log,
	)
	return &testEnv{
		handler: srv.Router(nil),
		repo:    repo,
		embed:   embed,
		pinger:  pinger,
	}
}

func seedDoc(t *testing.T, p domdoc.Params) domdoc.Document {
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
