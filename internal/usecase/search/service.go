// Package search ranks access-scoped document candidates by combining
// embedding similarity with lexical relevance.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/access"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/request"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
	"github.com/kailas-cloud/docdex/internal/metrics"
)

// Combined-score weights when semantic scoring succeeds. Tuning parameters.
const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

// Service orchestrates hybrid search: scope resolution, optional semantic
// scoring with keyword fallback, combination, sorting, and pagination.
type Service struct {
	repo         Repository
	embed        domain.Embedder
	embedTimeout time.Duration
	log          *zap.Logger
}

// New creates a search service. embedTimeout bounds the single embedding
// round-trip per request; zero means no bound beyond the transport's own.
func New(repo Repository, embed domain.Embedder, embedTimeout time.Duration, log *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, embedTimeout: embedTimeout, log: log}
}

type scoredDoc struct {
	doc   domdoc.Document
	score float64
}

// Search executes a ranked, paginated search over the identity's own
// documents. Embedding failures degrade the request to keyword ranking and
// never surface as errors; storage failures do surface, as there is no safe
// fallback for "cannot read the candidate set".
func (s *Service) Search(ctx context.Context, actx access.Context, req *request.Request) (result.Page, error) {
	start := time.Now()

	scope := access.SearchScope(actx)
	docs, err := s.repo.FindCandidates(ctx, scope, req.Filters())
	if err != nil {
		return result.Page{}, fmt.Errorf("%w: find candidates: %w", domain.ErrSearchFailed, err)
	}

	used := strategy.Keyword
	var scored []scoredDoc

	if req.Semantic() && req.HasQuery() {
		if queryVec, ok := s.embedQuery(ctx, req.Query()); ok {
			scored = s.scoreSemantic(ctx, docs, queryVec, req.Query())
			used = strategy.Semantic
		} else {
			metrics.SearchFallbacksTotal.Inc()
			s.log.Warn("semantic scoring unavailable, falling back to keyword",
				zap.String("identity", actx.Identity()))
		}
	}
	if used == strategy.Keyword {
		scored = s.scoreKeyword(ctx, docs, req)
	}

	// Candidates arrive in recency order; the stable sort keeps that order
	// among equal scores, which makes pagination deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	total := len(scored)
	page := paginate(scored, req.Offset(), req.Limit())
	results := assemble(page, actx.Identity())

	elapsed := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues(string(used)).Inc()
	metrics.SearchDuration.WithLabelValues(string(used)).Observe(elapsed.Seconds())

	return result.NewPage(results, total, used, elapsed), nil
}

// embedQuery requests a query embedding under the configured timeout.
// Any failure, including an empty vector, reports not-ok: the provider
// contract is "no embedding available", never a fatal error.
func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, bool) {
	if s.embedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.embedTimeout)
		defer cancel()
	}

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		s.log.Warn("query embedding failed", zap.Error(err))
		return nil, false
	}
	if len(res.Embedding) == 0 {
		return nil, false
	}
	return res.Embedding, true
}

// scoreSemantic scores candidates as 0.7×semantic + 0.3×keyword. Only
// candidates with at least one embedding participate; the rest cannot be
// compared against the query vector and are dropped from this ranking.
func (s *Service) scoreSemantic(
	ctx context.Context, docs []domdoc.Document, queryVec []float32, query string,
) []scoredDoc {
	candidates := docs[:0:0]
	for _, doc := range docs {
		if doc.HasEmbeddings() {
			candidates = append(candidates, doc)
		}
	}

	scored := make([]scoredDoc, len(candidates))
	scoreAll(ctx, candidates, scored, func(doc *domdoc.Document) float64 {
		sem := maxSimilarity(queryVec, doc.Embeddings())
		return semanticWeight*sem + keywordWeight*keywordScore(query, doc)
	})
	return scored
}

// scoreKeyword scores candidates lexically. An empty query scores every
// candidate a flat 1.0 so ordering falls back to recency.
func (s *Service) scoreKeyword(ctx context.Context, docs []domdoc.Document, req *request.Request) []scoredDoc {
	scored := make([]scoredDoc, len(docs))
	if !req.HasQuery() {
		for i, doc := range docs {
			scored[i] = scoredDoc{doc: doc, score: 1.0}
		}
		return scored
	}

	query := req.Query()
	scoreAll(ctx, docs, scored, func(doc *domdoc.Document) float64 {
		return keywordScore(query, doc)
	})
	return scored
}

// scoreAll fans candidate scoring out across CPUs. Scoring is pure
// computation over data already in memory; each candidate is independent.
func scoreAll(ctx context.Context, docs []domdoc.Document, out []scoredDoc, score func(*domdoc.Document) float64) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range docs {
		i := i
		g.Go(func() error {
			out[i] = scoredDoc{doc: docs[i], score: score(&docs[i])}
			return nil
		})
	}
	_ = g.Wait() // score funcs never fail
}

// paginate slices after scoring and sorting: ranking must see the full
// filtered candidate set to be correct.
func paginate(scored []scoredDoc, offset, limit int) []scoredDoc {
	if offset >= len(scored) {
		return nil
	}
	scored = scored[offset:]
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
