package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/db"
	"github.com/kailas-cloud/docdex/internal/domain"
)

type mockKV struct {
	data    map[string][]byte
	lastTTL time.Duration
	getErr  error
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string][]byte{}}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *mockKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 7}, nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{0.5, -1.25}}
	c := New(inner, kv, "docdex:", 0, nil, zap.NewNop())

	first, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss must report inner token usage, got %d", first.TotalTokens)
	}

	second, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 2 || second.Embedding[0] != 0.5 || second.Embedding[1] != -1.25 {
		t.Errorf("unexpected cached vector: %v", second.Embedding)
	}
}

func TestCachedEmbedder_AppliesTTL(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{1}}
	c := New(inner, kv, "docdex:", time.Hour, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.lastTTL != time.Hour {
		t.Errorf("expected TTL 1h, got %v", kv.lastTTL)
	}
}

func TestCachedEmbedder_InnerErrorPropagates(t *testing.T) {
	kv := newMockKV()
	boom := errors.New("provider down")
	inner := &countingEmbedder{err: boom}
	c := New(inner, kv, "docdex:", 0, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "hello"); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCachedEmbedder_StoreErrorFallsThrough(t *testing.T) {
	kv := newMockKV()
	kv.getErr = errors.New("connection reset")
	inner := &countingEmbedder{vec: []float32{1}}
	c := New(inner, kv, "docdex:", 0, nil, zap.NewNop())

	res, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 1 {
		t.Error("expected inner embedder result despite cache failure")
	}
}
