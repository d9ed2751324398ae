package document

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/kailas-cloud/docdex/internal/db"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

// mockStore is an in-memory implementation of the consumer interface.
type mockStore struct {
	docs         map[string][]byte   // key -> JSON document
	sets         map[string][]string // key -> members
	jsonSetErr   error
	jsonGetErr   error
	sMembersErr  error
	getCalls     int
	membersCalls int
}

func newMockStore() *mockStore {
	return &mockStore{docs: map[string][]byte{}, sets: map[string][]string{}}
}

func (m *mockStore) JSONSet(_ context.Context, key, path string, data []byte) error {
	if m.jsonSetErr != nil {
		return m.jsonSetErr
	}
	if path == "$" {
		m.docs[key] = data
		return nil
	}
	// $.embeddings partial update
	existing, ok := m.docs[key]
	if !ok {
		return db.ErrKeyNotFound
	}
	var dto docDTO
	if err := json.Unmarshal(existing, &dto); err != nil {
		return err
	}
	var embs []embeddingDTO
	if err := json.Unmarshal(data, &embs); err != nil {
		return err
	}
	dto.Embeddings = embs
	updated, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	m.docs[key] = updated
	return nil
}

func (m *mockStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	m.getCalls++
	if m.jsonGetErr != nil {
		return nil, m.jsonGetErr
	}
	data, ok := m.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetErr != nil {
		return nil, m.jsonGetErr
	}
	out := make([][]byte, len(keys))
	for i, key := range keys {
		if data, ok := m.docs[key]; ok {
			out[i] = data
		}
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.docs, key)
	return nil
}

func (m *mockStore) SAdd(_ context.Context, key string, members ...string) error {
	for _, member := range members {
		if !contains(m.sets[key], member) {
			m.sets[key] = append(m.sets[key], member)
		}
	}
	return nil
}

func (m *mockStore) SRem(_ context.Context, key string, members ...string) error {
	for _, member := range members {
		m.sets[key] = remove(m.sets[key], member)
	}
	return nil
}

func (m *mockStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.membersCalls++
	if m.sMembersErr != nil {
		return nil, m.sMembersErr
	}
	out := append([]string(nil), m.sets[key]...)
	sort.Strings(out)
	return out, nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, db.RetryPolicy{MaxAttempts: 1}, "docdex:"), ms
}

func mustDoc(t *testing.T, p domdoc.Params) domdoc.Document {
	t.Helper()
	if p.Filename == "" {
		p.Filename = "file.txt"
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
