package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	lexicalResults []string
	lexicalErr     error
	vectorResults  []string
	vectorErr      error

	lexicalCalled   bool
	vectorCalled    bool
	lastLexicalLim  int
	lastVectorLim   int
	lastQueryVector []float32
}

func (m *mockRepo) LexicalSearch(_ context.Context, _ string, limit int) ([]string, error) {
	m.lexicalCalled = true
	m.lastLexicalLim = limit
	return m.lexicalResults, m.lexicalErr
}

func (m *mockRepo) VectorSearch(_ context.Context, vector []float32, limit int) ([]string, error) {
	m.vectorCalled = true
	m.lastVectorLim = limit
	m.lastQueryVector = vector
	return m.vectorResults, m.vectorErr
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

// --- Tests ---

func TestSearch_MergesBothSources(t *testing.T) {
	repo := &mockRepo{
		lexicalResults: []string{"P1", "P3"},
		vectorResults:  []string{"P3", "P4"},
	}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed).WithLimits(2, 2)

	ids, err := svc.Search(context.Background(), "wireless mouse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"P1", "P3", "P4"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	if !repo.lexicalCalled || !repo.vectorCalled {
		t.Error("expected both candidate requests to be issued")
	}
	if !embed.called {
		t.Error("expected query text to be embedded")
	}
	if repo.lastLexicalLim != 2 || repo.lastVectorLim != 2 {
		t.Errorf("limits = (%d, %d), want (2, 2)", repo.lastLexicalLim, repo.lastVectorLim)
	}
}

func TestSearch_PassesQueryVectorToStore(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.5, 0.6, 0.7}}
	svc := New(repo, embed)

	if _, err := svc.Search(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(repo.lastQueryVector, []float32{0.5, 0.6, 0.7}) {
		t.Errorf("vector search got %v, want the embedded query", repo.lastQueryVector)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("query %q: expected ErrInvalidQuery, got %v", q, err)
		}
	}
	if repo.lexicalCalled || repo.vectorCalled {
		t.Error("store must not be reached for invalid input")
	}
}

func TestSearch_LexicalFailureAbortsSearch(t *testing.T) {
	repo := &mockRepo{
		lexicalErr:    errors.New("connection reset"),
		vectorResults: []string{"P1"},
	}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	ids, err := svc.Search(context.Background(), "query")
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
	if ids != nil {
		t.Errorf("expected no partial results, got %v", ids)
	}
}

func TestSearch_EmbeddingFailureAbortsSearch(t *testing.T) {
	repo := &mockRepo{lexicalResults: []string{"P1"}}
	embed := &mockEmbedder{err: domain.ErrEmbeddingUnavailable}
	svc := New(repo, embed)

	ids, err := svc.Search(context.Background(), "query")
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected cause ErrEmbeddingUnavailable in chain, got %v", err)
	}
	if ids != nil {
		t.Errorf("expected no partial results, got %v", ids)
	}
}

func TestSearch_VectorFailureAbortsSearch(t *testing.T) {
	repo := &mockRepo{
		lexicalResults: []string{"P1"},
		vectorErr:      errors.New("index offline"),
	}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	_, err := svc.Search(context.Background(), "query")
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
}

func TestSearch_DefaultLimits(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	if _, err := svc.Search(context.Background(), "query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLexicalLim != DefaultCandidateLimit || repo.lastVectorLim != DefaultCandidateLimit {
		t.Errorf("limits = (%d, %d), want (%d, %d)",
			repo.lastLexicalLim, repo.lastVectorLim, DefaultCandidateLimit, DefaultCandidateLimit)
	}
}
