package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// DefaultCandidateLimit caps each candidate list when no limit is configured.
const DefaultCandidateLimit = 100

// Service blends lexical and vector product candidates into one ranked,
// deduplicated identifier list.
type Service struct {
	repo        Repository
	embed       Embedder
	textLimit   int
	vectorLimit int
}

// New creates a hybrid search service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{
		repo:        repo,
		embed:       embed,
		textLimit:   DefaultCandidateLimit,
		vectorLimit: DefaultCandidateLimit,
	}
}

// WithLimits configures the per-source candidate limits.
func (s *Service) WithLimits(textLimit, vectorLimit int) *Service {
	if textLimit > 0 {
		s.textLimit = textLimit
	}
	if vectorLimit > 0 {
		s.vectorLimit = vectorLimit
	}
	return s
}

// Search executes both candidate requests and merges the results.
// The two requests have no mutual data dependency and run concurrently;
// either failure aborts the whole search with no partial results.
func (s *Service) Search(ctx context.Context, queryText string) ([]string, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: query text is empty", domain.ErrInvalidQuery)
	}

	var lexical, vector []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.repo.LexicalSearch(gctx, queryText, s.textLimit)
		if err != nil {
			return fmt.Errorf("lexical candidates: %w", err)
		}
		lexical = ids
		return nil
	})
	g.Go(func() error {
		embResult, err := s.embed.Embed(gctx, queryText)
		if err != nil {
			return fmt.Errorf("vectorize query: %w", err)
		}
		ids, err := s.repo.VectorSearch(gctx, embResult.Embedding, s.vectorLimit)
		if err != nil {
			return fmt.Errorf("vector candidates: %w", err)
		}
		vector = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}

	candidates := tagCandidates(lexical, domain.SourceText)
	candidates = append(candidates, tagCandidates(vector, domain.SourceEmbedding)...)
	return mergeCandidates(candidates), nil
}
