package search

import (
	"context"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// Repository defines the storage contract for candidate retrieval.
// Both methods return external product IDs in the source's own order:
// store-defined for the lexical scan, ascending distance for the vector scan.
type Repository interface {
	LexicalSearch(ctx context.Context, query string, limit int) ([]string, error)
	VectorSearch(ctx context.Context, vector []float32, limit int) ([]string, error)
}

// Embedder vectorizes query text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
