package backfill

import (
	"context"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// Repository defines the storage contract for the embedding backfill.
// SelectMissingEmbeddings returns rows without an embedding ordered by id
// ascending; WriteEmbeddings commits a batch atomically and only touches
// rows that still lack an embedding.
type Repository interface {
	SelectMissingEmbeddings(ctx context.Context, limit int) ([]domain.ProductText, error)
	WriteEmbeddings(ctx context.Context, batch []domain.ProductEmbedding) (int, error)
}

// Embedder vectorizes product names into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
