package backfill

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodsearch/internal/domain"
	"github.com/kailas-cloud/prodsearch/internal/metrics"
)

// DefaultBatchSize bounds one select-embed-write cycle when no size is configured.
const DefaultBatchSize = 100

// Service fills missing product embeddings batch by batch until no eligible
// rows remain. A failed batch aborts the run without retry: rows with a null
// embedding are exactly the remaining work, so re-triggering after an abort
// resumes where the failed run stopped.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates a backfill service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Run drives the backfill loop to completion or failure. Batches are strictly
// sequential: selection depends on the previous batch's committed state.
// The returned error is non-nil exactly when the run aborted; the progress
// counters are valid either way.
func (s *Service) Run(ctx context.Context, batchSize int) (domain.BackfillProgress, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	progress := domain.BackfillProgress{
		State:     domain.BackfillRunning,
		BatchSize: batchSize,
	}

	for {
		products, err := s.repo.SelectMissingEmbeddings(ctx, batchSize)
		if err != nil {
			return s.abort(progress, fmt.Errorf("select missing embeddings: %w", err))
		}

		if len(products) == 0 {
			progress.State = domain.BackfillCompleted
			progress.LastBatchCount = 0
			metrics.BackfillRunsTotal.WithLabelValues(string(domain.BackfillCompleted)).Inc()
			s.logger.Info("backfill completed",
				zap.Int("batch_size", progress.BatchSize),
				zap.Int("total_updated", progress.TotalUpdated),
			)
			return progress, nil
		}

		batch := make([]domain.ProductEmbedding, 0, len(products))
		for _, p := range products {
			embResult, err := s.embed.Embed(ctx, p.Name)
			if err != nil {
				return s.abort(progress, fmt.Errorf("embed product %d: %w", p.ID, err))
			}
			batch = append(batch, domain.ProductEmbedding{ID: p.ID, Embedding: embResult.Embedding})
		}

		updated, err := s.repo.WriteEmbeddings(ctx, batch)
		if err != nil {
			return s.abort(progress, fmt.Errorf("write embeddings: %w", err))
		}

		// updated can fall short of len(batch) when a concurrent run filled
		// some rows first; those rows are simply no longer eligible.
		progress.LastBatchCount = updated
		progress.TotalUpdated += updated
		metrics.BackfillRowsUpdatedTotal.Add(float64(updated))

		s.logger.Debug("backfill batch committed",
			zap.Int("selected", len(products)),
			zap.Int("updated", updated),
			zap.Int("total_updated", progress.TotalUpdated),
		)
	}
}

func (s *Service) abort(progress domain.BackfillProgress, err error) (domain.BackfillProgress, error) {
	progress.State = domain.BackfillAborted
	metrics.BackfillRunsTotal.WithLabelValues(string(domain.BackfillAborted)).Inc()
	s.logger.Error("backfill aborted",
		zap.Int("total_updated", progress.TotalUpdated),
		zap.Error(err),
	)
	return progress, err
}
