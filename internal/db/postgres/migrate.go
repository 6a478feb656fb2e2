package postgres

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// MigrateOptions holds index parameters applied when creating the schema.
type MigrateOptions struct {
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
}

// Migrate creates the product table and its indexes if they do not exist.
// Safe to run on every startup.
func (s *Store) Migrate(ctx context.Context, opts MigrateOptions) error {
	if opts.VectorDim <= 0 {
		return errors.New("vector dimension is required for migration")
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS product (
				id bigserial PRIMARY KEY,
				external_id text NOT NULL UNIQUE,
				name text NOT NULL,
				embedding vector(%d)
			)`, opts.VectorDim),
		`CREATE INDEX IF NOT EXISTS idx_product_name ON product (lower(name) text_pattern_ops)`,
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS idx_product_embedding
			ON product USING hnsw (embedding vector_cosine_ops)
			WITH (m = %d, ef_construction = %d)`, opts.HNSWM, opts.HNSWEFConstruct),
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to run migration")
		}
	}
	return nil
}
