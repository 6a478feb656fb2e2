package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// LexicalSearch returns external IDs of products whose name contains the
// query as a case-insensitive substring, in store-defined order.
func (s *Store) LexicalSearch(ctx context.Context, query string, limit int) ([]string, error) {
	stmt := `
		SELECT external_id
		FROM product
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, stmt, escapeLike(query), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run lexical search")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan lexical result")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "lexical search rows")
	}
	return ids, nil
}

// VectorSearch returns external IDs of the products whose embeddings are
// nearest to the query vector, ascending by cosine distance. Rows without
// an embedding are never candidates.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, limit int) ([]string, error) {
	stmt := `
		SELECT external_id
		FROM product
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, stmt, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run vector search")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector result")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "vector search rows")
	}
	return ids, nil
}

// SelectMissingEmbeddings returns up to limit products without an embedding,
// ordered by id ascending so repeated batches make monotonic progress.
func (s *Store) SelectMissingEmbeddings(ctx context.Context, limit int) ([]domain.ProductText, error) {
	stmt := `
		SELECT id, name
		FROM product
		WHERE embedding IS NULL
		ORDER BY id ASC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select missing embeddings")
	}
	defer rows.Close()

	list := []domain.ProductText{}
	for rows.Next() {
		var p domain.ProductText
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "missing embeddings rows")
	}
	return list, nil
}

// WriteEmbeddings writes a batch of embeddings in one transaction. Each row
// is updated only while it still lacks an embedding, so a concurrent run
// that already filled a row leaves this batch redundant rather than wrong.
// Returns the number of rows updated; on error nothing is committed.
func (s *Store) WriteEmbeddings(ctx context.Context, batch []domain.ProductEmbedding) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt := `
		UPDATE product
		SET embedding = $1
		WHERE id = $2 AND embedding IS NULL
	`

	updated := 0
	for _, row := range batch {
		res, err := tx.ExecContext(ctx, stmt, pgvector.NewVector(row.Embedding), row.ID)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to write embedding for product %d", row.ID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "rows affected")
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit embeddings")
	}
	return updated, nil
}

// UpsertProduct inserts or renames a product by external ID. Renaming clears
// the embedding so the backfill recomputes it from the new name.
func (s *Store) UpsertProduct(ctx context.Context, externalID, name string) error {
	stmt := `
		INSERT INTO product (external_id, name)
		VALUES ($1, $2)
		ON CONFLICT (external_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			embedding = CASE WHEN product.name IS DISTINCT FROM EXCLUDED.name
				THEN NULL ELSE product.embedding END
	`

	if _, err := s.db.ExecContext(ctx, stmt, externalID, name); err != nil {
		return errors.Wrapf(err, "failed to upsert product %s", externalID)
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
