package domain

// ProductText is a product row still lacking an embedding: the store key
// used for backfill ordering and the name text to embed.
type ProductText struct {
	ID   int64
	Name string
}

// ProductEmbedding pairs a store key with its computed embedding, ready to
// be written back in one batch.
type ProductEmbedding struct {
	ID        int64
	Embedding []float32
}
