package domain

// Source identifies which retrieval method proposed a candidate.
type Source int

const (
	// SourceText marks a candidate from the lexical (ILIKE) search.
	SourceText Source = iota
	// SourceEmbedding marks a candidate from the vector (nearest-neighbor) search.
	SourceEmbedding
)

// String returns the wire/log name of the source.
func (s Source) String() string {
	switch s {
	case SourceText:
		return "text_match"
	case SourceEmbedding:
		return "embedding_match"
	default:
		return "unknown"
	}
}

// Candidate is a row proposed by one retrieval method before merging.
// Rank is the zero-based position the row held within its own source's
// result ordering; it must be captured before deduplication so the merged
// output can preserve each source's relative order.
type Candidate struct {
	ExternalID string
	Source     Source
	Rank       int
}
