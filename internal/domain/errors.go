package domain

import "errors"

var (
	// ErrInvalidQuery signals empty or malformed query text, rejected before any store access.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUpstreamFailure signals that a candidate request (lexical or vector) failed.
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrEmbeddingUnavailable signals that the embedding provider could not produce a vector.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrStoreFailure signals that the store rejected or could not execute a read/write.
	ErrStoreFailure = errors.New("store failure")
	// ErrRateLimited signals a rate limit hit at the embedding provider.
	ErrRateLimited = errors.New("rate limited")
)
