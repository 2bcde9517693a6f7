package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles a content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoCorpus indicates a check was requested before any corpus
	// sentence was ingested.
	ErrNoCorpus = errors.New("no corpus available")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the corpus embedding dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrFetchFailed indicates a source could not be downloaded.
	// The corpus is left unchanged.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCorpusInconsistent indicates persisted corpus state violates the
	// sentence/embedding/metadata alignment.
	ErrCorpusInconsistent = errors.New("corpus index inconsistent")
)
