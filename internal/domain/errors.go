// Package domain holds cross-layer contracts and sentinel errors.
package domain

import "errors"

// Sentinel errors shared across layers.
var (
	// ErrAccessDenied signals that the requesting identity may not touch the
	// resource via a direct lookup. Search never returns this: out-of-scope
	// documents are simply absent from results.
	ErrAccessDenied = errors.New("access denied")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidRequest signals malformed filters or pagination.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingUnavailable signals an embedding provider failure. The search
	// path absorbs it and degrades to keyword scoring; ingestion surfaces it.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrStorageUnavailable signals a storage failure after retries. Retryable.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSearchFailed wraps a storage failure inside the search pipeline.
	ErrSearchFailed = errors.New("search failed")
)
