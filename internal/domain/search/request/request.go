// Package request defines the validated search request.
package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated search query. An empty query is allowed and means
// filter-only browsing.
type Request struct {
	query    string
	filters  filter.Filter
	limit    int
	offset   int
	semantic bool
}

// New validates and normalizes search parameters.
// Defaults: limit=20. Limit is clamped to MaxLimit; negative pagination is
// rejected as an invalid request rather than clamped.
func New(query string, filters filter.Filter, limit, offset int, semantic bool) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:    query,
		filters:  filters,
		limit:    limit,
		offset:   offset,
		semantic: semantic,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// HasQuery reports whether the query is non-blank.
func (r *Request) HasQuery() bool { return strings.TrimSpace(r.query) != "" }

// Filters returns the structured filters.
func (r *Request) Filters() filter.Filter { return r.filters }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }

// Semantic reports whether semantic scoring was requested.
func (r *Request) Semantic() bool { return r.semantic }
