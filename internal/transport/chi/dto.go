package chi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain"
	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/filter"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// Error codes returned in error responses.
const (
	codeBadRequest           = "bad_request"
	codeUnauthorized         = "unauthorized"
	codeAccessDenied         = "access_denied"
	codeDocumentNotFound     = "document_not_found"
	codeInvalidRequest       = "invalid_request"
	codeStorageUnavailable   = "storage_unavailable"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeSearchFailed         = "search_failed"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type filterPayload struct {
	Department    string     `json:"department,omitempty"`
	FileType      string     `json:"file_type,omitempty"`
	Channel       string     `json:"channel,omitempty"`
	FolderID      string     `json:"folder_id,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Visibility    []string   `json:"visibility,omitempty"`
	Favorite      *bool      `json:"favorite,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

type searchPayload struct {
	Query   string         `json:"query"`
	Filters *filterPayload `json:"filters,omitempty"`
	Limit   int            `json:"limit,omitempty"`
	Offset  int            `json:"offset,omitempty"`
	// UseSemanticSearch defaults to true when omitted.
	UseSemanticSearch *bool `json:"use_semantic_search,omitempty"`
}

type searchResultItem struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Score     float64   `json:"score"`
	Preview   string    `json:"preview"`
	FileType  string    `json:"file_type,omitempty"`
	FolderID  string    `json:"folder_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CanEdit   bool      `json:"can_edit"`
	CanShare  bool      `json:"can_share"`
	CanDelete bool      `json:"can_delete"`
}

type searchResponse struct {
	Results          []searchResultItem `json:"results"`
	Total            int                `json:"total"`
	SearchMethod     string             `json:"search_method"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

type documentPayload struct {
	ID             string   `json:"id,omitempty"`
	Filename       string   `json:"filename"`
	Visibility     string   `json:"visibility,omitempty"`
	OrganizationID string   `json:"organization_id,omitempty"`
	Department     string   `json:"department,omitempty"`
	Channel        string   `json:"channel,omitempty"`
	FileType       string   `json:"file_type,omitempty"`
	FolderID       string   `json:"folder_id,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Favorite       bool     `json:"favorite,omitempty"`
	SharedWith     []string `json:"shared_with,omitempty"`
}

type documentResponse struct {
	ID             string     `json:"id"`
	Owner          string     `json:"owner"`
	Filename       string     `json:"filename"`
	Visibility     string     `json:"visibility"`
	OrganizationID string     `json:"organization_id,omitempty"`
	Department     string     `json:"department,omitempty"`
	Channel        string     `json:"channel,omitempty"`
	FileType       string     `json:"file_type,omitempty"`
	FolderID       string     `json:"folder_id,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Favorite       bool       `json:"favorite,omitempty"`
	SharedWith     []string   `json:"shared_with,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

type documentListResponse struct {
	Items []documentResponse `json:"items"`
	Total int                `json:"total"`
}

type ingestPayload struct {
	Text string `json:"text"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func filterFromPayload(p *filterPayload) (filter.Filter, error) {
	if p == nil {
		return filter.Filter{}, nil
	}

	visibilities := make([]domdoc.Visibility, 0, len(p.Visibility))
	for _, v := range p.Visibility {
		visibilities = append(visibilities, domdoc.Visibility(v))
	}

	f, err := filter.New(filter.Params{
		Department:    p.Department,
		FileType:      p.FileType,
		Channel:       p.Channel,
		FolderID:      p.FolderID,
		Tags:          p.Tags,
		Visibilities:  visibilities,
		Favorite:      p.Favorite,
		CreatedAfter:  p.CreatedAfter,
		CreatedBefore: p.CreatedBefore,
	})
	if err != nil {
		return filter.Filter{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return f, nil
}

// filterFromQuery parses list filters from URL query parameters.
// Multi-value fields (tags, visibility) are comma-separated; timestamps are
// RFC 3339.
func filterFromQuery(r *http.Request) (filter.Filter, error) {
	q := r.URL.Query()
	p := filter.Params{
		Department: q.Get("department"),
		FileType:   q.Get("file_type"),
		Channel:    q.Get("channel"),
		FolderID:   q.Get("folder_id"),
	}

	if raw := q.Get("tags"); raw != "" {
		p.Tags = strings.Split(raw, ",")
	}
	if raw := q.Get("visibility"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			p.Visibilities = append(p.Visibilities, domdoc.Visibility(v))
		}
	}
	if raw := q.Get("favorite"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("%w: favorite must be a boolean", domain.ErrInvalidRequest)
		}
		p.Favorite = &fav
	}
	if raw := q.Get("created_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("%w: created_after must be RFC 3339", domain.ErrInvalidRequest)
		}
		p.CreatedAfter = &t
	}
	if raw := q.Get("created_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("%w: created_before must be RFC 3339", domain.ErrInvalidRequest)
		}
		p.CreatedBefore = &t
	}

	f, err := filter.New(p)
	if err != nil {
		return filter.Filter{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return f, nil
}

func documentFromPayload(id, owner string, p documentPayload) (domdoc.Document, error) {
	doc, err := domdoc.New(domdoc.Params{
		ID:             id,
		Owner:          owner,
		OrganizationID: p.OrganizationID,
		Visibility:     domdoc.Visibility(p.Visibility),
		Department:     p.Department,
		Channel:        p.Channel,
		FileType:       p.FileType,
		FolderID:       p.FolderID,
		Filename:       p.Filename,
		Tags:           p.Tags,
		Favorite:       p.Favorite,
		SharedWith:     p.SharedWith,
	})
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return doc, nil
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	resp := documentResponse{
		ID:             doc.ID(),
		Owner:          doc.Owner(),
		Filename:       doc.Filename(),
		Visibility:     string(doc.Visibility()),
		OrganizationID: doc.OrganizationID(),
		Department:     doc.Department(),
		Channel:        doc.Channel(),
		FileType:       doc.FileType(),
		FolderID:       doc.FolderID(),
		Tags:           doc.Tags(),
		Favorite:       doc.Favorite(),
		SharedWith:     doc.SharedWith(),
		CreatedAt:      doc.CreatedAt(),
	}
	if !doc.ProcessedAt().IsZero() {
		t := doc.ProcessedAt()
		resp.ProcessedAt = &t
	}
	return resp
}

func searchResultToItem(r *result.Result) searchResultItem {
	doc := r.Document()
	return searchResultItem{
		ID:        doc.ID(),
		Filename:  doc.Filename(),
		Score:     r.Score(),
		Preview:   r.Preview(),
		FileType:  doc.FileType(),
		FolderID:  doc.FolderID(),
		Tags:      doc.Tags(),
		CreatedAt: doc.CreatedAt(),
		CanEdit:   r.CanEdit(),
		CanShare:  r.CanShare(),
		CanDelete: r.CanDelete(),
	}
}
