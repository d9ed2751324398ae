// Package result defines the public search result projection.
package result

import (
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/document"
	"github.com/kailas-cloud/docdex/internal/domain/search/strategy"
)

// PreviewLength is the preview size in runes.
const PreviewLength = 200

// PreviewPlaceholder is returned when a document has no extracted text.
const PreviewPlaceholder = "No preview available"

// Result is a single search hit: a document projection with its relevance
// score and the capability flags of the requesting identity.
// Capability flags are derived at response time and never cached.
type Result struct {
	doc       document.Document
	score     float64
	preview   string
	canEdit   bool
	canShare  bool
	canDelete bool
}

// New creates a search result.
func New(doc document.Document, score float64, preview string, canEdit, canShare, canDelete bool) Result {
	return Result{
		doc:       doc,
		score:     score,
		preview:   preview,
		canEdit:   canEdit,
		canShare:  canShare,
		canDelete: canDelete,
	}
}

// Document returns the underlying document projection.
func (r *Result) Document() *document.Document { return &r.doc }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// Preview returns the text preview.
func (r *Result) Preview() string { return r.preview }

// CanEdit reports whether the requesting identity may edit the document.
func (r *Result) CanEdit() bool { return r.canEdit }

// CanShare reports whether the requesting identity may share the document.
func (r *Result) CanShare() bool { return r.canShare }

// CanDelete reports whether the requesting identity may delete the document.
func (r *Result) CanDelete() bool { return r.canDelete }

// Page is one page of ranked results plus ranking metadata.
type Page struct {
	results        []Result
	total          int
	strategyUsed   strategy.Strategy
	processingTime time.Duration
}

// NewPage creates a result page. total is the pre-pagination candidate count.
func NewPage(results []Result, total int, used strategy.Strategy, elapsed time.Duration) Page {
	return Page{results: results, total: total, strategyUsed: used, processingTime: elapsed}
}

// Results returns the page of results.
func (p *Page) Results() []Result { return p.results }

// Total returns the pre-pagination candidate count.
func (p *Page) Total() int { return p.total }

// Strategy returns the ranking strategy actually used.
func (p *Page) Strategy() strategy.Strategy { return p.strategyUsed }

// ProcessingTime returns the elapsed search time.
func (p *Page) ProcessingTime() time.Duration { return p.processingTime }
