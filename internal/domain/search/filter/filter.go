// Package filter defines the structured browse filters applied to candidates.
package filter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/docdex/internal/domain/document"
)

// MaxTags is the maximum number of tag filters per request.
const MaxTags = 32

// Filter is a validated set of structured document filters.
// The zero value matches every document.
type Filter struct {
	department    string
	fileType      string
	channel       string
	folderID      string
	tags          []string
	visibilities  []document.Visibility
	favorite      *bool
	createdAfter  *time.Time
	createdBefore *time.Time
}

// Params carries the raw filter fields for construction.
type Params struct {
	Department    string
	FileType      string
	Channel       string
	FolderID      string
	Tags          []string
	Visibilities  []document.Visibility
	Favorite      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// New validates and creates a Filter.
func New(p Params) (Filter, error) {
	if len(p.Tags) > MaxTags {
		return Filter{}, fmt.Errorf("too many tag filters (max %d)", MaxTags)
	}
	for _, v := range p.Visibilities {
		if !v.IsValid() {
			return Filter{}, fmt.Errorf("invalid visibility %q", v)
		}
	}
	if p.CreatedAfter != nil && p.CreatedBefore != nil && p.CreatedBefore.Before(*p.CreatedAfter) {
		return Filter{}, fmt.Errorf("created_before precedes created_after")
	}

	return Filter{
		department:    p.Department,
		fileType:      p.FileType,
		channel:       p.Channel,
		folderID:      p.FolderID,
		tags:          p.Tags,
		visibilities:  p.Visibilities,
		favorite:      p.Favorite,
		createdAfter:  p.CreatedAfter,
		createdBefore: p.CreatedBefore,
	}, nil
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f.department == "" && f.fileType == "" && f.channel == "" && f.folderID == "" &&
		len(f.tags) == 0 && len(f.visibilities) == 0 && f.favorite == nil &&
		f.createdAfter == nil && f.createdBefore == nil
}

// Matches reports whether the document passes every set clause.
func (f Filter) Matches(doc *document.Document) bool {
	if f.department != "" && doc.Department() != f.department {
		return false
	}
	if f.fileType != "" && doc.FileType() != f.fileType {
		return false
	}
	if f.channel != "" && doc.Channel() != f.channel {
		return false
	}
	if f.folderID != "" && doc.FolderID() != f.folderID {
		return false
	}
	if f.favorite != nil && doc.Favorite() != *f.favorite {
		return false
	}
	if len(f.visibilities) > 0 && !containsVisibility(f.visibilities, doc.Visibility()) {
		return false
	}
	for _, tag := range f.tags {
		if !hasTag(doc.Tags(), tag) {
			return false
		}
	}
	if f.createdAfter != nil && doc.CreatedAt().Before(*f.createdAfter) {
		return false
	}
	if f.createdBefore != nil && doc.CreatedAt().After(*f.createdBefore) {
		return false
	}
	return true
}

func containsVisibility(vs []document.Visibility, v document.Visibility) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
