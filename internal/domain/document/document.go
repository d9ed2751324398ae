// Package document defines the document aggregate of the store.
package document

import (
	"fmt"
	"strings"
	"time"
)

// MaxIDLength is the maximum document identifier length.
const MaxIDLength = 256

// SnippetLength is the maximum reference snippet length stored with an embedding.
const SnippetLength = 200

// Visibility is the sharing scope of a document.
type Visibility string

// Visibility constants.
const (
	// VisibilityPrivate restricts a document to its owner and explicit shares.
	VisibilityPrivate Visibility = "private"
	// VisibilityOrganization exposes a document to members of its organization.
	VisibilityOrganization Visibility = "organization"
	// VisibilityPublic exposes a document to everyone.
	VisibilityPublic Visibility = "public"
)

// IsValid checks if the visibility is one of the supported values.
func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityOrganization || v == VisibilityPublic
}

// Embedding is a vector representation of a document's extracted text.
type Embedding struct {
	vector  []float32
	snippet string
}

// NewEmbedding creates an embedding. The snippet is truncated to SnippetLength runes.
func NewEmbedding(vector []float32, snippet string) Embedding {
	r := []rune(snippet)
	if len(r) > SnippetLength {
		snippet = string(r[:SnippetLength])
	}
	return Embedding{vector: vector, snippet: snippet}
}

// Vector returns the embedding vector.
func (e *Embedding) Vector() []float32 { return e.vector }

// Snippet returns the reference text snippet.
func (e *Embedding) Snippet() string { return e.snippet }

// Params carries the full field set for constructing a Document.
type Params struct {
	ID             string
	Owner          string
	OrganizationID string
	Visibility     Visibility
	Department     string
	Channel        string
	FileType       string
	FolderID       string
	Filename       string
	Tags           []string
	Favorite       bool
	ExtractedText  string
	SharedWith     []string
	CreatedAt      time.Time
	ProcessedAt    time.Time
	Embeddings     []Embedding
}

// Document is the stored file's metadata (immutable value object).
// It is owned exclusively by its creator; the search core never mutates it.
type Document struct {
	id             string
	owner          string
	organizationID string
	visibility     Visibility
	department     string
	channel        string
	fileType       string
	folderID       string
	filename       string
	tags           []string
	favorite       bool
	extractedText  string
	sharedWith     []string
	createdAt      time.Time
	processedAt    time.Time
	embeddings     []Embedding
}

// New validates and creates a Document.
// Visibility defaults to private; organization visibility requires an organization id.
// Tags are deduplicated preserving first occurrence.
func New(p Params) (Document, error) {
	if p.ID == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(p.ID) > MaxIDLength {
		return Document{}, fmt.Errorf("document ID too long (max %d)", MaxIDLength)
	}
	if p.Owner == "" {
		return Document{}, fmt.Errorf("document owner is required")
	}
	if p.Filename == "" {
		return Document{}, fmt.Errorf("filename is required")
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPrivate
	}
	if !p.Visibility.IsValid() {
		return Document{}, fmt.Errorf("invalid visibility %q", p.Visibility)
	}
	if p.Visibility == VisibilityOrganization && p.OrganizationID == "" {
		return Document{}, fmt.Errorf("organization visibility requires an organization id")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Tags = dedupeTags(p.Tags)

	return Reconstruct(p), nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(p Params) Document {
	return Document{
		id:             p.ID,
		owner:          p.Owner,
		organizationID: p.OrganizationID,
		visibility:     p.Visibility,
		department:     p.Department,
		channel:        p.Channel,
		fileType:       p.FileType,
		folderID:       p.FolderID,
		filename:       p.Filename,
		tags:           p.Tags,
		favorite:       p.Favorite,
		extractedText:  p.ExtractedText,
		sharedWith:     p.SharedWith,
		createdAt:      p.CreatedAt,
		processedAt:    p.ProcessedAt,
		embeddings:     p.Embeddings,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Owner returns the owning identity.
func (d *Document) Owner() string { return d.owner }

// OrganizationID returns the organization id ("" when none).
func (d *Document) OrganizationID() string { return d.organizationID }

// Visibility returns the sharing scope.
func (d *Document) Visibility() Visibility { return d.visibility }

// Department returns the free-text department.
func (d *Document) Department() string { return d.department }

// Channel returns the ingestion source tag.
func (d *Document) Channel() string { return d.channel }

// FileType returns the file type.
func (d *Document) FileType() string { return d.fileType }

// FolderID returns the containing folder id ("" when at root).
func (d *Document) FolderID() string { return d.folderID }

// Filename returns the stored filename.
func (d *Document) Filename() string { return d.filename }

// Tags returns the deduplicated tag set.
func (d *Document) Tags() []string { return d.tags }

// Favorite reports whether the owner marked the document as favorite.
func (d *Document) Favorite() bool { return d.favorite }

// ExtractedText returns the extracted text content ("" when not processed).
func (d *Document) ExtractedText() string { return d.extractedText }

// SharedWith returns the identities the document is explicitly shared with.
func (d *Document) SharedWith() []string { return d.sharedWith }

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// ProcessedAt returns the last content processing timestamp.
func (d *Document) ProcessedAt() time.Time { return d.processedAt }

// Embeddings returns the stored embeddings. At most one by construction,
// but scoring tolerates any count.
func (d *Document) Embeddings() []Embedding { return d.embeddings }

// HasEmbeddings reports whether at least one embedding is stored.
func (d *Document) HasEmbeddings() bool { return len(d.embeddings) > 0 }

// IsOwnedBy reports whether identity owns the document.
func (d *Document) IsOwnedBy(identity string) bool {
	return identity != "" && d.owner == identity
}

// IsSharedWith reports whether the document is explicitly shared with identity.
func (d *Document) IsSharedWith(identity string) bool {
	if identity == "" {
		return false
	}
	for _, u := range d.sharedWith {
		if u == identity {
			return true
		}
	}
	return false
}

// WithContent returns a copy with new extracted text, processing time and embeddings.
// Used by the ingestion path; the embedding row is overwritten, not versioned.
func (d *Document) WithContent(text string, processedAt time.Time, embeddings []Embedding) Document {
	c := *d
	c.extractedText = text
	c.processedAt = processedAt
	c.embeddings = embeddings
	return c
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
