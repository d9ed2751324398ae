package document

import (
	"time"

	domdoc "github.com/kailas-cloud/docdex/internal/domain/document"
)

// docDTO is the JSON persistence shape of a document.
type docDTO struct {
	ID             string         `json:"id"`
	Owner          string         `json:"owner"`
	OrganizationID string         `json:"organization_id,omitempty"`
	Visibility     string         `json:"visibility"`
	Department     string         `json:"department,omitempty"`
	Channel        string         `json:"channel,omitempty"`
	FileType       string         `json:"file_type,omitempty"`
	FolderID       string         `json:"folder_id,omitempty"`
	Filename       string         `json:"filename"`
	Tags           []string       `json:"tags,omitempty"`
	Favorite       bool           `json:"favorite,omitempty"`
	ExtractedText  string         `json:"extracted_text,omitempty"`
	SharedWith     []string       `json:"shared_with,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	ProcessedAt    time.Time      `json:"processed_at,omitzero"`
	Embeddings     []embeddingDTO `json:"embeddings,omitempty"`
}

// embeddingDTO is the persistence shape of a single embedding row.
type embeddingDTO struct {
	Vector  []float32 `json:"vector"`
	Snippet string    `json:"snippet,omitempty"`
}

func fromDomain(doc *domdoc.Document) docDTO {
	embs := make([]embeddingDTO, 0, len(doc.Embeddings()))
	for _, e := range doc.Embeddings() {
		embs = append(embs, embeddingDTO{Vector: e.Vector(), Snippet: e.Snippet()})
	}
	return docDTO{
		ID:             doc.ID(),
		Owner:          doc.Owner(),
		OrganizationID: doc.OrganizationID(),
		Visibility:     string(doc.Visibility()),
		Department:     doc.Department(),
		Channel:        doc.Channel(),
		FileType:       doc.FileType(),
		FolderID:       doc.FolderID(),
		Filename:       doc.Filename(),
		Tags:           doc.Tags(),
		Favorite:       doc.Favorite(),
		ExtractedText:  doc.ExtractedText(),
		SharedWith:     doc.SharedWith(),
		CreatedAt:      doc.CreatedAt(),
		ProcessedAt:    doc.ProcessedAt(),
		Embeddings:     embs,
	}
}

func (d docDTO) toDomain() domdoc.Document {
	embs := make([]domdoc.Embedding, 0, len(d.Embeddings))
	for _, e := range d.Embeddings {
		embs = append(embs, domdoc.NewEmbedding(e.Vector, e.Snippet))
	}
	return domdoc.Reconstruct(domdoc.Params{
		ID:             d.ID,
		Owner:          d.Owner,
		OrganizationID: d.OrganizationID,
		Visibility:     domdoc.Visibility(d.Visibility),
		Department:     d.Department,
		Channel:        d.Channel,
		FileType:       d.FileType,
		FolderID:       d.FolderID,
		Filename:       d.Filename,
		Tags:           d.Tags,
		Favorite:       d.Favorite,
		ExtractedText:  d.ExtractedText,
		SharedWith:     d.SharedWith,
		CreatedAt:      d.CreatedAt,
		ProcessedAt:    d.ProcessedAt,
		Embeddings:     embs,
	})
}
