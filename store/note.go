package store

import (
	"github.com/notabase/notabase/plugin/search"
)

// Note represents a stored note.
type Note struct {
	ID        int32
	UID       string
	Title     string
	Content   string
	Tags      []string
	Pinned    bool
	CreatedTs int64
	UpdatedTs int64
}

// FindNote is the find condition for notes.
type FindNote struct {
	ID    *int32
	UID   *string
	Tag   *string
	Limit *int
}

// UpdateNote is the update payload for a note. Nil fields are left unchanged.
type UpdateNote struct {
	ID        int32
	Title     *string
	Content   *string
	Tags      []string
	Pinned    *bool
	UpdatedTs int64
}

// DeleteNote is the delete condition for a note.
type DeleteNote struct {
	ID int32
}

// NoteEmbedding represents the vector embedding of a note.
type NoteEmbedding struct {
	ID        int32
	NoteID    int32
	Embedding []float32
	Model     string
	CreatedTs int64
	UpdatedTs int64
}

// VectorSearchOptions represents the options for vector search.
type VectorSearchOptions struct {
	Vector    []float32 // query vector
	Model     string    // embedding model the index was built with
	Threshold float64   // minimum cosine similarity, 0 disables
	Limit     int       // number of results, default 10
}

// NoteWithScore represents a vector search result with similarity score.
type NoteWithScore struct {
	Note  *Note
	Score float64 // cosine similarity, 0-1
}

// ToDocument converts a note into the engine's document value.
func (n *Note) ToDocument() search.Document {
	return search.Document{
		ID:        n.UID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		CreatedTs: n.CreatedTs,
		UpdatedTs: n.UpdatedTs,
	}
}

// ToDocuments converts a note list into the corpus the engine consumes.
func ToDocuments(notes []*Note) []search.Document {
	docs := make([]search.Document, len(notes))
	for i, n := range notes {
		docs[i] = n.ToDocument()
	}
	return docs
}
