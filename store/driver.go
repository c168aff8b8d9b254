package store

import (
	"context"
	"database/sql"
)

// Driver is the interface a store database driver implements.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Note model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) error
	DeleteNote(ctx context.Context, delete *DeleteNote) error

	// UpsertNoteEmbedding inserts or updates a note embedding.
	UpsertNoteEmbedding(ctx context.Context, embedding *NoteEmbedding) (*NoteEmbedding, error)

	// FindNotesWithoutEmbedding returns notes lacking an embedding for the model.
	FindNotesWithoutEmbedding(ctx context.Context, model string, limit int) ([]*Note, error)

	// VectorSearch performs similarity search over note embeddings.
	VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*NoteWithScore, error)
}
