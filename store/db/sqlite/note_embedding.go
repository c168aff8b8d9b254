package sqlite

import (
	"context"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/store"
)

// Vector storage requires PostgreSQL with the pgvector extension.
// SQLite deployments rely on in-process pseudo-embedding scans instead.

func (d *DB) UpsertNoteEmbedding(ctx context.Context, embedding *store.NoteEmbedding) (*store.NoteEmbedding, error) {
	return nil, apperrors.Unsupported("vector storage requires PostgreSQL with pgvector")
}

func (d *DB) FindNotesWithoutEmbedding(ctx context.Context, model string, limit int) ([]*store.Note, error) {
	return nil, apperrors.Unsupported("vector storage requires PostgreSQL with pgvector")
}

func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	return nil, apperrors.Unsupported("vector search requires PostgreSQL with pgvector")
}
