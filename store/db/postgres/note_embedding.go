package postgres

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/notabase/notabase/store"
)

// UpsertNoteEmbedding inserts or updates a note embedding.
func (d *DB) UpsertNoteEmbedding(ctx context.Context, embedding *store.NoteEmbedding) (*store.NoteEmbedding, error) {
	stmt := `
		INSERT INTO note_embedding (note_id, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (note_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	vector := pgvector.NewVector(embedding.Embedding)
	if err := d.db.QueryRowContext(ctx, stmt,
		embedding.NoteID,
		vector,
		embedding.Model,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.ID, &embedding.CreatedTs, &embedding.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert note embedding")
	}
	return embedding, nil
}

// FindNotesWithoutEmbedding finds notes that don't have an embedding for the model.
func (d *DB) FindNotesWithoutEmbedding(ctx context.Context, model string, limit int) ([]*store.Note, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT n.id, n.uid, n.title, n.content, n.tags, n.pinned, n.created_ts, n.updated_ts
		FROM note n
		LEFT JOIN note_embedding e ON n.id = e.note_id AND e.model = ` + placeholder(1) + `
		WHERE e.id IS NULL
		ORDER BY n.updated_ts DESC
		LIMIT ` + placeholder(2)

	rows, err := d.db.QueryContext(ctx, query, model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find notes without embedding")
	}
	defer rows.Close()

	list := []*store.Note{}
	for rows.Next() {
		var note store.Note
		var tags pq.StringArray
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.Title,
			&note.Content,
			&tags,
			&note.Pinned,
			&note.CreatedTs,
			&note.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan note")
		}
		note.Tags = []string(tags)
		list = append(list, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// VectorSearch performs cosine similarity search using pgvector.
// The <=> operator computes cosine distance, so score is 1 - distance
// and ordering by distance ascending yields most similar first.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	where := []string{"e.model = " + placeholder(2)}
	args := []any{pgvector.NewVector(opts.Vector), opts.Model}
	if opts.Threshold > 0 {
		where = append(where, "1 - (e.embedding <=> "+placeholder(1)+") >= "+placeholder(3))
		args = append(args, opts.Threshold)
	}
	args = append(args, limit)

	query := `
		SELECT
			n.id, n.uid, n.title, n.content, n.tags, n.pinned, n.created_ts, n.updated_ts,
			1 - (e.embedding <=> ` + placeholder(1) + `) AS score
		FROM note n
		INNER JOIN note_embedding e ON n.id = e.note_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.embedding <=> ` + placeholder(1) + `
		LIMIT ` + placeholder(len(args))

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.NoteWithScore{}
	for rows.Next() {
		var result store.NoteWithScore
		var note store.Note
		var tags pq.StringArray
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.Title,
			&note.Content,
			&tags,
			&note.Pinned,
			&note.CreatedTs,
			&note.UpdatedTs,
			&result.Score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		note.Tags = []string(tags)
		result.Note = &note
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
