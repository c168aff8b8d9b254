// Package embedding backfills note embeddings in the background so
// vector search stays in sync with note edits.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/plugin/ai"
	notesvc "github.com/notabase/notabase/server/service/note"
	"github.com/notabase/notabase/store"
)

const (
	defaultInterval    = 2 * time.Minute
	defaultBatchSize   = 8
	batchFetchMultiple = 20
	maxEmbedWorkers    = 4
)

type Runner struct {
	store            *store.Store
	embeddingService ai.EmbeddingService
	interval         time.Duration
	batchSize        int
	model            string
}

func NewRunner(store *store.Store, embeddingService ai.EmbeddingService, model string) *Runner {
	return &Runner{
		store:            store,
		embeddingService: embeddingService,
		interval:         defaultInterval,
		batchSize:        defaultBatchSize,
		model:            model,
	}
}

// Run processes pending notes once on startup, then on every tick
// until the context is canceled.
func (r *Runner) Run(ctx context.Context) {
	r.processPendingNotes(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.processPendingNotes(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes pending notes a single time, for manual triggers.
func (r *Runner) RunOnce(ctx context.Context) {
	r.processPendingNotes(ctx)
}

func (r *Runner) processPendingNotes(ctx context.Context) {
	notes, err := r.store.FindNotesWithoutEmbedding(ctx, r.model, r.batchSize*batchFetchMultiple)
	if err != nil {
		// SQLite has no vector storage; nothing to backfill there.
		if apperrors.IsCode(err, apperrors.ErrCodeUnsupported) {
			return
		}
		slog.Error("failed to find notes without embedding", "error", err)
		return
	}
	if len(notes) == 0 {
		return
	}

	slog.Info("processing notes for embedding", "count", len(notes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEmbedWorkers)
	for i := 0; i < len(notes); i += r.batchSize {
		batch := notes[i:min(i+r.batchSize, len(notes))]
		g.Go(func() error {
			return r.processBatch(gctx, batch)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("embedding backfill incomplete", "error", err)
	}
}

func (r *Runner) processBatch(ctx context.Context, notes []*store.Note) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	texts := make([]string, len(notes))
	for i, n := range notes {
		texts[i] = n.Title + "\n" + notesvc.PlainText(n.Content)
	}

	vectors, err := r.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(notes) {
		return fmt.Errorf("embedding service returned %d vectors for %d notes", len(vectors), len(notes))
	}

	now := time.Now().Unix()
	for i, n := range notes {
		if _, err := r.store.UpsertNoteEmbedding(ctx, &store.NoteEmbedding{
			NoteID:    n.ID,
			Embedding: vectors[i],
			Model:     r.model,
			CreatedTs: now,
			UpdatedTs: now,
		}); err != nil {
			slog.Error("failed to upsert embedding", "noteID", n.ID, "error", err)
		}
	}
	return nil
}
