package embedding

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notabase/notabase/internal/profile"
	"github.com/notabase/notabase/plugin/ai"
	"github.com/notabase/notabase/store"
)

// fakeDriver tracks upserted embeddings and serves a fixed pending set.
type fakeDriver struct {
	mu       sync.Mutex
	pending  []*store.Note
	upserted []*store.NoteEmbedding
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }

func (d *fakeDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	return create, nil
}

func (d *fakeDriver) ListNotes(_ context.Context, _ *store.FindNote) ([]*store.Note, error) {
	return d.pending, nil
}

func (d *fakeDriver) UpdateNote(_ context.Context, _ *store.UpdateNote) error { return nil }
func (d *fakeDriver) DeleteNote(_ context.Context, _ *store.DeleteNote) error { return nil }

func (d *fakeDriver) UpsertNoteEmbedding(_ context.Context, e *store.NoteEmbedding) (*store.NoteEmbedding, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upserted = append(d.upserted, e)
	return e, nil
}

func (d *fakeDriver) FindNotesWithoutEmbedding(_ context.Context, _ string, limit int) ([]*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) > limit {
		return d.pending[:limit], nil
	}
	return d.pending, nil
}

func (d *fakeDriver) VectorSearch(_ context.Context, _ *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	return nil, nil
}

func (d *fakeDriver) upsertCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.upserted)
}

func TestRunOnceEmbedsPendingNotes(t *testing.T) {
	now := time.Now().Unix()
	driver := &fakeDriver{
		pending: []*store.Note{
			{ID: 1, UID: "n1", Title: "first", Content: "alpha content", CreatedTs: now, UpdatedTs: now},
			{ID: 2, UID: "n2", Title: "second", Content: "beta content", CreatedTs: now, UpdatedTs: now},
			{ID: 3, UID: "n3", Title: "third", Content: "gamma content", CreatedTs: now, UpdatedTs: now},
		},
	}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "postgres"})
	embedder := ai.NewLocalEmbeddingService(64)

	runner := NewRunner(st, embedder, "local-deterministic")
	runner.RunOnce(context.Background())

	require.Equal(t, 3, driver.upsertCount())
	for _, e := range driver.upserted {
		assert.Equal(t, "local-deterministic", e.Model)
		assert.Len(t, e.Embedding, 64)
		assert.NotZero(t, e.CreatedTs)
	}
}

// truncatingEmbedder drops the last vector of every batch, simulating a
// provider that answers with fewer vectors than inputs.
type truncatingEmbedder struct {
	inner ai.EmbeddingService
}

func (e *truncatingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.inner.Embed(ctx, text)
}

func (e *truncatingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.inner.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	return vectors[:len(vectors)-1], nil
}

func (e *truncatingEmbedder) Dimensions() int { return e.inner.Dimensions() }

func TestProcessBatchRejectsPartialResponse(t *testing.T) {
	now := time.Now().Unix()
	notes := []*store.Note{
		{ID: 1, UID: "n1", Title: "first", Content: "alpha content", CreatedTs: now, UpdatedTs: now},
		{ID: 2, UID: "n2", Title: "second", Content: "beta content", CreatedTs: now, UpdatedTs: now},
	}
	driver := &fakeDriver{pending: notes}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "postgres"})
	embedder := &truncatingEmbedder{inner: ai.NewLocalEmbeddingService(64)}

	runner := NewRunner(st, embedder, "local-deterministic")
	err := runner.processBatch(context.Background(), notes)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 vectors for 2 notes")
	assert.Zero(t, driver.upsertCount())
}

func TestRunOnceNoPendingNotes(t *testing.T) {
	driver := &fakeDriver{}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "postgres"})

	runner := NewRunner(st, ai.NewLocalEmbeddingService(64), "local-deterministic")
	runner.RunOnce(context.Background())

	assert.Zero(t, driver.upsertCount())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	driver := &fakeDriver{}
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "postgres"})
	runner := NewRunner(st, ai.NewLocalEmbeddingService(64), "local-deterministic")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
