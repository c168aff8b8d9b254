package store

import (
	"context"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/notabase/notabase/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	if strings.TrimSpace(create.Content) == "" && strings.TrimSpace(create.Title) == "" {
		return nil, errors.New("note must have a title or content")
	}
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = now
	}
	return s.driver.CreateNote(ctx, create)
}

func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	notes, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil
	}
	return notes[0], nil
}

func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) error {
	if update.UpdatedTs == 0 {
		update.UpdatedTs = time.Now().Unix()
	}
	return s.driver.UpdateNote(ctx, update)
}

func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}

func (s *Store) UpsertNoteEmbedding(ctx context.Context, embedding *NoteEmbedding) (*NoteEmbedding, error) {
	return s.driver.UpsertNoteEmbedding(ctx, embedding)
}

func (s *Store) FindNotesWithoutEmbedding(ctx context.Context, model string, limit int) ([]*Note, error) {
	return s.driver.FindNotesWithoutEmbedding(ctx, model, limit)
}

func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*NoteWithScore, error) {
	return s.driver.VectorSearch(ctx, opts)
}
