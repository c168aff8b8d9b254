package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/internal/profile"
	"github.com/notabase/notabase/plugin/ai"
	notesvc "github.com/notabase/notabase/server/service/note"
	"github.com/notabase/notabase/store"
)

type memoryDriver struct {
	notes  []*store.Note
	nextID int32
}

func (d *memoryDriver) GetDB() *sql.DB { return nil }
func (d *memoryDriver) Close() error   { return nil }

func (d *memoryDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	d.nextID++
	create.ID = d.nextID
	d.notes = append(d.notes, create)
	return create, nil
}

func (d *memoryDriver) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	list := []*store.Note{}
	for _, n := range d.notes {
		if find.ID != nil && n.ID != *find.ID {
			continue
		}
		if find.UID != nil && n.UID != *find.UID {
			continue
		}
		if find.Tag != nil && !containsTag(n.Tags, *find.Tag) {
			continue
		}
		list = append(list, n)
	}
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (d *memoryDriver) UpdateNote(_ context.Context, update *store.UpdateNote) error {
	for _, n := range d.notes {
		if n.ID == update.ID {
			if update.Title != nil {
				n.Title = *update.Title
			}
			if update.Content != nil {
				n.Content = *update.Content
			}
			if update.Tags != nil {
				n.Tags = update.Tags
			}
			if update.Pinned != nil {
				n.Pinned = *update.Pinned
			}
			n.UpdatedTs = update.UpdatedTs
			return nil
		}
	}
	return apperrors.NotFound("note %d not found", update.ID)
}

func (d *memoryDriver) DeleteNote(_ context.Context, delete *store.DeleteNote) error {
	for i, n := range d.notes {
		if n.ID == delete.ID {
			d.notes = append(d.notes[:i], d.notes[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("note %d not found", delete.ID)
}

func (d *memoryDriver) UpsertNoteEmbedding(_ context.Context, e *store.NoteEmbedding) (*store.NoteEmbedding, error) {
	return e, nil
}

func (d *memoryDriver) FindNotesWithoutEmbedding(_ context.Context, _ string, _ int) ([]*store.Note, error) {
	return nil, nil
}

func (d *memoryDriver) VectorSearch(_ context.Context, _ *store.VectorSearchOptions) ([]*store.NoteWithScore, error) {
	return nil, apperrors.Unsupported("no vector index in tests")
}

func newTestAPI(t *testing.T) (*echo.Echo, *memoryDriver) {
	t.Helper()
	driver := &memoryDriver{}
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", EmbeddingProvider: "local"}
	st := store.New(driver, p)
	svc := NewAPIV1Service(p, st, notesvc.NewService(st, slog.Default()), ai.NewLocalEmbeddingService(64))

	e := echo.New()
	svc.RegisterRoutes(e)
	return e, driver
}

func seedNote(t *testing.T, e *echo.Echo, body string) NoteResponse {
	t.Helper()
	rec := doRequest(e, http.MethodPost, "/api/v1/notes", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created NoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateNoteDerivesTitle(t *testing.T) {
	e, _ := newTestAPI(t)

	created := seedNote(t, e, `{"content":"# Sourdough guide\n\nFeeding schedule details."}`)
	assert.Equal(t, "Sourdough guide", created.Title)
	assert.NotEmpty(t, created.UID)
	assert.NotZero(t, created.CreatedTs)
}

func TestCreateNoteRejectsEmpty(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/notes", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNote(t *testing.T) {
	e, _ := newTestAPI(t)
	created := seedNote(t, e, `{"title":"t1","content":"body"}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/notes/"+created.UID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got NoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.UID, got.UID)
	assert.Equal(t, "t1", got.Title)

	rec = doRequest(e, http.MethodGet, "/api/v1/notes/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListNotesFiltersByTag(t *testing.T) {
	e, _ := newTestAPI(t)
	seedNote(t, e, `{"title":"a","content":"x","tags":["baking"]}`)
	seedNote(t, e, `{"title":"b","content":"y","tags":["finance"]}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/notes?tag=baking", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []NoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "a", notes[0].Title)
}

func TestUpdateNote(t *testing.T) {
	e, _ := newTestAPI(t)
	created := seedNote(t, e, `{"title":"before","content":"body"}`)

	rec := doRequest(e, http.MethodPatch, "/api/v1/notes/"+created.UID, `{"title":"after"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated NoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "body", updated.Content)
}

func TestDeleteNote(t *testing.T) {
	e, _ := newTestAPI(t)
	created := seedNote(t, e, `{"title":"gone","content":"body"}`)

	rec := doRequest(e, http.MethodDelete, "/api/v1/notes/"+created.UID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/notes/"+created.UID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchNotes(t *testing.T) {
	e, _ := newTestAPI(t)
	seedNote(t, e, `{"title":"Sourdough starter","content":"Feeding the sourdough culture.","tags":["baking"]}`)
	seedNote(t, e, `{"title":"Tax checklist","content":"Quarterly filing deadlines."}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/notes/search?q=sourdough", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []notesvc.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Sourdough starter", results[0].Title)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestRelatedNotes(t *testing.T) {
	e, _ := newTestAPI(t)
	first := seedNote(t, e, `{"title":"Sourdough starter","content":"Feeding the sourdough culture schedule.","tags":["baking"]}`)
	seedNote(t, e, `{"title":"Bread notes","content":"Sourdough hydration experiments and schedule.","tags":["baking"]}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/notes/"+first.UID+"/related", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var related []notesvc.RelatedNote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &related))
	require.NotEmpty(t, related)
	assert.Equal(t, "Bread notes", related[0].Title)
}

func TestNoteKeywords(t *testing.T) {
	e, _ := newTestAPI(t)
	created := seedNote(t, e, `{"title":"Tax checklist","content":"Deadlines and deductible expense categories."}`)
	seedNote(t, e, `{"title":"Bread","content":"Sourdough hydration experiments."}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/notes/"+created.UID+"/keywords", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["keywords"])
}

func TestGraphEndpoint(t *testing.T) {
	e, _ := newTestAPI(t)
	seedNote(t, e, `{"title":"Sourdough starter","content":"Feeding the sourdough culture schedule.","tags":["baking"]}`)
	seedNote(t, e, `{"title":"Bread notes","content":"Sourdough hydration experiments and schedule.","tags":["baking"]}`)

	rec := doRequest(e, http.MethodGet, "/api/v1/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var mindMap struct {
		Nodes []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mindMap))
	assert.GreaterOrEqual(t, len(mindMap.Nodes), 3) // 2 notes + shared tag
	assert.NotEmpty(t, mindMap.Edges)
}

func TestChatContext(t *testing.T) {
	e, _ := newTestAPI(t)
	seedNote(t, e, `{"title":"Sourdough starter","content":"Feeding the sourdough culture schedule."}`)
	seedNote(t, e, `{"title":"Tax checklist","content":"Quarterly filing deadlines."}`)

	rec := doRequest(e, http.MethodPost, "/api/v1/chat/context", `{"query":"sourdough feeding"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)

	rec = doRequest(e, http.MethodPost, "/api/v1/chat/context", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestsAreFastEnoughForInteractiveUse(t *testing.T) {
	e, _ := newTestAPI(t)
	for i := 0; i < 50; i++ {
		seedNote(t, e, `{"title":"note","content":"filler content for timing"}`)
	}

	start := time.Now()
	rec := doRequest(e, http.MethodGet, "/api/v1/notes/search?q=filler", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, time.Since(start), 2*time.Second)
}
