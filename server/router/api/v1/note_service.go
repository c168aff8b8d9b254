package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/plugin/search"
	notesvc "github.com/notabase/notabase/server/service/note"
	"github.com/notabase/notabase/store"
)

// NoteResponse is the wire form of a note.
type NoteResponse struct {
	UID       string   `json:"uid"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Pinned    bool     `json:"pinned"`
	CreatedTs int64    `json:"created_ts"`
	UpdatedTs int64    `json:"updated_ts"`
}

func toNoteResponse(n *store.Note) NoteResponse {
	return NoteResponse{
		UID:       n.UID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		Pinned:    n.Pinned,
		CreatedTs: n.CreatedTs,
		UpdatedTs: n.UpdatedTs,
	}
}

type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Pinned  bool     `json:"pinned"`
}

// CreateNote creates a note. A missing title is derived from the
// content's first heading or line.
// POST /api/v1/notes
func (s *APIV1Service) CreateNote(c echo.Context) error {
	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.Title == "" {
		req.Title = notesvc.ExtractTitle(req.Content)
	}

	created, err := s.Store.CreateNote(c.Request().Context(), &store.Note{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Pinned:  req.Pinned,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	s.NoteService.InvalidateRelated()
	return c.JSON(http.StatusCreated, toNoteResponse(created))
}

// ListNotes lists notes, optionally filtered by tag.
// GET /api/v1/notes?tag=&limit=
func (s *APIV1Service) ListNotes(c echo.Context) error {
	find := &store.FindNote{}
	if tag := c.QueryParam("tag"); tag != "" {
		find.Tag = &tag
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		find.Limit = &limit
	}

	notes, err := s.Store.ListNotes(c.Request().Context(), find)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	resp := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toNoteResponse(n))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetNote returns a single note by UID.
// GET /api/v1/notes/:uid
func (s *APIV1Service) GetNote(c echo.Context) error {
	uid := c.Param("uid")
	note, err := s.Store.GetNote(c.Request().Context(), &store.FindNote{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if note == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "note not found"})
	}
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

type UpdateNoteRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Pinned  *bool    `json:"pinned"`
}

// UpdateNote applies a partial update to a note.
// PATCH /api/v1/notes/:uid
func (s *APIV1Service) UpdateNote(c echo.Context) error {
	uid := c.Param("uid")
	ctx := c.Request().Context()

	note, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if note == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "note not found"})
	}

	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	if err := s.Store.UpdateNote(ctx, &store.UpdateNote{
		ID:      note.ID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Pinned:  req.Pinned,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	s.NoteService.InvalidateRelated()

	updated, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil || updated == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to reload note"})
	}
	return c.JSON(http.StatusOK, toNoteResponse(updated))
}

// DeleteNote removes a note.
// DELETE /api/v1/notes/:uid
func (s *APIV1Service) DeleteNote(c echo.Context) error {
	uid := c.Param("uid")
	ctx := c.Request().Context()

	note, err := s.Store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if note == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "note not found"})
	}
	if err := s.Store.DeleteNote(ctx, &store.DeleteNote{ID: note.ID}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	s.NoteService.InvalidateRelated()
	return c.NoContent(http.StatusNoContent)
}

// SearchNotes ranks notes against a query.
// GET /api/v1/notes/search?q=&limit=&sort=
func (s *APIV1Service) SearchNotes(c echo.Context) error {
	opts := &notesvc.SearchOptions{
		Query:   c.QueryParam("q"),
		SortKey: search.SortKey(c.QueryParam("sort")),
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		opts.Limit = limit
	}

	results, err := s.NoteService.Search(c.Request().Context(), opts)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

// GetRelatedNotes returns recommendations for a note.
// GET /api/v1/notes/:uid/related?limit=
func (s *APIV1Service) GetRelatedNotes(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	related, err := s.NoteService.Related(c.Request().Context(), c.Param("uid"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, related)
}

// GetNoteKeywords returns the note's top TF-IDF terms.
// GET /api/v1/notes/:uid/keywords?limit=
func (s *APIV1Service) GetNoteKeywords(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	keywords, err := s.NoteService.Keywords(c.Request().Context(), c.Param("uid"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"keywords": keywords})
}

// writeServiceError maps engine error codes onto HTTP statuses.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperrors.IsCode(err, apperrors.ErrCodeUnsupported):
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
