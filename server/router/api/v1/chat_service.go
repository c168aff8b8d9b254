package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notabase/notabase/plugin/ai/rag"
	"github.com/notabase/notabase/store"
)

type ChatContextRequest struct {
	Query    string  `json:"query"`
	Limit    int     `json:"limit"`
	MinScore float64 `json:"min_score"`
}

type ChatContextResponse struct {
	Results []*rag.SearchResult `json:"results"`
}

// GetChatContext retrieves the note passages most relevant to a chat
// query, fusing lexical ranking with vector similarity.
// POST /api/v1/chat/context
func (s *APIV1Service) GetChatContext(c echo.Context) error {
	var req ChatContextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	ctx := c.Request().Context()
	notes, err := s.Store.ListNotes(ctx, &store.FindNote{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	results, err := s.Retriever.Retrieve(ctx, store.ToDocuments(notes), &rag.Options{
		Query:    req.Query,
		Limit:    req.Limit,
		MinScore: req.MinScore,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ChatContextResponse{Results: results})
}
