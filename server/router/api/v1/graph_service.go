package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notabase/notabase/store"
)

// GetGraph builds the knowledge graph over the whole corpus: one node
// per note plus tag and keyword nodes, with semantic edges between
// similar notes.
// GET /api/v1/graph
func (s *APIV1Service) GetGraph(c echo.Context) error {
	notes, err := s.Store.ListNotes(c.Request().Context(), &store.FindNote{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	mindMap := s.Graph.Build(store.ToDocuments(notes))
	return c.JSON(http.StatusOK, mindMap)
}
