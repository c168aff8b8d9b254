// Package v1 exposes the REST API: note CRUD, search, related notes,
// keyword extraction, the knowledge graph, and chat context retrieval.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notabase/notabase/internal/profile"
	"github.com/notabase/notabase/plugin/ai"
	"github.com/notabase/notabase/plugin/ai/cache"
	"github.com/notabase/notabase/plugin/ai/graph"
	"github.com/notabase/notabase/plugin/ai/rag"
	"github.com/notabase/notabase/server/retrieval"
	notesvc "github.com/notabase/notabase/server/service/note"
	"github.com/notabase/notabase/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	NoteService *notesvc.Service
	Retriever   *rag.Retriever
	Graph       *graph.Builder
}

func NewAPIV1Service(profile *profile.Profile, st *store.Store, noteService *notesvc.Service, embedder ai.EmbeddingService) *APIV1Service {
	var matcher rag.VectorMatcher
	if profile.Driver == "postgres" {
		matcher = retrieval.NewStoreVectorMatcher(st, profile.EmbeddingModel)
	}
	builder := graph.NewBuilder().WithCache(cache.NewLRUCache(64, 5*time.Minute))
	return &APIV1Service{
		Profile:     profile,
		Store:       st,
		NoteService: noteService,
		Retriever:   rag.NewRetriever(embedder, matcher),
		Graph:       builder,
	}
}

// RegisterRoutes mounts all v1 endpoints under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/notes", s.CreateNote)
	g.GET("/notes", s.ListNotes)
	g.GET("/notes/search", s.SearchNotes)
	g.GET("/notes/:uid", s.GetNote)
	g.PATCH("/notes/:uid", s.UpdateNote)
	g.DELETE("/notes/:uid", s.DeleteNote)
	g.GET("/notes/:uid/related", s.GetRelatedNotes)
	g.GET("/notes/:uid/keywords", s.GetNoteKeywords)

	g.GET("/graph", s.GetGraph)
	g.POST("/chat/context", s.GetChatContext)
}
