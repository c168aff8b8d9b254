// Package retrieval bridges the store's vector index into the RAG
// retriever.
package retrieval

import (
	"context"

	"github.com/notabase/notabase/plugin/ai/rag"
	"github.com/notabase/notabase/store"
)

// StoreVectorMatcher serves vector matches from the note_embedding
// table. Only the postgres driver supports it; callers should fall back
// to the retriever's local scan when the driver reports unsupported.
type StoreVectorMatcher struct {
	store *store.Store
	model string
}

func NewStoreVectorMatcher(s *store.Store, model string) *StoreVectorMatcher {
	return &StoreVectorMatcher{store: s, model: model}
}

func (m *StoreVectorMatcher) MatchVectors(ctx context.Context, embedding []float32, threshold float64, limit int) ([]rag.VectorMatch, error) {
	results, err := m.store.VectorSearch(ctx, &store.VectorSearchOptions{
		Vector:    embedding,
		Model:     m.model,
		Threshold: threshold,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	matches := make([]rag.VectorMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, rag.VectorMatch{
			DocumentID: r.Note.UID,
			Score:      r.Score,
		})
	}
	return matches, nil
}
