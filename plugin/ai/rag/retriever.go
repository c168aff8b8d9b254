package rag

import (
	"context"
	"log/slog"
	"sort"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/plugin/ai"
	"github.com/notabase/notabase/plugin/search"
)

// VectorMatch is one hit from a vector-match backend.
type VectorMatch struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"` // cosine similarity, 0-1
}

// VectorMatcher is the external vector-match interface: given a query
// embedding, a similarity threshold and a result count, return matching
// document IDs with similarity scores. A deployment with a real vector
// database provides this; otherwise the retriever falls back to a local scan
// over pseudo-embeddings.
type VectorMatcher interface {
	MatchVectors(ctx context.Context, embedding []float32, threshold float64, limit int) ([]VectorMatch, error)
}

// Options controls a retrieval request.
type Options struct {
	Query    string
	Limit    int
	MinScore float64 // vector similarity threshold
	SortKey  search.SortKey
}

// Retriever collects chat-context candidates from the lexical scorer and a
// vector source, and fuses the two ranked lists.
type Retriever struct {
	embedder ai.EmbeddingService
	matcher  VectorMatcher // nil means local fallback
	scorer   *search.Scorer
}

// NewRetriever creates a retriever. matcher may be nil, in which case vector
// candidates come from a deterministic local embedding scan.
func NewRetriever(embedder ai.EmbeddingService, matcher VectorMatcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		matcher:  matcher,
		scorer:   search.NewScorer(),
	}
}

// Retrieve returns the fused candidate list for a query over the corpus.
func (r *Retriever) Retrieve(ctx context.Context, corpus []search.Document, opts *Options) ([]*SearchResult, error) {
	if opts == nil || opts.Query == "" {
		return nil, apperrors.InvalidArgument("retrieval query must not be empty")
	}
	if opts.Limit < 0 {
		return nil, apperrors.InvalidArgument("retrieval limit must be non-negative, got %d", opts.Limit)
	}
	limit := opts.Limit
	if limit == 0 {
		limit = 5
	}

	lexical := r.lexicalCandidates(corpus, opts.Query, opts.SortKey, limit)

	vector, err := r.vectorCandidates(ctx, corpus, opts.Query, opts.MinScore, limit)
	if err != nil {
		// Vector sources are optional; lexical results alone still serve the
		// chat feature.
		slog.Warn("vector candidate collection failed, using lexical only", "error", err)
		vector = nil
	}

	fused := FuseWithRRF(lexical, vector)
	if len(fused) > limit {
		fused = fused[:limit]
	}
	return fused, nil
}

func (r *Retriever) lexicalCandidates(corpus []search.Document, query string, key search.SortKey, limit int) []*SearchResult {
	ranked := r.scorer.Rank(corpus, query, key)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]*SearchResult, len(ranked))
	for i, sd := range ranked {
		results[i] = &SearchResult{
			ID:      sd.Document.ID,
			Content: sd.Document.Content,
			Score:   sd.Score,
			Source:  "lexical",
		}
	}
	return results
}

func (r *Retriever) vectorCandidates(ctx context.Context, corpus []search.Document, query string, minScore float64, limit int) ([]*SearchResult, error) {
	if r.matcher != nil {
		embedding, err := r.embedder.Embed(ctx, query)
		if err != nil {
			return nil, apperrors.EmbeddingUnavailable("query embedding failed", err)
		}
		matches, err := r.matcher.MatchVectors(ctx, embedding, minScore, limit)
		if err != nil {
			return nil, err
		}

		byID := make(map[string]search.Document, len(corpus))
		for _, doc := range corpus {
			byID[doc.ID] = doc
		}

		results := make([]*SearchResult, 0, len(matches))
		for _, match := range matches {
			doc, ok := byID[match.DocumentID]
			if !ok {
				continue
			}
			results = append(results, &SearchResult{
				ID:      match.DocumentID,
				Content: doc.Content,
				Score:   match.Score,
				Source:  "vector",
			})
		}
		return results, nil
	}

	return r.localScan(corpus, query, minScore, limit), nil
}

// localScan is the offline substitute for a vector database: embed the query
// and every document with the deterministic pseudo-embedding and rank by
// cosine similarity (a plain dot product, since the vectors are
// pre-normalized).
func (r *Retriever) localScan(corpus []search.Document, query string, minScore float64, limit int) []*SearchResult {
	queryVec := search.EmbedText(query)

	type scored struct {
		doc   search.Document
		score float64
	}
	var candidates []scored
	for _, doc := range corpus {
		docVec := search.EmbedText(doc.Title + "\n" + doc.Content)
		score := search.CosineSimilarity(queryVec, docVec)
		if score <= minScore {
			continue
		}
		candidates = append(candidates, scored{doc: doc, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]*SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = &SearchResult{
			ID:      c.doc.ID,
			Content: c.doc.Content,
			Score:   c.score,
			Source:  "vector",
		}
	}
	return results
}
