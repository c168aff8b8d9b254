// Package search implements the local lexical relevance engine: text
// normalization, query scoring, TF-IDF keyword extraction, pairwise text
// similarity and the deterministic pseudo-embedding fallback.
//
// Every function in this package is pure: it receives the corpus by value,
// never mutates its inputs and keeps no state between calls, so concurrent
// use requires no coordination.
package search

// Document is a note as seen by the engine. Documents are owned by the note
// store; the engine receives them by value and must not mutate them.
type Document struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedTs int64    `json:"created_ts"`
	UpdatedTs int64    `json:"updated_ts"`
}

// ScoredDocument pairs a document with its relevance score. Scores are always
// finite and non-negative.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// SortKey selects the secondary order applied to ranked results when scores
// tie. The scorer itself never applies a secondary order; only Rank does.
type SortKey string

const (
	// SortUpdatedDesc orders ties by last update, newest first.
	SortUpdatedDesc SortKey = "updated_desc"
	// SortCreatedDesc orders ties by creation time, newest first.
	SortCreatedDesc SortKey = "created_desc"
	// SortTitleAsc orders ties by title, ascending.
	SortTitleAsc SortKey = "title_asc"
)
