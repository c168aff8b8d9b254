package search

import (
	"sort"
	"strings"
	"time"
)

// recencyWindow is the window inside which a recently updated document
// receives the recency bonus.
const recencyWindow = 7 * 24 * time.Hour

// Weights holds the additive scoring weights used by the relevance scorer.
// The defaults are normative for ranking compatibility; treat them as
// tunables, not derived values.
type Weights struct {
	TitleContains  float64 // title contains the query substring
	TitleExact     float64 // additional bonus when title equals the query
	TagContains    float64 // per tag containing the query substring
	TagExact       float64 // additional bonus when any tag equals the query
	ContentExact   float64 // per content word equal to a query word
	ContentPartial float64 // per content word containing a query word
	Recency        float64 // updated within the recency window
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		TitleContains:  10,
		TitleExact:     20,
		TagContains:    5,
		TagExact:       10,
		ContentExact:   3,
		ContentPartial: 1,
		Recency:        1,
	}
}

// Scorer computes search-relevance scores for documents against a query.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// NewScorer creates a scorer with the default weights.
func NewScorer() *Scorer {
	return NewScorerWithWeights(DefaultWeights())
}

// NewScorerWithWeights creates a scorer with custom weights.
func NewScorerWithWeights(w Weights) *Scorer {
	return &Scorer{weights: w, now: time.Now}
}

// WithNow overrides the clock used for the recency bonus. Intended for tests.
func (s *Scorer) WithNow(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the relevance of a document against a query. The score is
// additive and independent of document length; an empty query ties every
// document at 0. It never applies a secondary order.
func (s *Scorer) Score(doc Document, query string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}

	var score float64

	title := strings.ToLower(doc.Title)
	if strings.Contains(title, query) {
		score += s.weights.TitleContains
		if title == query {
			score += s.weights.TitleExact
		}
	}

	exactTag := false
	for _, tag := range doc.Tags {
		lower := strings.ToLower(tag)
		if strings.Contains(lower, query) {
			score += s.weights.TagContains
		}
		if lower == query {
			exactTag = true
		}
	}
	if exactTag {
		score += s.weights.TagExact
	}

	// Word-level content matching. Deliberately O(query words x content
	// words): both are note-sized, not corpus-sized.
	queryWords := strings.Fields(query)
	contentWords := strings.Fields(strings.ToLower(doc.Content))
	for _, qw := range queryWords {
		for _, cw := range contentWords {
			if !strings.Contains(cw, qw) {
				continue
			}
			if cw == qw {
				score += s.weights.ContentExact
			} else {
				score += s.weights.ContentPartial
			}
		}
	}

	if s.now().Sub(time.Unix(doc.UpdatedTs, 0)) < recencyWindow {
		score += s.weights.Recency
	}

	return score
}

// Rank scores every document in the corpus against the query and returns the
// matches in descending score order. Documents scoring 0 against a non-empty
// query are excluded. Ties are broken by the supplied sort key; an empty
// query ties everything and falls back to the sort key alone (defaulting to
// last-updated descending).
func (s *Scorer) Rank(corpus []Document, query string, key SortKey) []ScoredDocument {
	trimmed := strings.TrimSpace(query)

	results := make([]ScoredDocument, 0, len(corpus))
	for _, doc := range corpus {
		score := s.Score(doc, query)
		if score == 0 && trimmed != "" {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return lessBySortKey(results[i].Document, results[j].Document, key)
	})

	return results
}

// ScoreRelevance scores a single document with the default weights.
func ScoreRelevance(doc Document, query string) float64 {
	return NewScorer().Score(doc, query)
}

func lessBySortKey(a, b Document, key SortKey) bool {
	switch key {
	case SortCreatedDesc:
		return a.CreatedTs > b.CreatedTs
	case SortTitleAsc:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	default:
		return a.UpdatedTs > b.UpdatedTs
	}
}
