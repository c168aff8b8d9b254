package note

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	apperrors "github.com/notabase/notabase/internal/errors"
	"github.com/notabase/notabase/plugin/ai/cache"
	"github.com/notabase/notabase/plugin/search"
	"github.com/notabase/notabase/server/internal/observability"
	"github.com/notabase/notabase/store"
)

const (
	relatedCacheTTL      = 5 * time.Minute
	relatedScoreFloor    = 0.1
	relatedCandidateMult = 3
	maxRelatedLimit      = 20
)

// Related score weights: content similarity dominates, tag overlap and
// time proximity refine the ordering.
const (
	relatedContentWeight = 0.6
	relatedTagWeight     = 0.3
	relatedTimeWeight    = 0.1
)

// Service exposes note search, related-note recommendations, and
// keyword extraction on top of the store and the search engine.
type Service struct {
	store  *store.Store
	scorer *search.Scorer
	cache  *cache.LRUCache
	logger *slog.Logger
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		scorer: search.NewScorer(),
		cache:  cache.NewLRUCache(256, relatedCacheTTL),
		logger: logger,
	}
}

// SearchOptions configures a note search.
type SearchOptions struct {
	Query        string
	Limit        int
	SortKey      search.SortKey
	ContextChars int
}

// SearchResult is a ranked note with a highlighted snippet.
type SearchResult struct {
	UID        string      `json:"uid"`
	Title      string      `json:"title"`
	Score      float64     `json:"score"`
	Snippet    string      `json:"snippet"`
	Highlights []Highlight `json:"highlights"`
	Tags       []string    `json:"tags,omitempty"`
	CreatedTs  int64       `json:"created_ts"`
	UpdatedTs  int64       `json:"updated_ts"`
}

// Search ranks all notes against the query and decorates each hit with
// a context snippet. An empty query returns the corpus in sort order.
func (s *Service) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	rc := observability.NewRequestContext(s.logger, "note_search")
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.SortKey == "" {
		opts.SortKey = search.SortUpdatedDesc
	}

	notes, err := s.store.ListNotes(ctx, &store.FindNote{})
	if err != nil {
		return nil, err
	}
	corpus := store.ToDocuments(notes)

	ranked := s.scorer.Rank(corpus, opts.Query, opts.SortKey)
	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	tokens := search.Normalize(opts.Query)
	byUID := make(map[string]*store.Note, len(notes))
	for _, n := range notes {
		byUID[n.UID] = n
	}

	results := make([]SearchResult, 0, len(ranked))
	for _, r := range ranked {
		n := byUID[r.Document.ID]
		if n == nil {
			continue
		}
		plain := PlainText(n.Content)
		matches := findMatches(plain, tokens)
		snippet, highlights := extractSnippet(plain, matches, opts.ContextChars)
		results = append(results, SearchResult{
			UID:        n.UID,
			Title:      n.Title,
			Score:      r.Score,
			Snippet:    snippet,
			Highlights: highlights,
			Tags:       n.Tags,
			CreatedTs:  n.CreatedTs,
			UpdatedTs:  n.UpdatedTs,
		})
	}

	rc.Info("search completed",
		slog.Int(observability.LogFieldQueryLen, len(opts.Query)),
		slog.Int(observability.LogFieldCorpusSize, len(corpus)),
		slog.Int("results", len(results)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return results, nil
}

// RelatedNote is a recommendation with its combined similarity score.
type RelatedNote struct {
	UID        string   `json:"uid"`
	Title      string   `json:"title"`
	Similarity float64  `json:"similarity"`
	SharedTags []string `json:"shared_tags"`
	CreatedTs  int64    `json:"created_ts"`
}

// Related returns notes similar to the given one, combining text
// similarity, tag overlap, and time proximity. Results are cached
// briefly since the corpus changes slowly relative to read traffic.
func (s *Service) Related(ctx context.Context, uid string, limit int) ([]RelatedNote, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	cacheKey := fmt.Sprintf("related:%s:%d", uid, limit)
	if data, ok := s.cache.Get(cacheKey); ok {
		var cached []RelatedNote
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	current, err := s.store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NotFound("note %s not found", uid)
	}

	candidateLimit := limit * relatedCandidateMult
	candidates, err := s.store.ListNotes(ctx, &store.FindNote{Limit: &candidateLimit})
	if err != nil {
		return nil, err
	}

	currentText := current.Title + "\n" + PlainText(current.Content)
	results := []RelatedNote{}
	for _, candidate := range candidates {
		if candidate.UID == uid {
			continue
		}
		contentScore := search.TextSimilarity(currentText, candidate.Title+"\n"+PlainText(candidate.Content))

		shared := intersectTags(current.Tags, candidate.Tags)
		tagScore := 0.0
		if len(current.Tags) > 0 {
			tagScore = float64(len(shared)) / float64(len(current.Tags))
		}

		timeScore := timeProximity(current.CreatedTs, candidate.CreatedTs)

		score := relatedContentWeight*contentScore + relatedTagWeight*tagScore + relatedTimeWeight*timeScore
		if score > relatedScoreFloor {
			results = append(results, RelatedNote{
				UID:        candidate.UID,
				Title:      candidate.Title,
				Similarity: score,
				SharedTags: shared,
				CreatedTs:  candidate.CreatedTs,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}

	if len(results) > 0 {
		if data, err := json.Marshal(results); err == nil {
			s.cache.Set(cacheKey, data, relatedCacheTTL)
		}
	}
	return results, nil
}

// Keywords extracts the top TF-IDF terms of a note against the
// rest of the corpus.
func (s *Service) Keywords(ctx context.Context, uid string, limit int) ([]string, error) {
	current, err := s.store.GetNote(ctx, &store.FindNote{UID: &uid})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NotFound("note %s not found", uid)
	}

	notes, err := s.store.ListNotes(ctx, &store.FindNote{})
	if err != nil {
		return nil, err
	}
	return search.ExtractKeywords(current.ToDocument(), store.ToDocuments(notes), limit)
}

// InvalidateRelated drops cached recommendations after a note changes.
func (s *Service) InvalidateRelated() {
	s.cache.Clear()
}

func intersectTags(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	var shared []string
	for _, t := range b {
		if _, ok := set[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}

// timeProximity decays linearly from 1 to 0 over seven days.
func timeProximity(a, b int64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	const sevenDays = 7 * 24 * 3600
	if diff >= sevenDays {
		return 0
	}
	return 1 - float64(diff)/float64(sevenDays)
}
