package search

import (
	"math"
	"sort"
	"strings"

	apperrors "github.com/notabase/notabase/internal/errors"
)

// DefaultKeywordLimit is the number of keywords returned when the caller
// passes a limit of 0.
const DefaultKeywordLimit = 5

// ExtractKeywords ranks the document's terms with a TF-IDF variant against
// the corpus and returns the top terms, most relevant first. A limit of 0
// selects DefaultKeywordLimit; a negative limit is an invalid argument. A
// document with no surviving tokens yields an empty result, not an error.
func ExtractKeywords(doc Document, corpus []Document, limit int) ([]string, error) {
	if limit < 0 {
		return nil, apperrors.InvalidArgument("keyword limit must be non-negative, got %d", limit)
	}
	if limit == 0 {
		limit = DefaultKeywordLimit
	}

	tokens := Normalize(doc.Title + " " + doc.Content)
	if len(tokens) == 0 {
		return nil, nil
	}

	// Term frequency over the surviving tokens, keeping first-seen order so
	// the final sort is stable by document position.
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	corpusSize := len(corpus)
	if corpusSize == 0 {
		corpusSize = 1
	}

	total := float64(len(tokens))
	scores := make(map[string]float64, len(counts))
	for term, count := range counts {
		tf := float64(count) / total
		df := documentFrequency(term, corpus)
		scores[term] = tf * math.Log(float64(corpusSize)/float64(df))
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order, nil
}

// documentFrequency counts corpus documents containing the term as a raw
// substring of their lower-cased title+content. Never returns 0: a term
// absent from the corpus counts as 1 to keep the IDF log defined.
func documentFrequency(term string, corpus []Document) int {
	df := 0
	for _, doc := range corpus {
		if strings.Contains(strings.ToLower(doc.Title+" "+doc.Content), term) {
			df++
		}
	}
	if df == 0 {
		df = 1
	}
	return df
}
