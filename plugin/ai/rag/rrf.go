// Package rag provides retrieval for the chat feature: lexical and vector
// candidate collection fused with Reciprocal Rank Fusion.
package rag

import (
	"sort"
)

// RRFDampingFactor is the k in RRF(d) = sum(weight_i / (k + rank_i(d))).
// 60 is the common information-retrieval default.
const RRFDampingFactor = 60

// SearchResult is a retrieval candidate for the chat context.
type SearchResult struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"` // lexical, vector, hybrid
}

// FuseWithRRF fuses the lexical and vector candidate lists using Reciprocal
// Rank Fusion with equal weights.
func FuseWithRRF(lexical, vector []*SearchResult) []*SearchResult {
	return FuseMultiple([][]*SearchResult{lexical, vector}, []float64{0.5, 0.5})
}

// FuseMultiple fuses multiple ranked lists using RRF. weights must have the
// same length as resultLists; mismatched weights fall back to equal weights.
func FuseMultiple(resultLists [][]*SearchResult, weights []float64) []*SearchResult {
	if len(resultLists) == 0 {
		return nil
	}
	if len(resultLists) != len(weights) {
		weights = make([]float64, len(resultLists))
		equalWeight := 1.0 / float64(len(resultLists))
		for i := range weights {
			weights[i] = equalWeight
		}
	}

	scoreMap := make(map[string]float64)
	resultMap := make(map[string]*SearchResult)
	order := make([]string, 0)

	for listIdx, results := range resultLists {
		weight := weights[listIdx]
		for rank, result := range results {
			if _, exists := resultMap[result.ID]; !exists {
				resultMap[result.ID] = result
				order = append(order, result.ID)
			}
			scoreMap[result.ID] += weight / float64(RRFDampingFactor+rank+1)
		}
	}

	// Stable over first-seen order so equal RRF scores keep a deterministic
	// ordering.
	sort.SliceStable(order, func(i, j int) bool {
		return scoreMap[order[i]] > scoreMap[order[j]]
	})

	results := make([]*SearchResult, len(order))
	for i, id := range order {
		source := resultMap[id]
		results[i] = &SearchResult{
			ID:      id,
			Content: source.Content,
			Score:   scoreMap[id],
			Source:  "hybrid",
		}
	}
	return results
}
