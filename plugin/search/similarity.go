package search

import (
	"math"
	"strings"
)

// SemanticEdgeThreshold is the minimum TextSimilarity for two documents to be
// considered semantically related (mind-map edge creation).
const SemanticEdgeThreshold = 0.3

// Blend weights for TextSimilarity: content overlap dominates, raw length
// parity is a minor tiebreaker signal.
const (
	jaccardWeight = 0.7
	lengthWeight  = 0.3
)

// TextSimilarity computes a deterministic similarity in [0,1] between two
// texts: 0.7 x Jaccard over word-token sets plus 0.3 x length similarity.
// Tokenization here is cheaper than Normalize on purpose: this runs over
// document pairs and must stay fast.
func TextSimilarity(a, b string) float64 {
	setA := similarityTokenSet(a)
	setB := similarityTokenSet(b)

	jaccard := 0.0
	if len(setA) > 0 && len(setB) > 0 {
		intersection := 0
		for token := range setA {
			if _, ok := setB[token]; ok {
				intersection++
			}
		}
		union := len(setA) + len(setB) - intersection
		if union > 0 {
			jaccard = float64(intersection) / float64(union)
		}
	}

	lenA := float64(len([]rune(a)))
	lenB := float64(len([]rune(b)))
	lengthSim := 0.0
	if maxLen := math.Max(lenA, lenB); maxLen > 0 {
		lengthSim = 1 - math.Abs(lenA-lenB)/maxLen
	}

	return jaccardWeight*jaccard + lengthWeight*lengthSim
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero norms yield 0 rather than NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similarityTokenSet splits text on non-word-character boundaries and keeps
// lower-cased tokens longer than 2 runes. No stop-word filtering at this step.
func similarityTokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if len([]rune(token)) > 2 {
			set[token] = struct{}{}
		}
	}

	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return set
}

// isWordRune reports whether the rune is part of a word token. The class
// matches regex \w: letters, digits and underscore, plus CJK characters.
func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		(r >= 0x4E00 && r <= 0x9FFF) // CJK characters
}
