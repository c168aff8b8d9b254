package search

import (
	"math"
	"strings"

	apperrors "github.com/notabase/notabase/internal/errors"
)

// EmbeddingDimensions is the default pseudo-embedding dimension.
const EmbeddingDimensions = 384

// Pseudo-embedding constants. These are part of the contract, not
// implementation detail: downstream cosine comparisons depend on consistent
// vector geometry across calls and across time, so a text embedded today must
// compare sensibly against one embedded months ago.
const (
	hashBase        = 31  // polynomial string hash base
	charSlotOffset  = 17  // per-character slot stride
	trigramAltScale = 7   // secondary trigram slot multiplier
	charCodeScale   = 0.1 // sin() argument scale per character
	trigramPrimary  = 0.2 // primary trigram accumulation
	trigramAlt      = 0.1 // secondary trigram accumulation
	maxTokenChars   = 10  // per-token character cap
)

// EmbedText generates the deterministic hash-based pseudo-embedding of text
// at the default dimension. It is the zero-dependency fallback used when no
// external embedding service is configured. Identical text always yields a
// bit-identical vector.
func EmbedText(text string) []float64 {
	vector, _ := EmbedTextDim(text, EmbeddingDimensions)
	return vector
}

// EmbedTextDim generates the pseudo-embedding with an explicit dimension.
// The result is L2-normalized; empty text yields the all-zero vector.
func EmbedTextDim(text string, dims int) ([]float64, error) {
	if dims <= 0 {
		return nil, apperrors.InvalidArgument("embedding dimensions must be positive, got %d", dims)
	}

	vector := make([]float64, dims)
	lower := strings.ToLower(text)

	// Token pass: each token scatters per-character contributions around its
	// hash slot, damped by the token's position in the sequence.
	for i, token := range splitWordTokens(lower) {
		h := polyHash(token)
		damp := math.Sqrt(float64(i + 1))
		runes := []rune(token)
		limit := len(runes)
		if limit > maxTokenChars {
			limit = maxTokenChars
		}
		for j := 0; j < limit; j++ {
			slot := (h + int64(j)*charSlotOffset) % int64(dims)
			vector[slot] += math.Sin(float64(runes[j])*charCodeScale) / damp
		}
	}

	// Trigram pass over the raw lower-cased text.
	runes := []rune(lower)
	for i := 0; i+3 <= len(runes); i++ {
		h := polyHash(string(runes[i : i+3]))
		vector[h%int64(dims)] += trigramPrimary
		vector[(h*trigramAltScale)%int64(dims)] += trigramAlt
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector, nil
}

// polyHash is the polynomial string hash (base 31) wrapped to the 32-bit
// signed range, returned as a non-negative int64.
func polyHash(s string) int64 {
	var h int32
	for _, r := range s {
		h = h*hashBase + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// splitWordTokens splits lower-cased text on non-word boundaries, dropping
// empty tokens. Unlike similarityTokenSet it keeps every non-empty token and
// preserves sequence order, which the embedding damping depends on.
func splitWordTokens(lower string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range lower {
		if isWordRune(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
