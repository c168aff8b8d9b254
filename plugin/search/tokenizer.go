package search

import (
	"strings"
	"unicode"
)

// minTokenLen is the minimum rune length for a token to survive normalization.
// Shorter tokens ("fox", "a", "go") carry too little signal for ranking.
const minTokenLen = 4

// stopwords is the fixed English stop-word set shared by all callers of
// Normalize. Words shorter than minTokenLen are dropped by the length rule
// already and are not listed here.
var stopwords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "cannot": {}, "could": {}, "does": {},
	"doing": {}, "down": {}, "during": {}, "each": {}, "from": {},
	"further": {}, "have": {}, "having": {}, "here": {}, "itself": {},
	"just": {}, "more": {}, "most": {}, "once": {}, "only": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "some": {},
	"such": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "under": {}, "until": {}, "very": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {},
}

// Normalize lower-cases text, replaces every character that is not a letter,
// digit or whitespace with a space, splits on whitespace runs, and drops
// tokens of length <= 3 as well as stop-words. It is total over all inputs
// and never fails.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	var tokens []string
	for _, token := range strings.Fields(sb.String()) {
		if len([]rune(token)) < minTokenLen {
			continue
		}
		if _, ok := stopwords[token]; ok {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
