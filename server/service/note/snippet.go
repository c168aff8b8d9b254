package note

import (
	"sort"
	"strings"
	"unicode"
)

// Highlight marks a matched span in snippet text, in rune offsets.
type Highlight struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	MatchedText string `json:"matched_text"`
}

const (
	defaultContextChars = 50
	maxContextChars     = 200
	boundaryScanLimit   = 10
)

// extractSnippet returns a window of content centered on the first match,
// adjusted to word boundaries, with highlight offsets rebased to the
// snippet. Without matches it returns the start of the content.
func extractSnippet(content string, matches []Highlight, contextChars int) (string, []Highlight) {
	if contextChars <= 0 {
		contextChars = defaultContextChars
	}
	if contextChars > maxContextChars {
		contextChars = maxContextChars
	}

	runes := []rune(content)
	if len(runes) == 0 {
		return "", nil
	}
	if len(matches) == 0 {
		end := adjustToBoundary(runes, min(contextChars*2, len(runes)), true)
		snippet := string(runes[:end])
		if end < len(runes) {
			snippet += "..."
		}
		return snippet, nil
	}

	start, end := snippetWindow(matches[0].Start, len(runes), contextChars)
	start = adjustToBoundary(runes, start, false)
	end = adjustToBoundary(runes, end, true)

	var sb strings.Builder
	prefixLen := 0
	if start > 0 {
		sb.WriteString("...")
		prefixLen = 3
	}
	sb.WriteString(string(runes[start:end]))
	if end < len(runes) {
		sb.WriteString("...")
	}

	adjusted := make([]Highlight, 0, len(matches))
	for _, m := range matches {
		if m.Start >= start && m.End <= end {
			adjusted = append(adjusted, Highlight{
				Start:       m.Start - start + prefixLen,
				End:         m.End - start + prefixLen,
				MatchedText: m.MatchedText,
			})
		}
	}
	return sb.String(), adjusted
}

func snippetWindow(center, contentLen, contextChars int) (int, int) {
	start := center - contextChars
	end := center + contextChars
	if start < 0 {
		end -= start
		start = 0
	}
	if end > contentLen {
		start -= end - contentLen
		end = contentLen
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// adjustToBoundary nudges pos to the nearest word separator, scanning
// forward for end positions and backward for start positions.
func adjustToBoundary(runes []rune, pos int, isEnd bool) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(runes) {
		return len(runes)
	}
	if isEnd {
		for i := pos; i < len(runes) && i < pos+boundaryScanLimit; i++ {
			if isSeparator(runes[i]) {
				return i
			}
		}
	} else {
		for i := pos - 1; i >= 0 && i >= pos-boundaryScanLimit; i-- {
			if isSeparator(runes[i]) {
				return i + 1
			}
		}
	}
	return pos
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(".,!?;:。，、；：！？…", r)
}

// findMatches locates case-insensitive occurrences of the query tokens
// in content, sorted by position with overlaps dropped.
func findMatches(content string, tokens []string) []Highlight {
	if len(tokens) == 0 {
		return nil
	}
	runes := []rune(content)
	var matches []Highlight
	for _, token := range tokens {
		tokenRunes := []rune(strings.ToLower(token))
		if len(tokenRunes) == 0 {
			continue
		}
		for i := 0; i+len(tokenRunes) <= len(runes); i++ {
			window := strings.ToLower(string(runes[i : i+len(tokenRunes)]))
			if window == string(tokenRunes) {
				matches = append(matches, Highlight{
					Start:       i,
					End:         i + len(tokenRunes),
					MatchedText: string(runes[i : i+len(tokenRunes)]),
				})
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })
	return removeOverlaps(matches)
}

func removeOverlaps(matches []Highlight) []Highlight {
	if len(matches) <= 1 {
		return matches
	}
	result := matches[:1]
	for _, m := range matches[1:] {
		if m.Start >= result[len(result)-1].End {
			result = append(result, m)
		}
	}
	return result
}
