package note

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches(t *testing.T) {
	content := "The sourdough starter needs feeding. Sourdough rises slowly."

	matches := findMatches(content, []string{"sourdough"})
	require.Len(t, matches, 2)
	assert.Equal(t, "sourdough", matches[0].MatchedText)
	assert.Equal(t, "Sourdough", matches[1].MatchedText)
	assert.Less(t, matches[0].Start, matches[1].Start)
}

func TestFindMatchesNoTokens(t *testing.T) {
	assert.Nil(t, findMatches("some content", nil))
}

func TestFindMatchesRemovesOverlaps(t *testing.T) {
	matches := findMatches("sourdough", []string{"sourdough", "dough"})
	require.Len(t, matches, 1)
	assert.Equal(t, "sourdough", matches[0].MatchedText)
}

func TestExtractSnippetCentersOnMatch(t *testing.T) {
	content := strings.Repeat("padding words here ", 20) + "needle" + strings.Repeat(" trailing text", 20)
	matches := findMatches(content, []string{"needle"})
	require.Len(t, matches, 1)

	snippet, highlights := extractSnippet(content, matches, 30)
	assert.Contains(t, snippet, "needle")
	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))

	require.Len(t, highlights, 1)
	runes := []rune(snippet)
	assert.Equal(t, "needle", string(runes[highlights[0].Start:highlights[0].End]))
}

func TestExtractSnippetNoMatches(t *testing.T) {
	content := "short note body"
	snippet, highlights := extractSnippet(content, nil, 50)
	assert.Equal(t, content, snippet)
	assert.Empty(t, highlights)
}

func TestExtractSnippetEmptyContent(t *testing.T) {
	snippet, highlights := extractSnippet("", nil, 50)
	assert.Empty(t, snippet)
	assert.Empty(t, highlights)
}

func TestExtractSnippetTruncatesLongContentWithoutMatch(t *testing.T) {
	content := strings.Repeat("word ", 100)
	snippet, _ := extractSnippet(content, nil, 20)
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.Less(t, len(snippet), len(content))
}
