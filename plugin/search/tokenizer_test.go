package search

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "drops short tokens",
			text:     "The Quick, quick FOX!",
			expected: []string{"quick", "quick"},
		},
		{
			name:     "strips punctuation",
			text:     "hello,world;testing",
			expected: []string{"hello", "world", "testing"},
		},
		{
			name:     "drops stop words",
			text:     "these documents have interesting content",
			expected: []string{"documents", "interesting", "content"},
		},
		{
			name:     "keeps digits",
			text:     "release 2024 notes",
			expected: []string{"release", "2024", "notes"},
		},
		{
			name:     "only punctuation",
			text:     "!!! ??? ...",
			expected: nil,
		},
		{
			name:     "preserves duplicates and order",
			text:     "alpha beta alpha",
			expected: []string{"alpha", "beta", "alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.text)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestNormalizeDeterminism(t *testing.T) {
	text := "Deterministic normalization across repeated calls, every time."
	first := Normalize(text)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(Normalize(text), first) {
			t.Fatalf("Normalize is not deterministic on call %d", i)
		}
	}
}
