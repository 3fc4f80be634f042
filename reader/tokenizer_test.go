package reader

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple sentence",
			input:    "The quick brown fox jumps",
			expected: []string{"The", "quick", "brown", "fox", "jumps"},
		},
		{
			name:     "collapses whitespace runs",
			input:    "one\t\ttwo   three\n\nfour",
			expected: []string{"one", "two", "three", "four"},
		},
		{
			name:     "leading and trailing whitespace",
			input:    "  padded  ",
			expected: []string{"padded"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "whitespace only",
			input:    " \n\t ",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenizeNoEmptyTokens(t *testing.T) {
	inputs := []string{
		"a  b", "  x", "y\n", "\t", "word", "multi\nline\ttext here",
	}
	for _, input := range inputs {
		for i, tok := range Tokenize(input) {
			if tok == "" {
				t.Errorf("Tokenize(%q) produced empty token at %d", input, i)
			}
		}
	}
}
