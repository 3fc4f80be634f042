package reader

import "strings"

// Tokenize splits text into whitespace-delimited words. The result never
// contains empty strings and preserves the order words appear in the input.
// Empty or all-whitespace input yields an empty (but valid) slice.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
