// Package tokenizer provides the sizing tokenizer used for chunk-size
// decisions. It is a word-boundary tokenizer, deliberately independent of
// whatever tokenizer the embedding model uses: the only property callers
// rely on is that it is deterministic for the same input.
package tokenizer

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of letters, digits and underscores, including
// accented characters common in Spanish legal text.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, strings.ToLower(w))
	}
	return tokens
}

// Count returns the number of word tokens in text.
func Count(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}
