package chunking

import (
	"regexp"
	"strings"
)

// Strategy splits text into candidate segments. maxSize is informational:
// strategies split on natural boundaries and never guarantee the bound;
// callers recurse when a segment is still too large. This keeps "how to
// split" decoupled from "how to guarantee a size bound".
type Strategy interface {
	Split(text string, maxSize int) []string
}

var (
	paragraphPattern = regexp.MustCompile(`\n\s*\n`)
	sentencePattern  = regexp.MustCompile(`[.!?]+["']*\s*|\n\s*\n`)
)

// ParagraphStrategy splits on blank-line boundaries.
type ParagraphStrategy struct{}

// Split divides text into non-empty trimmed paragraphs.
func (ParagraphStrategy) Split(text string, _ int) []string {
	return nonEmpty(paragraphPattern.Split(text, -1))
}

// SentenceStrategy splits on sentence-terminal punctuation (optionally
// followed by closing quotes) or blank-line boundaries.
type SentenceStrategy struct{}

// Split divides text into non-empty trimmed sentences.
func (SentenceStrategy) Split(text string, _ int) []string {
	return nonEmpty(sentencePattern.Split(text, -1))
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
