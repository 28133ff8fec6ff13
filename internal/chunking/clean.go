package chunking

import (
	"regexp"
	"strings"
)

var (
	controlChars   = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-]")
	multipleSpaces = regexp.MustCompile(` +`)
	multipleBlanks = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// CleanText prepares raw OCR text for chunking: control characters are
// stripped, line endings normalised to \n, runs of spaces collapsed and
// runs of blank lines reduced to a single blank line.
func CleanText(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multipleSpaces.ReplaceAllString(text, " ")
	for multipleBlanks.MatchString(text) {
		text = multipleBlanks.ReplaceAllString(text, "\n\n")
	}
	return strings.TrimSpace(text)
}
