package domain

import (
	"strings"
)

// Sentence-terminal runes stripped from the end of a phrase.
// The Bengali full stop (danda) and the ASCII period.
const terminalPunct = "।."

// NormalizePhrase prepares phrase text for storage and comparison:
//   - trims leading/trailing whitespace
//   - strips trailing sentence-terminal punctuation (danda or period)
//   - compresses multiple spaces into one
//
// Case is preserved: Bengali script has no case, and Latin-script phrases
// keep the form the producer emitted.
func NormalizePhrase(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, terminalPunct)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
