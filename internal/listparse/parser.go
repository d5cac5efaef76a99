// Package listparse converts free-form numbered-list text blocks, as emitted
// by LLM completions and keyword extractors, into structured items. The input
// is typically a sequence of category headers followed by ordinal-prefixed
// lines in Bengali or Latin digits; real blocks also contain blank lines,
// stray commentary, and inconsistent punctuation, none of which is an error.
package listparse

import (
	"strings"
	"unicode/utf8"

	"github.com/banglatrends/trends-backend/pkg/bnnum"
)

// Item is one recognized list entry.
type Item struct {
	// Category is the most recent header above the item, "" when the block
	// has no headers (some producers never emit them).
	Category string
	// Ordinal is the list number as written, 1-based. Duplicate and missing
	// ordinals are passed through untouched.
	Ordinal int
	// Text is the entry text with the ordinal prefix and trailing terminal
	// punctuation stripped.
	Text string
}

// Stats counts what happened to each line of a block, for diagnostics.
type Stats struct {
	Lines   int
	Items   int
	Headers int
	Skipped int
}

// Separators accepted between an ordinal and the entry text.
const ordinalSeparators = ".)।"

// Header terminators: the ASCII colon and the Bengali visarga, which list
// producers in Bengali text use in the colon position.
const headerTerminators = ":ঃ"

// Trailing punctuation stripped from entry text: danda and period.
const terminalPunct = "।."

// Parse scans a text block line by line and returns the recognized items in
// order, together with per-line statistics. Category state is local to the
// call; Parse is reentrant and safe for concurrent use on different inputs.
//
// Line classification, in order:
//  1. blank lines are skipped;
//  2. a line starting with an ordinal prefix and separator is an item, or
//     skipped noise when too little text follows the prefix; it is never a
//     header, even when it ends with a colon;
//  3. a remaining line ending with a colon is a category header;
//  4. anything else is ignored as stray commentary.
func Parse(block string) ([]Item, Stats) {
	var (
		items    []Item
		stats    Stats
		category string
	)

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stats.Lines++

		// An ordinal-prefixed line is claimed here even when its remainder
		// turns out to be noise: it must never reach the header check, or a
		// junk entry like "1. ঃ" would corrupt the category state.
		if ordinal, rest, ok := splitOrdinalPrefix(line); ok {
			if text, ok := itemText(rest); ok {
				items = append(items, Item{Category: category, Ordinal: ordinal, Text: text})
				stats.Items++
			} else {
				stats.Skipped++
			}
			continue
		}

		if header, ok := parseHeader(line); ok {
			category = header
			stats.Headers++
			continue
		}

		stats.Skipped++
	}

	return items, stats
}

// splitOrdinalPrefix recognizes the ordinal-plus-separator pattern and
// returns the remainder after it. ok reports whether the line carries the
// prefix at all, regardless of what follows.
func splitOrdinalPrefix(line string) (ordinal int, rest string, ok bool) {
	ordinal, width, ok := bnnum.ParseOrdinal(line)
	if !ok {
		return 0, "", false
	}

	rest = line[width:]
	sep, size := utf8.DecodeRuneInString(rest)
	if size == 0 || !strings.ContainsRune(ordinalSeparators, sep) {
		return 0, "", false
	}
	return ordinal, rest[size:], true
}

// itemText trims the remainder and strips terminal punctuation; remainders of
// one rune or less are noise, not items.
func itemText(rest string) (string, bool) {
	text := strings.TrimSpace(rest)
	text = strings.TrimRight(text, terminalPunct)
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= 1 {
		return "", false
	}
	return text, true
}

// parseHeader recognizes a category header: a line ending with a colon whose
// leading characters did not match the ordinal pattern (the caller has
// already ruled that out).
func parseHeader(line string) (string, bool) {
	last, size := utf8.DecodeLastRuneInString(line)
	if size == 0 || !strings.ContainsRune(headerTerminators, last) {
		return "", false
	}
	header := strings.TrimSpace(line[:len(line)-size])
	if header == "" {
		return "", false
	}
	return header, true
}
