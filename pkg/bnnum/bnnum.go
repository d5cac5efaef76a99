// Package bnnum recognizes ordinal numbers written in Bengali or Latin digit
// glyphs. It is the single source of truth for ordinal detection: every call
// site that needs to know whether a string starts with a list number goes
// through ParseOrdinal, so two-digit handling cannot drift between parsers.
package bnnum

import (
	"strings"
	"unicode/utf8"
)

// bengaliZero is the code point of the Bengali digit zero (০, U+09E6).
// Bengali digits ০–৯ occupy the contiguous range U+09E6–U+09EF.
const bengaliZero = '০'

// DigitValue returns the numeric value of a Bengali or Latin digit rune.
// The second return is false when r is not a digit in either script.
func DigitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= bengaliZero && r <= bengaliZero+9:
		return int(r - bengaliZero), true
	}
	return 0, false
}

// maxOrdinalDigits bounds the accepted digit run. Real list ordinals are a
// handful of digits; anything longer is junk, and the bound keeps the
// accumulator far from integer overflow.
const maxOrdinalDigits = 4

// ParseOrdinal reads the longest run of digit glyphs (Bengali or Latin,
// scripts may not mix within one number) at the start of s and returns its
// integer value and byte width. ok is false when s does not start with a
// digit, the run encodes zero, or the run is longer than maxOrdinalDigits.
// A two-digit run such as "১০" is read as a single number, never as "১"
// followed by a stray "০".
func ParseOrdinal(s string) (value, width int, ok bool) {
	var (
		n       int
		bytes   int
		digits  int
		bengali bool
	)
	for i, r := range s {
		d, isDigit := DigitValue(r)
		if !isDigit {
			break
		}
		isBengali := r >= bengaliZero
		if digits > 0 && isBengali != bengali {
			break
		}
		if digits == maxOrdinalDigits {
			return 0, 0, false
		}
		bengali = isBengali
		n = n*10 + d
		digits++
		bytes = i + utf8.RuneLen(r)
	}
	if digits == 0 || n == 0 {
		return 0, 0, false
	}
	return n, bytes, true
}

// FormatBengali renders a positive integer in Bengali digit glyphs.
func FormatBengali(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	var buf [20]rune // enough for any int64
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = bengaliZero + rune(n%10)
		n /= 10
	}
	for _, r := range buf[i:] {
		b.WriteRune(r)
	}
	return b.String()
}
