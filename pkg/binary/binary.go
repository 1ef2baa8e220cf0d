// Package binary classifies file contents as binary or text.
package binary

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

const (
	// Only the head of a file is inspected; binary formats show junk bytes early.
	sampleLimit = 1024

	// Share of runes that must be printable for the sample to count as text.
	printableThreshold = 0.95

	asciiPrintableMin = 0x20
)

// LooksBinary reports whether content should be copied rather than rendered.
// Empty content is text. A NUL byte or an invalid UTF-8 sequence inside the
// sample marks the content as binary, as does a low share of printable runes.
func LooksBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
		// do not let a multi-byte rune cut at the sample boundary count as invalid
		for i := 0; i < utf8.UTFMax-1 && len(sample) > 0 && !utf8.FullRune(sample[lastRuneStart(sample):]); i++ {
			sample = sample[:lastRuneStart(sample)]
		}
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	printable := 0
	total := 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		sample = sample[size:]
		total++
		if isAllowedRune(r) {
			printable++
		}
	}
	if total == 0 {
		return false
	}
	return float64(printable)/float64(total) < printableThreshold
}

// lastRuneStart returns the index where the final (possibly partial) rune begins.
func lastRuneStart(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			return i
		}
	}
	return len(b)
}

// isAllowedRune treats common whitespace and visible characters as printable.
// Control codes like BEL or ESC are signs of binary data.
func isAllowedRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' || r == '\f' || r == '\uFEFF' {
		return true
	}
	if r < asciiPrintableMin {
		return false
	}
	return unicode.IsGraphic(r)
}
