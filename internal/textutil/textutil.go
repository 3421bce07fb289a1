package textutil

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended whenever a diff is cut to fit the byte budget.
const TruncationMarker = "\n\n[Diff truncated due to maxDiffBytes limit]"

// binarySampleSize is how many leading bytes IsBinary inspects when no NUL
// byte is present.
const binarySampleSize = 1024

// controlByteThreshold is the fraction of disallowed control bytes in the
// sample above which a buffer is treated as binary.
const controlByteThreshold = 0.10

// IsBinary reports whether buf looks like binary rather than text content.
// An empty buffer is text. Any NUL byte means binary. Otherwise the first
// 1024 bytes are sampled and the buffer is binary when more than 10% of the
// sample are control bytes other than tab, newline, and carriage return.
func IsBinary(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	sample := buf
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}

	control := 0
	for _, b := range buf {
		if b == 0 {
			return true
		}
	}
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			control++
		}
	}

	return float64(control)/float64(len(sample)) > controlByteThreshold
}

// Truncate cuts s to at most maxBytes bytes of UTF-8, backing off the raw
// byte cut so no multi-byte code point is split, and appends
// TruncationMarker. If s already fits, it is returned unchanged.
func Truncate(s string, maxBytes int) (string, bool) {
	if len(s) <= maxBytes {
		return s, false
	}
	if maxBytes < 0 {
		maxBytes = 0
	}

	cut := maxBytes
	// Back up past any continuation bytes left by the raw cut.
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + TruncationMarker, true
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
