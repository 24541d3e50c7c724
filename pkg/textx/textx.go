// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// chunk separators in preference order; the empty string forces a hard cut.
var chunkSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunk splits text into pieces of at most chunkSize characters, preferring
// to break at paragraph, line, sentence and word boundaries in that order.
// Consecutive chunks overlap by up to overlap characters so retrieval does
// not lose context at chunk edges.
func Chunk(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		return []string{text}
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= chunkSize {
			chunks = append(chunks, text)
			break
		}
		cut := splitPoint(text, chunkSize)
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		next := cut - overlap
		if next <= 0 {
			next = cut
		}
		text = strings.TrimLeft(text[next:], " ")
	}

	// Drop empties produced by whitespace-only windows.
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitPoint finds the best boundary at or before limit.
func splitPoint(text string, limit int) int {
	window := text[:limit]
	for _, sep := range chunkSeparators {
		if sep == "" {
			return limit
		}
		if i := strings.LastIndex(window, sep); i > 0 {
			return i + len(sep)
		}
	}
	return limit
}
