// Package textproc holds the text cleaning and chunking primitives used by
// both the embedding endpoint and the index builder.
package textproc

import (
	"regexp"
	"strings"
)

var (
	// Allowed characters: alphanumerics, Hangul jamo and syllables, common
	// punctuation and whitespace. Everything else becomes a space.
	disallowedRe = regexp.MustCompile(`[^0-9A-Za-z\x{3131}-\x{318E}\x{AC00}-\x{D7A3}\s.,;:!?()\-/·%]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	paragraphRe  = regexp.MustCompile(`\n\s*\n`)
)

// Normalize strips disallowed characters, collapses whitespace runs to a
// single space and trims the ends. Idempotent: Normalize(Normalize(x)) ==
// Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := disallowedRe.ReplaceAllString(text, " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Chunk splits text into overlapping windows of at most maxLen whitespace
// tokens. Text is first split on blank-line boundaries; windows never span
// paragraphs. The window advances by maxLen-overlap tokens per step, forced
// to at least 1 so that overlap >= maxLen cannot loop forever. The final
// partial window is emitted once.
func Chunk(text string, maxLen, overlap int) []string {
	if text == "" || maxLen <= 0 {
		return nil
	}
	var chunks []string
	for _, para := range paragraphRe.Split(text, -1) {
		tokens := strings.Fields(para)
		for start := 0; start < len(tokens); {
			end := start + maxLen
			if end > len(tokens) {
				end = len(tokens)
			}
			chunk := strings.TrimSpace(strings.Join(tokens[start:end], " "))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			if end == len(tokens) {
				break
			}
			next := end - overlap
			if next <= start {
				next = start + 1
			}
			start = next
		}
	}
	return chunks
}

// Dedupe removes exact-duplicate chunks, keeping the first occurrence.
func Dedupe(chunks []string) []string {
	seen := make(map[string]struct{}, len(chunks))
	uniq := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	return uniq
}
