package translate

import (
	"context"
	"strings"
	"unicode"
)

// maxChunkRunes bounds the text handed to a provider in one call. The web
// providers reject requests around the 5000 character mark, so paragraphs
// longer than this are translated in sentence-aligned pieces and re-joined.
const maxChunkRunes = 4000

// Text translates a single paragraph with p, splitting it into chunks when
// it exceeds the per-call size limit. Chunks are translated sequentially and
// joined with a space; a failure in any chunk fails the whole paragraph.
func Text(ctx context.Context, p Provider, text, target string) (string, error) {
	chunks := splitChunks(text, maxChunkRunes)
	if len(chunks) == 1 {
		return p.Translate(ctx, chunks[0], target)
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := p.Translate(ctx, chunk, target)
		if err != nil {
			return "", err
		}
		parts = append(parts, translated)
	}
	return strings.Join(parts, " "), nil
}

// splitChunks splits text into pieces of at most max runes, preferring
// sentence boundaries and falling back to plain rune windows for a single
// oversized sentence.
func splitChunks(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var chunks []string
	var current []rune

	for _, sentence := range splitSentences(text) {
		sr := []rune(sentence)

		// A single sentence can itself exceed the limit.
		for len(sr) > max {
			if len(current) > 0 {
				chunks = append(chunks, strings.TrimSpace(string(current)))
				current = nil
			}
			chunks = append(chunks, strings.TrimSpace(string(sr[:max])))
			sr = sr[max:]
		}

		if len(current)+len(sr) > max && len(current) > 0 {
			chunks = append(chunks, strings.TrimSpace(string(current)))
			current = nil
		}
		current = append(current, sr...)
	}

	if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// splitSentences cuts text after sentence-ending punctuation. The split is
// deliberately simple; it only needs to find reasonable cut points.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?', '。', '！', '？':
			end := i + 1
			// Swallow closing quotes and trailing spaces
			for end < len(runes) && (runes[end] == '"' || runes[end] == '\'' || unicode.IsSpace(runes[end])) {
				end++
			}
			sentences = append(sentences, string(runes[start:end]))
			start = end
			i = end - 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}
