// Package segment splits raw document text into display paragraphs.
// Splitting is a pure function of its input, so loading the same document
// twice always produces the same paragraph sequence.
package segment

import "strings"

// Split breaks raw text into paragraphs. A paragraph boundary is any run of
// blank lines (a line containing only whitespace counts as blank), which
// covers both the "\n\n" and the "\n \n" cases. Consecutive boundaries
// collapse, paragraphs are trimmed, and paragraphs that trim to nothing are
// dropped, so the resulting indices are dense.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}

	norm := normalizeNewlines(raw)

	var (
		paragraphs []string
		current    []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(current, "\n"))
		current = current[:0]
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	for _, line := range strings.Split(norm, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// normalizeNewlines maps Windows and old-Mac line endings to plain "\n".
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
