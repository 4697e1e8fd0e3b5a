package ingest

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkChars is the chunk size used by the pipeline.
const DefaultMaxChunkChars = 1200

// ChunkText splits text into chunks of at most maxChars bytes, preferring
// to break after the last sentence boundary (". ") inside the window. When
// no boundary exists the chunk is cut near maxChars, backed up to a rune
// boundary so multi-byte text never splits mid-rune. Chunks are trimmed;
// empty chunks are dropped.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []string
	for len(text) > maxChars {
		splitPos := strings.LastIndex(text[:maxChars], ". ")
		if splitPos == -1 {
			splitPos = maxChars
			for splitPos > 0 && !utf8.RuneStart(text[splitPos]) {
				splitPos--
			}
			if splitPos == 0 {
				// maxChars is smaller than the first rune; take it whole.
				_, splitPos = utf8.DecodeRuneInString(text)
			}
		} else {
			splitPos += 2
		}

		if chunk := strings.TrimSpace(text[:splitPos]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(text[splitPos:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
