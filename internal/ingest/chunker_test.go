package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkTextShortInput(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, ChunkText("hello world", 1200))
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 1200))
}

func TestChunkTextExactLimit(t *testing.T) {
	text := strings.Repeat("a", 10)
	assert.Equal(t, []string{text}, ChunkText(text, 10))
}

func TestChunkTextSplitsAtSentenceBoundary(t *testing.T) {
	chunks := ChunkText("First sentence. Tail.", 20)
	assert.Equal(t, []string{"First sentence.", "Tail."}, chunks)
}

func TestChunkTextHardSplitWithoutBoundary(t *testing.T) {
	chunks := ChunkText(strings.Repeat("a", 25), 10)
	assert.Equal(t, []string{
		strings.Repeat("a", 10),
		strings.Repeat("a", 10),
		strings.Repeat("a", 5),
	}, chunks)
}

func TestChunkTextHardSplitKeepsRunesIntact(t *testing.T) {
	// 3-byte runes with no sentence boundary force hard splits; a byte
	// limit of 10 never lands on a rune boundary.
	text := strings.Repeat("世", 30)
	chunks := ChunkText(text, 10)

	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, len(chunk), 10)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))

	t.Run("limit below one rune", func(t *testing.T) {
		assert.Equal(t, []string{"世", "界"}, ChunkText("世界", 2))
	})
}

func TestChunkTextPrefersLastBoundaryInWindow(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six. Seven. Eight."
	chunks := ChunkText(text, 20)

	// Window "One. Two. Three. Fou" breaks after "Three. ".
	assert.Equal(t, []string{"One. Two. Three.", "Four. Five. Six.", "Seven. Eight."}, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 20)
	}
	assert.Equal(t, text, strings.Join(chunks, " "), "no text is lost across chunks")
}

func TestChunkTextDefaultsMaxChars(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := ChunkText(text, 0)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), DefaultMaxChunkChars)
	}
	assert.Greater(t, len(chunks), 1)
}
