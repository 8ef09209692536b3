package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "one two three", NormalizeText("  one \t two\n\n three  "))
	assert.Equal(t, "", NormalizeText("   \n\t  "))
	assert.Equal(t, "plain", NormalizeText("plain"))
}

func TestDocHashIgnoresWhitespaceRuns(t *testing.T) {
	a := DocHash("This  is a\tlegal   document.\n")
	b := DocHash("This is a legal document.")
	assert.Equal(t, a, b)

	c := DocHash("This is a different document.")
	assert.NotEqual(t, a, c)
}

func TestTextHashIsRaw(t *testing.T) {
	// The cache key hashes the text exactly as supplied.
	assert.NotEqual(t, TextHash("a  b"), TextHash("a b"))
	assert.Equal(t, TextHash("same"), TextHash("same"))
}

func TestChunkTextEmpty(t *testing.T) {
	chunks, err := ChunkText("", 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkTextShorterThanSize(t *testing.T) {
	chunks, err := ChunkText("short text", 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunkTextWindowWalk(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks, err := ChunkText(text, 1000, 200)
	require.NoError(t, err)

	// Cursor sequence 0, 800, 1600 -> lengths 1000, 1000, 900.
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)
}

func TestChunkTextRoundTrip(t *testing.T) {
	text := NormalizeText(strings.Repeat("the quick brown fox jumps over the lazy dog ", 60))
	size, overlap := 300, 70

	chunks, err := ChunkText(text, size, overlap)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Dropping each chunk's leading overlap (except the first) reconstructs
	// the normalized text exactly.
	var sb strings.Builder
	for i, c := range chunks {
		if i == 0 {
			sb.WriteString(c)
			continue
		}
		sb.WriteString(c[overlap:])
	}
	assert.Equal(t, text, sb.String())
}

func TestChunkTextRejectsBadOverlap(t *testing.T) {
	_, err := ChunkText("some text", 100, 100)
	assert.Error(t, err)

	_, err = ChunkText("some text", 100, 150)
	assert.Error(t, err)

	_, err = ChunkText("some text", 0, 0)
	assert.Error(t, err)
}
