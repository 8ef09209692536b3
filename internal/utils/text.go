package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// NormalizeText collapses all whitespace runs into single spaces and trims
// leading/trailing whitespace.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// DocHash returns the hex SHA-256 digest of the normalized text. Two uploads
// that differ only in whitespace run lengths map to the same hash.
func DocHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// TextHash returns the hex SHA-256 digest of the raw text as given, without
// normalization. Used as the embedding cache key.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ChunkText splits the normalized text into overlapping fixed-size windows.
// The cursor starts at 0; each chunk covers [cursor, cursor+size); when a
// chunk reaches the end of the text the walk stops, otherwise the cursor
// advances by size-overlap. Empty text yields no chunks; text shorter than
// size yields exactly one.
func ChunkText(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d with size %d", overlap, size)
	}

	text = NormalizeText(text)
	n := len(text)
	if n == 0 {
		return nil, nil
	}

	chunks := make([]string, 0, n/(size-overlap)+1)
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, text[start:end])
		if end == n {
			break
		}
		start = end - overlap
	}
	return chunks, nil
}
