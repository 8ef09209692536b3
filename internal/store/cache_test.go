package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCacheGetPut(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	cache, err := NewEmbeddingCache(dbPath)
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Get("never stored")
	require.NoError(t, err)
	assert.False(t, ok)

	embedding := []float32{0.1, 0.2, 0.3}
	require.NoError(t, cache.Put("the governing law clause", embedding))

	got, ok, err := cache.Get("the governing law clause")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, embedding, got)
}

func TestEmbeddingCacheOverwrite(t *testing.T) {
	cache, err := NewEmbeddingCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put("text", []float32{1, 2}))
	require.NoError(t, cache.Put("text", []float32{3, 4}))

	got, ok, err := cache.Get("text")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, got)
}

func TestEmbeddingCacheSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	cache, err := NewEmbeddingCache(dbPath)
	require.NoError(t, err)
	require.NoError(t, cache.Put("persisted", []float32{9, 8, 7}))
	require.NoError(t, cache.Close())

	reopened, err := NewEmbeddingCache(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get("persisted")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{9, 8, 7}, got)
}

func TestEmbeddingCacheKeyIsExactText(t *testing.T) {
	cache, err := NewEmbeddingCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put("a  b", []float32{1}))

	// The raw text is the key: a whitespace variant is a different entry.
	_, ok, err := cache.Get("a b")
	require.NoError(t, err)
	assert.False(t, ok)
}
