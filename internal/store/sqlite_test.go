package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestDoc(t *testing.T, s *SQLiteStore, docID, docHash string, texts []string, embeddings [][]float32) {
	t.Helper()
	ids := make([]string, len(texts))
	metas := make([]map[string]any, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("%s_chunk_%d", docID, i)
		metas[i] = map[string]any{
			MetaDocumentID:   docID,
			MetaDocHash:      docHash,
			MetaChunkIndex:   i,
			MetaUploaderType: UploaderAdmin,
		}
	}
	require.NoError(t, s.Insert(context.Background(), ids, texts, metas, embeddings))
}

func TestSQLiteStoreExistsByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.False(t, s.ExistsByHash(ctx, "missing-hash"))

	insertTestDoc(t, s, "doc-1", "hash-1",
		[]string{"termination clause"},
		[][]float32{{1, 0}})

	assert.True(t, s.ExistsByHash(ctx, "hash-1"))
	assert.False(t, s.ExistsByHash(ctx, "hash-2"))
}

func TestSQLiteStoreDocumentIDByHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, s.DocumentIDByHash(ctx, "hash-1"))

	insertTestDoc(t, s, "doc-1", "hash-1",
		[]string{"indemnity clause"},
		[][]float32{{0, 1}})

	assert.Equal(t, "doc-1", s.DocumentIDByHash(ctx, "hash-1"))
}

func TestSQLiteStoreInsertLengthMismatch(t *testing.T) {
	s := newTestStore(t)
	err := s.Insert(context.Background(),
		[]string{"a", "b"},
		[]string{"one"},
		[]map[string]any{{}},
		[][]float32{{1}})
	assert.Error(t, err)
}

func TestSQLiteStoreQueryRanksBySimilarity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestDoc(t, s, "doc-1", "hash-1",
		[]string{"close match", "orthogonal", "opposite"},
		[][]float32{{1, 0}, {0, 1}, {-1, 0}})

	texts, err := s.Query(ctx, []float32{1, 0}, []string{"doc-1"}, 2)
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "close match", texts[0])
	assert.Equal(t, "orthogonal", texts[1])
}

func TestSQLiteStoreQueryFiltersByDocumentID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestDoc(t, s, "doc-1", "hash-1", []string{"from doc one"}, [][]float32{{1, 0}})
	insertTestDoc(t, s, "doc-2", "hash-2", []string{"from doc two"}, [][]float32{{1, 0}})

	texts, err := s.Query(ctx, []float32{1, 0}, []string{"doc-2"}, 12)
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "from doc two", texts[0])
}

func TestSQLiteStoreQueryEmptyDocumentIDs(t *testing.T) {
	s := newTestStore(t)

	texts, err := s.Query(context.Background(), []float32{1, 0}, nil, 12)
	require.NoError(t, err)
	assert.Empty(t, texts)
}
