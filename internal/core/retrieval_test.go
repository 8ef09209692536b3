package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetrieval(vs *mockVectorStore, remote *mockRemote) *RetrievalService {
	embedder := NewEmbedder(EmbedderConfig{Cache: newMemCache(), Remote: remote, RemoteDim: remote.dim})
	return NewRetrievalService(vs, embedder)
}

func TestRetrieveEmptyDocumentIDsShortCircuits(t *testing.T) {
	vs := newMockVectorStore()
	remote := &mockRemote{dim: 4}
	svc := newTestRetrieval(vs, remote)

	texts, err := svc.Retrieve(context.Background(), nil, "what is the notice period?", 12)
	require.NoError(t, err)
	assert.Empty(t, texts)
	assert.Empty(t, remote.calls, "no embedding call for an empty document set")
	assert.Zero(t, vs.queryCalls)
}

func TestRetrieveQueriesStoreWithFilter(t *testing.T) {
	vs := newMockVectorStore()
	vs.queryTexts = []string{"chunk a", "chunk b"}
	remote := &mockRemote{dim: 4}
	svc := newTestRetrieval(vs, remote)

	texts, err := svc.Retrieve(context.Background(), []string{"doc-1", "doc-2"}, "termination?", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"chunk a", "chunk b"}, texts)
	assert.Equal(t, []string{"doc-1", "doc-2"}, vs.lastDocIDs)
	assert.Equal(t, 5, vs.lastQueryK)
	assert.Len(t, remote.calls, 1, "exactly one query embedding")
}

func TestRetrieveDefaultsTopK(t *testing.T) {
	vs := newMockVectorStore()
	svc := newTestRetrieval(vs, &mockRemote{dim: 4})

	_, err := svc.Retrieve(context.Background(), []string{"doc-1"}, "question", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, vs.lastQueryK)
}

func TestRetrieveStoreFailurePropagates(t *testing.T) {
	vs := newMockVectorStore()
	vs.queryErr = errors.New("query timeout")
	svc := newTestRetrieval(vs, &mockRemote{dim: 4})

	_, err := svc.Retrieve(context.Background(), []string{"doc-1"}, "question", 12)
	assert.Error(t, err)
}
