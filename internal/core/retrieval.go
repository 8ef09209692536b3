package core

import (
	"context"
	"fmt"

	"github.com/legalease-ai/rag-service/internal/store"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 12

// RetrievalService embeds a question and queries the vector store restricted
// to the given documents.
type RetrievalService struct {
	store    store.VectorStore
	embedder *Embedder
}

func NewRetrievalService(vs store.VectorStore, embedder *Embedder) *RetrievalService {
	return &RetrievalService{store: vs, embedder: embedder}
}

// Retrieve returns the k chunk texts most relevant to the question among
// the given documents, most relevant first. An empty document set returns
// an empty result without issuing any embedding call.
func (s *RetrievalService) Retrieve(ctx context.Context, documentIDs []string, question string, k int) ([]string, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, []string{question}, PurposeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	texts, err := s.store.Query(ctx, embeddings[0], documentIDs, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	return texts, nil
}
