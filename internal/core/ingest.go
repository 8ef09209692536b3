package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/legalease-ai/rag-service/internal/store"
	"github.com/legalease-ai/rag-service/internal/utils"
)

// ErrEmptyDocument rejects blank input before any side effect.
var ErrEmptyDocument = errors.New("document text is empty")

// IngestResult is the only thing callers learn about an ingestion; it never
// exposes chunk-level detail.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	IsNew      bool   `json:"is_new"`
	Message    string `json:"message"`
}

// IngestionService runs hash, duplicate check, chunk, embed and bulk insert
// as one operation per uploaded document.
type IngestionService struct {
	store        store.VectorStore
	embedder     *Embedder
	chunkSize    int
	chunkOverlap int
}

func NewIngestionService(vs store.VectorStore, embedder *Embedder, chunkSize, chunkOverlap int) (*IngestionService, error) {
	if chunkSize <= 0 {
		chunkSize = utils.DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = utils.DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}
	return &IngestionService{
		store:        vs,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// Ingest stores one document. Re-ingesting text whose normalized form is
// already present short-circuits with is_new=false and skips all chunking,
// embedding and insertion.
func (s *IngestionService) Ingest(ctx context.Context, fullText, uploaderType, uploaderID string, extraMetadata map[string]any) (*IngestResult, error) {
	if strings.TrimSpace(fullText) == "" {
		return nil, ErrEmptyDocument
	}

	docHash := utils.DocHash(fullText)

	if s.store.ExistsByHash(ctx, docHash) {
		docID := s.store.DocumentIDByHash(ctx, docHash)
		if docID == "" {
			// Best-effort lookup; synthesize an identifier when it fails.
			docID = uuid.NewString()
		}
		return &IngestResult{
			DocumentID: docID,
			IsNew:      false,
			Message:    "Duplicate document detected; not ingested again.",
		}, nil
	}

	docID := uuid.NewString()

	chunks, err := utils.ChunkText(fullText, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks, PurposeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document chunks: %w", err)
	}

	ids := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i := range chunks {
		ids[i] = fmt.Sprintf("%s_chunk_%d", docID, i)

		meta := map[string]any{
			store.MetaDocumentID:   docID,
			store.MetaDocHash:      docHash,
			store.MetaChunkIndex:   i,
			store.MetaUploaderType: uploaderType,
		}
		if uploaderID != "" {
			meta[store.MetaUploaderID] = uploaderID
		}
		for k, v := range extraMetadata {
			meta[k] = v
		}
		metadatas[i] = meta
	}

	if err := s.store.Insert(ctx, ids, chunks, metadatas, embeddings); err != nil {
		return nil, fmt.Errorf("failed to store document chunks: %w", err)
	}

	return &IngestResult{
		DocumentID: docID,
		IsNew:      true,
		Message:    "Document ingested successfully.",
	}, nil
}
