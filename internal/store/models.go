package store

import "context"

// Uploader types recorded in chunk metadata.
const (
	UploaderAdmin = "admin"
	UploaderUser  = "user"
)

// Metadata keys shared by every chunk. Extra keys (source filename etc.)
// ride along untyped.
const (
	MetaDocumentID   = "document_id"
	MetaDocHash      = "doc_hash"
	MetaChunkIndex   = "chunk_index"
	MetaUploaderType = "uploader_type"
	MetaUploaderID   = "uploader_id"
)

// VectorStore wraps insert/query operations against a vector database,
// partitioned by document identity and deduplicated by content hash.
type VectorStore interface {
	// ExistsByHash reports whether any chunk carries the given doc_hash.
	// Implementations treat lookup failures as "does not exist" so a broken
	// filter never blocks ingestion (fail-open, accepted for this service).
	ExistsByHash(ctx context.Context, docHash string) bool

	// DocumentIDByHash returns the document_id of any chunk with the given
	// doc_hash, or "" if none is found or the lookup fails.
	DocumentIDByHash(ctx context.Context, docHash string) string

	// Insert writes all chunks of one document in a single bulk call.
	// The four slices are parallel and must have equal length.
	Insert(ctx context.Context, ids, texts []string, metadatas []map[string]any, embeddings [][]float32) error

	// Query returns the topK chunk texts most similar to the embedding,
	// restricted to chunks whose document_id is in the given set, most
	// relevant first.
	Query(ctx context.Context, embedding []float32, documentIDs []string, topK int) ([]string, error)

	Close() error
}
