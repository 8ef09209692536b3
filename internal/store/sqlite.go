package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/legalease-ai/rag-service/internal/utils"
)

// SQLiteStore is a self-contained VectorStore for single-node deployments
// and local development. Chunks and their embeddings live in one SQLite
// table; similarity ranking runs in process with cosine similarity over the
// candidate document set.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chunks (
        id TEXT PRIMARY KEY, -- "{document_id}_chunk_{index}"
        document_id TEXT NOT NULL,
        doc_hash TEXT NOT NULL,
        chunk_index INTEGER NOT NULL,
        text TEXT NOT NULL,
        metadata_json TEXT NOT NULL,
        embedding_json TEXT NOT NULL -- JSON array of float32
    );

    CREATE INDEX IF NOT EXISTS idx_chunks_doc_hash ON chunks (doc_hash);
    CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks (document_id);
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ExistsByHash(ctx context.Context, docHash string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM chunks WHERE doc_hash = ? LIMIT 1", docHash).Scan(&one)
	if err != nil {
		if err != sql.ErrNoRows {
			// Fail open, matching the cloud gateway.
			log.Printf("sqlite existence check failed for hash %s: %v", docHash, err)
		}
		return false
	}
	return true
}

func (s *SQLiteStore) DocumentIDByHash(ctx context.Context, docHash string) string {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT document_id FROM chunks WHERE doc_hash = ? LIMIT 1", docHash).Scan(&id)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("sqlite document id lookup failed for hash %s: %v", docHash, err)
		}
		return ""
	}
	return id
}

func (s *SQLiteStore) Insert(ctx context.Context, ids, texts []string, metadatas []map[string]any, embeddings [][]float32) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) || len(ids) != len(embeddings) {
		return fmt.Errorf("insert slices must have equal length")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (id, document_id, doc_hash, chunk_index, text, metadata_json, embedding_json) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range ids {
		meta := metadatas[i]
		docID, _ := meta[MetaDocumentID].(string)
		docHash, _ := meta[MetaDocHash].(string)
		chunkIndex, _ := meta[MetaChunkIndex].(int)

		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for chunk %s: %w", ids[i], err)
		}
		embJSON, err := json.Marshal(embeddings[i])
		if err != nil {
			return fmt.Errorf("failed to marshal embedding for chunk %s: %w", ids[i], err)
		}

		if _, err := stmt.ExecContext(ctx, ids[i], docID, docHash, chunkIndex, texts[i], string(metaJSON), string(embJSON)); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", ids[i], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk insert: %w", err)
	}
	return nil
}

type scoredChunk struct {
	text       string
	similarity float32
}

func (s *SQLiteStore) Query(ctx context.Context, embedding []float32, documentIDs []string, topK int) ([]string, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(documentIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT text, embedding_json FROM chunks WHERE document_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var scored []scoredChunk
	for rows.Next() {
		var text, embJSON string
		if err := rows.Scan(&text, &embJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		var emb []float32
		if err := json.Unmarshal([]byte(embJSON), &emb); err != nil {
			log.Printf("Warning: failed to unmarshal embedding for chunk (text: %.50s...): %v. Skipping.", text, err)
			continue
		}

		sim, err := utils.CosineSimilarity(embedding, emb)
		if err != nil {
			log.Printf("Error calculating similarity for chunk (text: %.50s...): %v. Skipping.", text, err)
			continue
		}
		scored = append(scored, scoredChunk{text: text, similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunk rows: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	texts := make([]string, 0, topK)
	for _, sc := range scored[:topK] {
		texts = append(texts, sc.text)
	}
	return texts, nil
}
