package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/legalease-ai/rag-service/internal/utils"
)

// EmbeddingCache is a durable mapping from the SHA-256 of raw text to its
// embedding vector. It is append-only from the pipeline's perspective: no
// eviction, no TTL. Concurrent writers may race; the same key carries an
// equivalent value so the last writer winning is harmless.
type EmbeddingCache struct {
	db *sql.DB
}

func NewEmbeddingCache(dataSourceName string) (*EmbeddingCache, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS embedding_cache (
        text_hash TEXT PRIMARY KEY,
        embedding_json TEXT NOT NULL
    );
    `
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &EmbeddingCache{db: db}, nil
}

func (c *EmbeddingCache) Close() error {
	return c.db.Close()
}

// Get returns the cached embedding for the exact text, or ok=false if
// absent. The key hashes the raw text, not the normalized form, so it is
// independent of document-level normalization.
func (c *EmbeddingCache) Get(text string) ([]float32, bool, error) {
	var embJSON string
	err := c.db.QueryRow("SELECT embedding_json FROM embedding_cache WHERE text_hash = ?", utils.TextHash(text)).Scan(&embJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query embedding cache: %w", err)
	}

	var emb []float32
	if err := json.Unmarshal([]byte(embJSON), &emb); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}
	return emb, true, nil
}

// Put stores the embedding for the exact text, overwriting any previous
// entry for the same text.
func (c *EmbeddingCache) Put(text string, embedding []float32) error {
	embJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT INTO embedding_cache (text_hash, embedding_json) VALUES (?, ?) ON CONFLICT(text_hash) DO UPDATE SET embedding_json = excluded.embedding_json",
		utils.TextHash(text), string(embJSON))
	if err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}
	return nil
}
