package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ChromaStore is a minimal REST client for a Chroma Cloud collection.
// It implements VectorStore over the v2 HTTP API, assuming equality and
// set-membership filters over chunk metadata.
type ChromaStore struct {
	baseURL      string
	apiKey       string
	tenant       string
	database     string
	collectionID string
	client       *http.Client
}

// ChromaConfig configures the Chroma Cloud client.
type ChromaConfig struct {
	BaseURL    string // default https://api.trychroma.com
	APIKey     string
	Tenant     string
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewChromaStore connects to Chroma Cloud and resolves (or creates) the
// configured collection.
func NewChromaStore(ctx context.Context, cfg ChromaConfig) (*ChromaStore, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.trychroma.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.APIKey == "" || cfg.Tenant == "" || cfg.Database == "" {
		return nil, fmt.Errorf("chroma api key, tenant and database are required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "legalease_docs"
	}

	s := &ChromaStore{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		tenant:   cfg.Tenant,
		database: cfg.Database,
		client:   &http.Client{Timeout: cfg.Timeout},
	}

	var created struct {
		ID string `json:"id"`
	}
	body := map[string]any{
		"name":          cfg.Collection,
		"get_or_create": true,
	}
	if err := s.postJSON(ctx, s.databaseURL()+"/collections", body, &created); err != nil {
		return nil, fmt.Errorf("failed to open chroma collection %q: %w", cfg.Collection, err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("chroma returned no collection id for %q", cfg.Collection)
	}
	s.collectionID = created.ID
	return s, nil
}

func (s *ChromaStore) databaseURL() string {
	return fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s", s.baseURL, s.tenant, s.database)
}

func (s *ChromaStore) collectionURL() string {
	return s.databaseURL() + "/collections/" + s.collectionID
}

func (s *ChromaStore) ExistsByHash(ctx context.Context, docHash string) bool {
	var out struct {
		IDs []string `json:"ids"`
	}
	body := map[string]any{
		"where":   map[string]any{MetaDocHash: map[string]any{"$eq": docHash}},
		"limit":   1,
		"include": []string{},
	}
	if err := s.postJSON(ctx, s.collectionURL()+"/get", body, &out); err != nil {
		// Fail open: a broken existence check must not block ingestion.
		log.Printf("chroma existence check failed for hash %s: %v", docHash, err)
		return false
	}
	return len(out.IDs) > 0
}

func (s *ChromaStore) DocumentIDByHash(ctx context.Context, docHash string) string {
	var out struct {
		IDs       []string         `json:"ids"`
		Metadatas []map[string]any `json:"metadatas"`
	}
	body := map[string]any{
		"where":   map[string]any{MetaDocHash: map[string]any{"$eq": docHash}},
		"limit":   1,
		"include": []string{"metadatas"},
	}
	if err := s.postJSON(ctx, s.collectionURL()+"/get", body, &out); err != nil {
		log.Printf("chroma document id lookup failed for hash %s: %v", docHash, err)
		return ""
	}
	if len(out.Metadatas) == 0 {
		return ""
	}
	id, _ := out.Metadatas[0][MetaDocumentID].(string)
	return id
}

func (s *ChromaStore) Insert(ctx context.Context, ids, texts []string, metadatas []map[string]any, embeddings [][]float32) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) || len(ids) != len(embeddings) {
		return fmt.Errorf("insert slices must have equal length")
	}
	body := map[string]any{
		"ids":        ids,
		"documents":  texts,
		"metadatas":  metadatas,
		"embeddings": embeddings,
	}
	if err := s.postJSON(ctx, s.collectionURL()+"/add", body, nil); err != nil {
		return fmt.Errorf("chroma insert failed: %w", err)
	}
	return nil
}

func (s *ChromaStore) Query(ctx context.Context, embedding []float32, documentIDs []string, topK int) ([]string, error) {
	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        topK,
		"where":            map[string]any{MetaDocumentID: map[string]any{"$in": documentIDs}},
		"include":          []string{"documents"},
	}
	var out struct {
		Documents [][]string `json:"documents"`
	}
	if err := s.postJSON(ctx, s.collectionURL()+"/query", body, &out); err != nil {
		return nil, fmt.Errorf("chroma query failed: %w", err)
	}
	if len(out.Documents) == 0 {
		return nil, nil
	}
	return out.Documents[0], nil
}

func (s *ChromaStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *ChromaStore) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Chroma-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma POST %s: %s: %s", url, resp.Status, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
