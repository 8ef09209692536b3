package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/legalease-ai/rag-service/internal/api"
	"github.com/legalease-ai/rag-service/internal/config"
	"github.com/legalease-ai/rag-service/internal/core"
	"github.com/legalease-ai/rag-service/internal/extract"
	"github.com/legalease-ai/rag-service/internal/store"
)

func main() {
	cfg := config.Load()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Command line flag for one-shot local ingestion
	ingestPath := flag.String("ingest", "", "Ingest a local document file as admin and exit")
	flag.Parse()

	// Embedding cache
	cache, err := store.NewEmbeddingCache(cfg.CachePath)
	if err != nil {
		log.Fatalf("Failed to open embedding cache: %v", err)
	}
	defer cache.Close()

	// Vector store
	vectorStore, err := openVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close()

	// Remote LLM + embedding service
	llmService, err := core.NewLLMService(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM service: %v", err)
	}
	defer llmService.Close()

	// Optional local embedding backend
	var local core.LocalEncoder
	if cfg.OllamaBaseURL != "" {
		local = core.NewOllamaEncoder(core.OllamaConfig{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
		})
		log.Printf("Local embedding backend enabled: %s (%s)", cfg.OllamaBaseURL, cfg.OllamaModel)
	}

	embedder := core.NewEmbedder(core.EmbedderConfig{
		Cache:     cache,
		Local:     local,
		Remote:    llmService,
		Limiter:   core.NewCallLimiter(cfg.EmbedCallsPerMinute),
		LocalDim:  cfg.LocalEmbedDim,
		RemoteDim: cfg.RemoteEmbedDim,
	})

	ingestService, err := core.NewIngestionService(vectorStore, embedder, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to initialize ingestion service: %v", err)
	}

	// Handle one-shot ingestion if the flag is set
	if *ingestPath != "" {
		data, err := os.ReadFile(*ingestPath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *ingestPath, err)
		}
		text, err := extract.FromUpload(filepath.Base(*ingestPath), data)
		if err != nil {
			log.Fatalf("Failed to extract text from %s: %v", *ingestPath, err)
		}
		result, err := ingestService.Ingest(context.Background(), text, store.UploaderAdmin, "",
			map[string]any{"source_filename": filepath.Base(*ingestPath)})
		if err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		log.Printf("Ingestion complete: document_id=%s is_new=%t. Exiting.", result.DocumentID, result.IsNew)
		os.Exit(0)
	}

	retrievalService := core.NewRetrievalService(vectorStore, embedder)
	taskService := core.NewTaskService(retrievalService, llmService)

	apiHandler := api.NewAPIHandler(ingestService, taskService, cfg.AdminAPIKey)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // embedding + LLM calls can be slow behind the rate limiter
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}

func openVectorStore(cfg config.Config) (store.VectorStore, error) {
	switch cfg.VectorBackend {
	case config.BackendSQLite:
		log.Printf("Using SQLite vector store at %s", cfg.SQLitePath)
		return store.NewSQLiteStore(cfg.SQLitePath)
	case config.BackendChroma:
		log.Printf("Using Chroma Cloud collection %q", cfg.ChromaCollection)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return store.NewChromaStore(ctx, store.ChromaConfig{
			APIKey:     cfg.ChromaAPIKey,
			Tenant:     cfg.ChromaTenant,
			Database:   cfg.ChromaDatabase,
			Collection: cfg.ChromaCollection,
		})
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
