package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Vector store backends.
const (
	BackendChroma = "chroma"
	BackendSQLite = "sqlite"
)

type Config struct {
	GeminiAPIKey string
	AdminAPIKey  string
	HTTPPort     string

	VectorBackend    string
	ChromaAPIKey     string
	ChromaTenant     string
	ChromaDatabase   string
	ChromaCollection string
	SQLitePath       string

	CachePath string

	ChunkSize    int
	ChunkOverlap int

	EmbedCallsPerMinute int
	RemoteEmbedDim      int

	// Local embedding backend; disabled when OllamaBaseURL is empty.
	OllamaBaseURL string
	OllamaModel   string
	LocalEmbedDim int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		AdminAPIKey:  getEnv("ADMIN_API_KEY", ""),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),

		VectorBackend:    getEnv("VECTOR_BACKEND", BackendChroma),
		ChromaAPIKey:     getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:     getEnv("CHROMA_TENANT", ""),
		ChromaDatabase:   getEnv("CHROMA_DATABASE", ""),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "legalease_docs"),
		SQLitePath:       getEnv("SQLITE_PATH", "legalease.db"),

		CachePath: getEnv("EMBEDDING_CACHE_PATH", "embedding_cache.db"),

		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),

		EmbedCallsPerMinute: getEnvAsInt("EMBED_CALLS_PER_MINUTE", 3),
		RemoteEmbedDim:      getEnvAsInt("REMOTE_EMBED_DIM", 768),

		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", ""),
		OllamaModel:   getEnv("OLLAMA_MODEL", "nomic-embed-text"),
		LocalEmbedDim: getEnvAsInt("LOCAL_EMBED_DIM", 768),
	}

	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
	if cfg.AdminAPIKey == "" {
		log.Fatal("ADMIN_API_KEY environment variable is required")
	}
	if cfg.VectorBackend == BackendChroma {
		if cfg.ChromaAPIKey == "" || cfg.ChromaTenant == "" || cfg.ChromaDatabase == "" {
			log.Fatal("Chroma env vars missing (CHROMA_API_KEY, CHROMA_TENANT, CHROMA_DATABASE); set VECTOR_BACKEND=sqlite for a local store")
		}
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
