package core

import (
	"context"
	"log"
	"strings"

	"github.com/legalease-ai/rag-service/internal/utils"
)

// Purpose distinguishes document chunks from retrieval queries so backends
// that support task-typed embeddings place both in the same vector space.
type Purpose string

const (
	PurposeDocument Purpose = "document"
	PurposeQuery    Purpose = "query"
)

// RemoteEncoder embeds one text per call against a remote service.
type RemoteEncoder interface {
	EmbedText(ctx context.Context, text string, purpose Purpose) ([]float32, error)
}

// LocalEncoder embeds a batch of texts in one call, all with the same
// dimension.
type LocalEncoder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Cache is a durable text-to-embedding mapping consulted before any backend
// call.
type Cache interface {
	Get(text string) ([]float32, bool, error)
	Put(text string, embedding []float32) error
}

// Embedder converts texts into fixed-dimension vectors: cache first, then a
// local batch backend if configured, then the remote service. Output always
// has the same length and order as the input; failures degrade to zero
// vectors rather than aborting the batch.
type Embedder struct {
	cache   Cache
	local   LocalEncoder
	remote  RemoteEncoder
	limiter *CallLimiter

	localDim  int
	remoteDim int
}

// EmbedderConfig wires an Embedder. Local is optional; Remote and Cache are
// required.
type EmbedderConfig struct {
	Cache     Cache
	Local     LocalEncoder
	Remote    RemoteEncoder
	Limiter   *CallLimiter
	LocalDim  int
	RemoteDim int
}

func NewEmbedder(cfg EmbedderConfig) *Embedder {
	return &Embedder{
		cache:     cfg.Cache,
		local:     cfg.Local,
		remote:    cfg.Remote,
		limiter:   cfg.Limiter,
		localDim:  cfg.LocalDim,
		remoteDim: cfg.RemoteDim,
	}
}

// activeDim is the dimension of the backend that would serve a miss right
// now: the local encoder when configured, the remote service otherwise.
func (e *Embedder) activeDim() int {
	if e.local != nil {
		return e.localDim
	}
	return e.remoteDim
}

// EmbedTexts embeds every input text and returns one vector per input, in
// input order. Blank texts become zero vectors without any lookup or call.
// A cached vector is reused only when its dimension matches the active
// backend's dimension; stale-dimension entries are bypassed, not deleted.
// The only returned error is context cancellation while waiting on the rate
// limiter; every other failure is absorbed into a zero vector.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string, purpose Purpose) ([][]float32, error) {
	dim := e.activeDim()
	results := make([][]float32, len(texts))
	var missIdx []int

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = utils.ZeroVector(dim)
			continue
		}

		cached, ok, err := e.cache.Get(text)
		if err != nil {
			log.Printf("Embedding cache lookup failed, treating as miss: %v", err)
		} else if ok && len(cached) == dim {
			results[i] = cached
			continue
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) == 0 {
		return results, nil
	}

	if e.local != nil {
		missTexts := make([]string, len(missIdx))
		for j, i := range missIdx {
			missTexts[j] = texts[i]
		}

		vectors, err := e.local.EmbedBatch(ctx, missTexts)
		if err == nil {
			for j, i := range missIdx {
				results[i] = vectors[j]
				e.writeBack(texts[i], vectors[j])
			}
			return results, nil
		}

		// The local backend is down: serve the rest of this call remotely
		// and switch the active dimension accordingly.
		log.Printf("Local embedding batch failed, falling back to remote backend: %v", err)
	}

	for _, i := range missIdx {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vector, err := e.remote.EmbedText(ctx, texts[i], purpose)
		if err != nil {
			// Per-text failure is isolated: this text degrades to a zero
			// vector and the batch continues.
			log.Printf("Remote embedding failed for text (%.50s...): %v", texts[i], err)
			results[i] = utils.ZeroVector(e.remoteDim)
			continue
		}
		results[i] = vector
		e.writeBack(texts[i], vector)
	}

	return results, nil
}

func (e *Embedder) writeBack(text string, embedding []float32) {
	if err := e.cache.Put(text, embedding); err != nil {
		log.Printf("Failed to write embedding cache entry: %v", err)
	}
}
