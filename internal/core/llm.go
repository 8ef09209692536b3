package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultTaskModelName      = "gemini-2.0-flash"
	defaultEmbeddingModelName = "text-embedding-004"

	legalSystemInstruction = "You are LegalEase, an AI-powered legal document assistant. " +
		"Explain using clear, non-technical language. " +
		"If something is missing from the provided context, say you are unsure instead of inventing facts."
)

// LLMService wraps the Gemini client for the two remote operations the
// pipeline needs: single-text embeddings and legal task completions.
type LLMService struct {
	client     *genai.Client
	taskModel  string
	embedModel string
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:     client,
		taskModel:  defaultTaskModelName,
		embedModel: defaultEmbeddingModelName,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// EmbedText returns the embedding of a single text. The purpose selects the
// Gemini task type so document chunks and queries are embedded into the same
// retrieval space.
func (s *LLMService) EmbedText(ctx context.Context, text string, purpose Purpose) ([]float32, error) {
	em := s.client.EmbeddingModel(s.embedModel)
	if purpose == PurposeQuery {
		em.TaskType = genai.TaskTypeRetrievalQuery
	} else {
		em.TaskType = genai.TaskTypeRetrievalDocument
	}

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}

// Complete sends a legal task prompt to Gemini and returns the generated
// answer text.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.taskModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(legalSystemInstruction)},
	}
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(2000)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty answer")
	}
	return responseText.String(), nil
}
