package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoContext signals that retrieval found no chunks for the requested
// documents. Callers surface it as a not-found condition.
var ErrNoContext = errors.New("no chunks found for the given document ids")

// TaskMode labels the legal task inside the prompt.
type TaskMode string

const (
	ModeSimplify     TaskMode = "Simplify Language"
	ModeSummary      TaskMode = "Document Summary"
	ModeKeyTerms     TaskMode = "Key Terms Extraction"
	ModeRiskAnalysis TaskMode = "Risk Analysis"
	ModeComparison   TaskMode = "Contract Comparison"
	ModeChat         TaskMode = "Document Q&A"
)

// Canned question per task mode; chat supplies its own.
const (
	simplifyQuestion = "Simplify this legal document and explain the key points in simple language."
	summaryQuestion  = "Summarize this legal document clearly in bullet points and short paragraphs."
	keyTermsQuestion = "Extract and explain the key legal terms, clauses, and obligations in this document."
	riskQuestion     = "Identify potential risks, unfavorable clauses, and points the user should " +
		"negotiate or be careful about in this legal document."
	comparisonQuestion = "Compare these two contracts. Highlight similarities, key differences, risks, " +
		"and which clauses are more favorable to the user in each contract."
)

// Completer is the opaque text-completion service consumed downstream of
// retrieval.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TaskService runs retrieval-grounded legal tasks: it pulls relevant chunks
// for the documents in question, builds the LegalEase prompt and asks the
// LLM for the answer.
type TaskService struct {
	retrieval *RetrievalService
	llm       Completer
}

func NewTaskService(retrieval *RetrievalService, llm Completer) *TaskService {
	return &TaskService{retrieval: retrieval, llm: llm}
}

func (s *TaskService) Simplify(ctx context.Context, documentID, language string) (string, error) {
	return s.run(ctx, ModeSimplify, simplifyQuestion, []string{documentID}, language)
}

func (s *TaskService) Summarize(ctx context.Context, documentID, language string) (string, error) {
	return s.run(ctx, ModeSummary, summaryQuestion, []string{documentID}, language)
}

func (s *TaskService) KeyTerms(ctx context.Context, documentID, language string) (string, error) {
	return s.run(ctx, ModeKeyTerms, keyTermsQuestion, []string{documentID}, language)
}

func (s *TaskService) RiskAnalysis(ctx context.Context, documentID, language string) (string, error) {
	return s.run(ctx, ModeRiskAnalysis, riskQuestion, []string{documentID}, language)
}

func (s *TaskService) Compare(ctx context.Context, documentID1, documentID2, language string) (string, error) {
	return s.run(ctx, ModeComparison, comparisonQuestion, []string{documentID1, documentID2}, language)
}

func (s *TaskService) Chat(ctx context.Context, documentID, question, language string) (string, error) {
	return s.run(ctx, ModeChat, question, []string{documentID}, language)
}

func (s *TaskService) run(ctx context.Context, mode TaskMode, question string, documentIDs []string, language string) (string, error) {
	chunks, err := s.retrieval.Retrieve(ctx, documentIDs, question, DefaultTopK)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoContext
	}

	prompt := buildLegalPrompt(mode, question, chunks, language)

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to run %s task: %w", mode, err)
	}
	return answer, nil
}

// buildLegalPrompt assembles the task prompt: system framing, retrieved
// context separated by "---", then the user request.
func buildLegalPrompt(mode TaskMode, question string, contextChunks []string, outputLanguage string) string {
	if outputLanguage == "" {
		outputLanguage = "English"
	}
	contextText := strings.Join(contextChunks, "\n\n---\n\n")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s.\n", mode)
	fmt.Fprintf(&sb, "Output language: %s.\n\n", outputLanguage)
	fmt.Fprintf(&sb, "Context from documents and legal knowledge:\n%s\n\n", contextText)
	fmt.Fprintf(&sb, "User request:\n%s\n\n", question)
	fmt.Fprintf(&sb, "Answer in %s:\n", outputLanguage)
	return sb.String()
}
