package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	lastPrompt string
	answer     string
	err        error
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func newTestTasks(vs *mockVectorStore, llm *mockCompleter) *TaskService {
	retrieval := newTestRetrieval(vs, &mockRemote{dim: 4})
	return NewTaskService(retrieval, llm)
}

func TestTaskNoContextIsNotFound(t *testing.T) {
	vs := newMockVectorStore() // queryTexts empty
	llm := &mockCompleter{answer: "unused"}
	svc := newTestTasks(vs, llm)

	_, err := svc.Summarize(context.Background(), "doc-unknown", "English")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Empty(t, llm.lastPrompt, "LLM must not be called without context")
}

func TestTaskSummaryBuildsPromptFromChunks(t *testing.T) {
	vs := newMockVectorStore()
	vs.queryTexts = []string{"chunk one", "chunk two"}
	llm := &mockCompleter{answer: "a concise summary"}
	svc := newTestTasks(vs, llm)

	answer, err := svc.Summarize(context.Background(), "doc-1", "")
	require.NoError(t, err)
	assert.Equal(t, "a concise summary", answer)

	assert.Contains(t, llm.lastPrompt, string(ModeSummary))
	assert.Contains(t, llm.lastPrompt, "chunk one")
	assert.Contains(t, llm.lastPrompt, "chunk two")
	assert.Contains(t, llm.lastPrompt, "\n\n---\n\n", "chunks are separated in the prompt")
	assert.Contains(t, llm.lastPrompt, "English", "empty language defaults to English")
}

func TestTaskCompareUsesBothDocuments(t *testing.T) {
	vs := newMockVectorStore()
	vs.queryTexts = []string{"clause"}
	llm := &mockCompleter{answer: "comparison"}
	svc := newTestTasks(vs, llm)

	_, err := svc.Compare(context.Background(), "doc-1", "doc-2", "German")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1", "doc-2"}, vs.lastDocIDs)
	assert.Contains(t, llm.lastPrompt, "German")
}

func TestTaskChatUsesFreeFormQuestion(t *testing.T) {
	vs := newMockVectorStore()
	vs.queryTexts = []string{"the deposit is refundable"}
	llm := &mockCompleter{answer: "yes, per section 4"}
	svc := newTestTasks(vs, llm)

	answer, err := svc.Chat(context.Background(), "doc-1", "Is the deposit refundable?", "English")
	require.NoError(t, err)
	assert.Equal(t, "yes, per section 4", answer)
	assert.Contains(t, llm.lastPrompt, "Is the deposit refundable?")
}

func TestBuildLegalPromptLayout(t *testing.T) {
	prompt := buildLegalPrompt(ModeRiskAnalysis, "what are the risks?", []string{"c1", "c2"}, "Spanish")

	// Task header before context, context before the user request.
	taskIdx := strings.Index(prompt, string(ModeRiskAnalysis))
	ctxIdx := strings.Index(prompt, "c1")
	reqIdx := strings.Index(prompt, "what are the risks?")
	require.GreaterOrEqual(t, taskIdx, 0)
	require.Greater(t, ctxIdx, taskIdx)
	require.Greater(t, reqIdx, ctxIdx)
	assert.Contains(t, prompt, "Answer in Spanish:")
}
