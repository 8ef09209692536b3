package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/legalease-ai/rag-service/internal/auth"
	"github.com/legalease-ai/rag-service/internal/core"
	"github.com/legalease-ai/rag-service/internal/extract"
	"github.com/legalease-ai/rag-service/internal/store"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// Ingestor is the ingestion pipeline consumed by the upload handlers.
type Ingestor interface {
	Ingest(ctx context.Context, fullText, uploaderType, uploaderID string, extraMetadata map[string]any) (*core.IngestResult, error)
}

// TaskRunner is the retrieval-plus-LLM pipeline consumed by the task
// handlers.
type TaskRunner interface {
	Simplify(ctx context.Context, documentID, language string) (string, error)
	Summarize(ctx context.Context, documentID, language string) (string, error)
	KeyTerms(ctx context.Context, documentID, language string) (string, error)
	RiskAnalysis(ctx context.Context, documentID, language string) (string, error)
	Compare(ctx context.Context, documentID1, documentID2, language string) (string, error)
	Chat(ctx context.Context, documentID, question, language string) (string, error)
}

type APIHandler struct {
	ingestor Ingestor
	tasks    TaskRunner
	adminKey string
}

func NewAPIHandler(ingestor Ingestor, tasks TaskRunner, adminKey string) *APIHandler {
	return &APIHandler{ingestor: ingestor, tasks: tasks, adminKey: adminKey}
}

// AdminAuthMiddleware guards admin routes with the X-Admin-Key header.
func (h *APIHandler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.VerifyAdminKey(r.Header.Get("X-Admin-Key"), h.adminKey) {
			http.Error(w, "Invalid or missing admin key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type TextIngestRequest struct {
	Text       string `json:"text"`
	UploaderID string `json:"uploader_id,omitempty"`
}

type GenericResponse struct {
	Result string `json:"result"`
	Note   string `json:"note"`
}

func (h *APIHandler) AdminIngestTextHandler(w http.ResponseWriter, r *http.Request) {
	h.ingestText(w, r, store.UploaderAdmin, map[string]any{"source": "admin_text"})
}

func (h *APIHandler) UserUploadTextHandler(w http.ResponseWriter, r *http.Request) {
	h.ingestText(w, r, store.UploaderUser, map[string]any{"source": "user_text"})
}

func (h *APIHandler) ingestText(w http.ResponseWriter, r *http.Request, uploaderType string, extra map[string]any) {
	var req TextIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), req.Text, uploaderType, req.UploaderID, extra)
	if err != nil {
		h.writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) AdminIngestFileHandler(w http.ResponseWriter, r *http.Request) {
	h.ingestFile(w, r, store.UploaderAdmin, "uploader_id")
}

func (h *APIHandler) UserUploadFileHandler(w http.ResponseWriter, r *http.Request) {
	h.ingestFile(w, r, store.UploaderUser, "user_id")
}

func (h *APIHandler) ingestFile(w http.ResponseWriter, r *http.Request, uploaderType, uploaderField string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "unknown"
	}

	text, err := extract.FromUpload(filename, data)
	if err != nil || strings.TrimSpace(text) == "" {
		http.Error(w, "Could not read any text from uploaded file.", http.StatusBadRequest)
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), text, uploaderType, r.FormValue(uploaderField),
		map[string]any{"source_filename": filename})
	if err != nil {
		h.writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) writeIngestError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrEmptyDocument) {
		http.Error(w, "Document text is empty", http.StatusBadRequest)
		return
	}
	log.Printf("Ingestion failed: %v", err)
	http.Error(w, "Failed to ingest document: "+err.Error(), http.StatusInternalServerError)
}

type TaskRequest struct {
	DocumentID     string `json:"document_id"`
	OutputLanguage string `json:"output_language,omitempty"`
}

func (h *APIHandler) SimplifyHandler(w http.ResponseWriter, r *http.Request) {
	h.runSingleDocTask(w, r, h.tasks.Simplify)
}

func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	h.runSingleDocTask(w, r, h.tasks.Summarize)
}

func (h *APIHandler) KeyTermsHandler(w http.ResponseWriter, r *http.Request) {
	h.runSingleDocTask(w, r, h.tasks.KeyTerms)
}

func (h *APIHandler) RiskAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	h.runSingleDocTask(w, r, h.tasks.RiskAnalysis)
}

func (h *APIHandler) runSingleDocTask(w http.ResponseWriter, r *http.Request, task func(context.Context, string, string) (string, error)) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" {
		http.Error(w, "document_id is required", http.StatusBadRequest)
		return
	}

	answer, err := task(r.Context(), req.DocumentID, req.OutputLanguage)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenericResponse{Result: answer, Note: "Processing complete!"})
}

type CompareRequest struct {
	DocumentID1    string `json:"document_id_1"`
	DocumentID2    string `json:"document_id_2"`
	OutputLanguage string `json:"output_language,omitempty"`
}

func (h *APIHandler) ContractComparisonHandler(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentID1 == "" || req.DocumentID2 == "" {
		http.Error(w, "document_id_1 and document_id_2 are required", http.StatusBadRequest)
		return
	}

	answer, err := h.tasks.Compare(r.Context(), req.DocumentID1, req.DocumentID2, req.OutputLanguage)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenericResponse{Result: answer, Note: "Processing complete!"})
}

type ChatRequest struct {
	DocumentID     string `json:"document_id"`
	Question       string `json:"question"`
	OutputLanguage string `json:"output_language,omitempty"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" || strings.TrimSpace(req.Question) == "" {
		http.Error(w, "document_id and question are required", http.StatusBadRequest)
		return
	}

	answer, err := h.tasks.Chat(r.Context(), req.DocumentID, req.Question, req.OutputLanguage)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenericResponse{Result: answer, Note: "Processing complete!"})
}

func (h *APIHandler) writeTaskError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNoContext) {
		http.Error(w, "No chunks found for this document_id.", http.StatusNotFound)
		return
	}
	log.Printf("Task failed: %v", err)
	http.Error(w, "Failed to process task: "+err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
