package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User uploads need no credentials.
		r.Route("/user", func(r chi.Router) {
			r.Post("/upload-file", apiHandler.UserUploadFileHandler)
			r.Post("/upload-text", apiHandler.UserUploadTextHandler)
		})

		// Admin ingestion behind the X-Admin-Key header.
		r.Route("/admin", func(r chi.Router) {
			r.Use(apiHandler.AdminAuthMiddleware)
			r.Post("/ingest-file", apiHandler.AdminIngestFileHandler)
			r.Post("/ingest-text", apiHandler.AdminIngestTextHandler)
		})

		// Legal tasks over previously ingested documents.
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/simplify", apiHandler.SimplifyHandler)
			r.Post("/summary", apiHandler.SummaryHandler)
			r.Post("/key-terms", apiHandler.KeyTermsHandler)
			r.Post("/risk-analysis", apiHandler.RiskAnalysisHandler)
			r.Post("/contract-comparison", apiHandler.ContractComparisonHandler)
			r.Post("/chat", apiHandler.ChatHandler)
		})
	})

	return r
}
