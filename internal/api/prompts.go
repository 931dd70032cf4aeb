package api

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/analysis"
	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/session"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

type promptsAPIHandler struct {
	repo      *templates.Repository
	assembler *prompt.Assembler
	prompts   *store.PromptStore
	sessions  *scs.SessionManager
	log       *logger.Logger
}

// generateResponse is the JSON shape for POST /api/prompts.
type generateResponse struct {
	Prompt   prompt.Result   `json:"prompt"`
	Analysis analysis.Report `json:"analysis"`
}

// analyzeRequest is the JSON body for POST /api/prompts/analyze.
type analyzeRequest struct {
	Text              string   `json:"text"`
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
}

type promptListResponse struct {
	Prompts []store.Prompt `json:"prompts"`
	Total   int64          `json:"total"`
}

func registerPromptRoutes(r chi.Router, repo *templates.Repository, asm *prompt.Assembler, prompts *store.PromptStore, sessions *scs.SessionManager, log *logger.Logger) {
	h := &promptsAPIHandler{repo: repo, assembler: asm, prompts: prompts, sessions: sessions, log: log}
	r.Post("/prompts", h.Generate)
	r.Post("/prompts/analyze", h.Analyze)
	r.Get("/prompts", h.List)
	r.Get("/prompts/{id}", h.Get)
}

// Generate assembles a prompt from the requested template, analyzes it and
// keeps it in the session for "save as template".
// POST /api/prompts
func (h *promptsAPIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req prompt.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	rec := h.repo.Resolve(r.Context(), req.TemplateID)
	res, err := h.assembler.Assemble(r.Context(), rec, req)
	switch {
	case errors.Is(err, prompt.ErrMissingKeyword):
		writeError(w, http.StatusBadRequest, "primary keyword is required", "MISSING_KEYWORD")
		return
	case errors.Is(err, prompt.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
		return
	case err != nil:
		h.log.Error("assembling prompt failed", "template", req.TemplateID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if h.sessions != nil {
		session.PutLastPrompt(r.Context(), h.sessions, session.LastPrompt{
			Text:           res.Text,
			TemplateID:     res.TemplateID,
			PrimaryKeyword: res.PrimaryKeyword,
			Category:       res.Category,
		})
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Prompt:   res,
		Analysis: analysis.Analyze(res.Text, req.PrimaryKeyword, req.SecondaryKeywords),
	})
}

// Analyze runs the analyzer over arbitrary text.
// POST /api/prompts/analyze
func (h *promptsAPIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Analyze(req.Text, req.PrimaryKeyword, req.SecondaryKeywords))
}

// List returns the most recent recorded prompts and the total recorded.
// GET /api/prompts?limit=
func (h *promptsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.prompts.RecentPrompts(r.Context(), parseLimit(r, defaultLimit))
	if err != nil {
		h.log.Error("listing prompts failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if prompts == nil {
		prompts = []store.Prompt{}
	}
	total, err := h.prompts.Count(r.Context())
	if err != nil {
		h.log.Error("counting prompts failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, promptListResponse{Prompts: prompts, Total: total})
}

// Get returns one recorded prompt.
// GET /api/prompts/{id}
func (h *promptsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.prompts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prompt not found", "NOT_FOUND")
		return
	}
	if err != nil {
		h.log.Error("loading prompt failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
