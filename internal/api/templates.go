package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/metrics"
	"github.com/yamala-stream/DashSEO/internal/session"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

type templatesAPIHandler struct {
	repo     *templates.Repository
	sessions *scs.SessionManager
	log      *logger.Logger
}

// templateResponse is a resolved template with every placeholder described.
type templateResponse struct {
	templates.Record
	IsBuiltin  bool     `json:"is_builtin"`
	FieldOrder []string `json:"field_order"`
}

type templateListResponse struct {
	Templates []templates.Summary `json:"templates"`
}

// saveFromPromptRequest names the template created from the session's last prompt.
type saveFromPromptRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Intent   string `json:"intent"`
	Tone     string `json:"tone"`
}

type savedResponse struct {
	ID string `json:"id"`
}

func registerTemplateRoutes(r chi.Router, repo *templates.Repository, sessions *scs.SessionManager, log *logger.Logger) {
	h := &templatesAPIHandler{repo: repo, sessions: sessions, log: log}
	r.Get("/templates", h.List)
	// from-last-prompt MUST be registered before /{id}
	r.Post("/templates/from-last-prompt", h.SaveFromLastPrompt)
	r.Get("/templates/{id}", h.Get)
	r.Put("/templates/{id}", h.Put)
	r.Delete("/templates/{id}", h.Delete)
}

// List returns every visible template, or a fuzzy match on ?q=.
// GET /api/templates
func (h *templatesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	var list []templates.Summary
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		list = h.repo.Search(r.Context(), q)
	} else {
		list = h.repo.List(r.Context())
		metrics.TemplatesTotal.Set(float64(len(list)))
	}
	if list == nil {
		list = []templates.Summary{}
	}
	writeJSON(w, http.StatusOK, templateListResponse{Templates: list})
}

// Get resolves a template. Unknown ids resolve to the fallback template.
// GET /api/templates/{id}
func (h *templatesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec := templates.WithDerivedFields(h.repo.Resolve(r.Context(), chi.URLParam(r, "id")))
	writeJSON(w, http.StatusOK, templateResponse{
		Record:     rec,
		IsBuiltin:  rec.IsBuiltin(),
		FieldOrder: templates.FieldOrder(rec),
	})
}

// Put stores a template under {id}.
// PUT /api/templates/{id}
func (h *templatesAPIHandler) Put(w http.ResponseWriter, r *http.Request) {
	var rec templates.Record
	if !decodeJSON(w, r, &rec) {
		return
	}
	id := chi.URLParam(r, "id")
	h.save(w, r, id, rec, http.StatusOK)
}

func (h *templatesAPIHandler) save(w http.ResponseWriter, r *http.Request, id string, rec templates.Record, status int) {
	ok, err := h.repo.Save(r.Context(), id, rec)
	switch {
	case errors.Is(err, templates.ErrInvalidID):
		metrics.TemplateWritesTotal.WithLabelValues("save", "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_ID")
	case errors.Is(err, templates.ErrInvalidRecord):
		metrics.TemplateWritesTotal.WithLabelValues("save", "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_RECORD")
	case err != nil:
		metrics.TemplateWritesTotal.WithLabelValues("save", "error").Inc()
		h.log.Error("saving template failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	case !ok:
		metrics.TemplateWritesTotal.WithLabelValues("save", "refused").Inc()
		writeError(w, http.StatusForbidden, "built-in templates cannot be modified", "IMMUTABLE_TEMPLATE")
	default:
		metrics.TemplateWritesTotal.WithLabelValues("save", "ok").Inc()
		writeJSON(w, status, savedResponse{ID: id})
	}
}

// Delete removes a stored template.
// DELETE /api/templates/{id}
func (h *templatesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.repo.Catalog().IsBuiltin(id) {
		metrics.TemplateWritesTotal.WithLabelValues("delete", "refused").Inc()
		writeError(w, http.StatusForbidden, "built-in templates cannot be deleted", "IMMUTABLE_TEMPLATE")
		return
	}
	ok, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		metrics.TemplateWritesTotal.WithLabelValues("delete", "error").Inc()
		h.log.Error("deleting template failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if !ok {
		metrics.TemplateWritesTotal.WithLabelValues("delete", "missing").Inc()
		writeError(w, http.StatusNotFound, "template not found", "NOT_FOUND")
		return
	}
	metrics.TemplateWritesTotal.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SaveFromLastPrompt turns the session's last generated prompt into a stored
// template. Placeholders left in the text become fields.
// POST /api/templates/from-last-prompt
func (h *templatesAPIHandler) SaveFromLastPrompt(w http.ResponseWriter, r *http.Request) {
	last, ok := session.GetLastPrompt(r.Context(), h.sessions)
	if !ok {
		writeError(w, http.StatusNotFound, "no prompt has been generated in this session", "NO_LAST_PROMPT")
		return
	}
	var req saveFromPromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}
	id := templates.DeriveID(name)

	body, fields, _ := templates.Extract(last.Text)
	rec := templates.Record{
		Name:     name,
		Category: req.Category,
		Intent:   req.Intent,
		Tone:     req.Tone,
		Body:     body,
		Fields:   fields,
	}
	if rec.Category == "" {
		rec.Category = last.Category
	}
	h.save(w, r, id, rec, http.StatusCreated)
}
