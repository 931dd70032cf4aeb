package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/store"
)

type keywordsAPIHandler struct {
	keywords *store.KeywordStore
	log      *logger.Logger
}

type keywordListResponse struct {
	Keywords []*store.Keyword `json:"keywords"`
}

// createKeywordRequest is the JSON body for POST /api/keywords.
type createKeywordRequest struct {
	Keyword  string `json:"keyword"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

func registerKeywordRoutes(r chi.Router, keywords *store.KeywordStore, log *logger.Logger) {
	h := &keywordsAPIHandler{keywords: keywords, log: log}
	r.Get("/keywords", h.List)
	r.Post("/keywords", h.Create)
	r.Delete("/keywords/{id}", h.Delete)
}

func validKeywordType(typ string) bool {
	return typ == store.KeywordPrimary || typ == store.KeywordSecondary
}

// List returns keywords of one type, most used first.
// GET /api/keywords?type=primary|secondary
func (h *keywordsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	if typ == "" {
		typ = store.KeywordPrimary
	}
	if !validKeywordType(typ) {
		writeError(w, http.StatusBadRequest, "type must be primary or secondary", "BAD_REQUEST")
		return
	}
	list, err := h.keywords.ListByType(r.Context(), typ)
	if err != nil {
		h.log.Error("listing keywords failed", "type", typ, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list keywords", "INTERNAL_ERROR")
		return
	}
	if list == nil {
		list = []*store.Keyword{}
	}
	writeJSON(w, http.StatusOK, keywordListResponse{Keywords: list})
}

// Create registers a keyword without counting a use. Adding a keyword that
// already exists returns the stored row.
// POST /api/keywords
func (h *keywordsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createKeywordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required", "BAD_REQUEST")
		return
	}
	if req.Type == "" {
		req.Type = store.KeywordPrimary
	}
	if !validKeywordType(req.Type) {
		writeError(w, http.StatusBadRequest, "type must be primary or secondary", "BAD_REQUEST")
		return
	}

	k, err := h.keywords.Add(r.Context(), req.Keyword, req.Type, req.Category, "manual")
	if err != nil {
		h.log.Error("adding keyword failed", "keyword", req.Keyword, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to add keyword", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, k)
}

// Delete removes a keyword and its usage count.
// DELETE /api/keywords/{id}
func (h *keywordsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.keywords.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "keyword not found", "NOT_FOUND")
		return
	}
	if err != nil {
		h.log.Error("deleting keyword failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete keyword", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
