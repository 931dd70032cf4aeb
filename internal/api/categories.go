package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/templates"
)

type categoryListResponse struct {
	Categories []templates.Category `json:"categories"`
}

func registerCategoryRoutes(r chi.Router, repo *templates.Repository) {
	r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, categoryListResponse{Categories: repo.Categories(r.Context())})
	})
	// An unknown category is an empty group, not an error.
	r.Get("/categories/{id}/templates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, repo.ListByCategory(r.Context(), chi.URLParam(r, "id")))
	})
}
