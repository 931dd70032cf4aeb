package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Templates *templates.Repository
	Assembler *prompt.Assembler
	Prompts   *store.PromptStore
	Keywords  *store.KeywordStore
	Analytics *analytics.Service
	Sessions  *scs.SessionManager
	Logger    *logger.Logger
}

// NewAPIRouter creates a chi sub-router for /api. Every route returns
// application/json. The caller is expected to wrap it in Sessions.LoadAndSave.
func NewAPIRouter(deps Deps) chi.Router {
	log := logger.OrNop(deps.Logger)

	r := chi.NewRouter()
	r.Use(jsonContentType)

	registerTemplateRoutes(r, deps.Templates, deps.Sessions, log)
	registerCategoryRoutes(r, deps.Templates)
	registerPromptRoutes(r, deps.Templates, deps.Assembler, deps.Prompts, deps.Sessions, log)
	registerKeywordRoutes(r, deps.Keywords, log)
	registerAnalyticsRoutes(r, deps.Analytics)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
