package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yamala-stream/DashSEO/internal/analytics"
)

// registerAnalyticsRoutes mounts the dashboard reports under /analytics.
func registerAnalyticsRoutes(r chi.Router, svc *analytics.Service) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/metrics", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.Metrics(ctx)
		}))
		r.Get("/prompts-per-day", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.PromptsPerDay(ctx)
		}))
		r.Get("/categories", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.CategoryDistribution(ctx)
		}))
		r.Get("/recent", report(func(ctx context.Context, r *http.Request) (any, error) {
			return svc.RecentPrompts(ctx, parseLimit(r, 10))
		}))
		r.Get("/templates", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.TemplateMetrics(ctx)
		}))
		r.Get("/templates/usage", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.TemplateUsage(ctx)
		}))
		r.Get("/templates/per-day", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.TemplatesPerDay(ctx)
		}))
		r.Get("/keywords/top", report(func(ctx context.Context, r *http.Request) (any, error) {
			return svc.TopKeywords(ctx, parseLimit(r, 10))
		}))
		r.Get("/keywords/categories", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.KeywordCategories(ctx)
		}))
		r.Get("/keywords/trends", report(func(ctx context.Context, _ *http.Request) (any, error) {
			return svc.KeywordTrends(ctx)
		}))
	})
}

// report adapts an analytics query to a handler.
func report(fn func(ctx context.Context, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.Context(), r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
