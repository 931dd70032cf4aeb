package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamala-stream/DashSEO/internal/api"
	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestRouter(t *testing.T, pinger Pinger) http.Handler {
	t.Helper()
	repo := templates.NewRepository(templates.Options{
		Dir:     t.TempDir(),
		Catalog: templates.DefaultCatalog(),
		Logger:  logger.Nop(),
	})
	return NewRouter(Deps{
		SessionManager: scs.New(),
		Pinger:         pinger,
		API:            api.Deps{Templates: repo},
	})
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestRouter(t, fakePinger{}), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthz_DatabaseDown(t *testing.T) {
	rec := serve(newTestRouter(t, fakePinger{err: errors.New("connection refused")}), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	// Listing templates sets the template gauge.
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/templates").Code)

	rec := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "dashseo_templates_total"))
}

func TestAPIMountedUnderPrefix(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, http.MethodGet, "/api/categories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/categories").Code)
}
