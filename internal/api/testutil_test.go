package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/api"
	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
	"github.com/yamala-stream/DashSEO/internal/testutil"
)

// testEnv holds the router and the stores behind it.
type testEnv struct {
	Router    http.Handler
	Templates *templates.Repository
	Prompts   *store.PromptStore
	Keywords  *store.KeywordStore
	cookies   []*http.Cookie
}

// newTestEnv wires the API router over an in-memory SQLite database, a
// temporary template directory and the embedded catalog. Prompts are
// recorded synchronously so they are visible to the next request.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	repo := templates.NewRepository(templates.Options{
		Dir:     t.TempDir(),
		Catalog: templates.DefaultCatalog(),
		Logger:  logger.Nop(),
	})
	prompts := store.NewPromptStore(db)
	keywords := store.NewKeywordStore(db)
	sm := scs.New()

	router := api.NewAPIRouter(api.Deps{
		Templates: repo,
		Assembler: prompt.NewAssembler(prompt.WithRecorder(prompts)),
		Prompts:   prompts,
		Keywords:  keywords,
		Analytics: analytics.NewService(prompts, keywords, repo),
		Sessions:  sm,
	})
	return &testEnv{
		Router:    sm.LoadAndSave(router),
		Templates: repo,
		Prompts:   prompts,
		Keywords:  keywords,
	}
}

// do sends a request with an optional JSON body, carrying the session cookie
// between calls.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
