package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamala-stream/DashSEO/internal/analysis"
	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

type promptList struct {
	Prompts []store.Prompt `json:"prompts"`
	Total   int64          `json:"total"`
}

type generated struct {
	Prompt   prompt.Result   `json:"prompt"`
	Analysis analysis.Report `json:"analysis"`
}

func TestPrompts_Generate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{
		TemplateID:        "ai_in_business",
		PrimaryKeyword:    "AI chatbots",
		SecondaryKeywords: []string{"automation", "support"},
		TargetAudience:    "Founders",
		Fields: []prompt.FieldValue{
			{Name: "industry", Value: "Retail"},
		},
		Flags: prompt.Flags{FAQ: true, MetaTags: true},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[generated](t, rec)
	assert.Equal(t, "ai_in_business", got.Prompt.TemplateID)
	assert.Equal(t, "Business", got.Prompt.Category)
	assert.Equal(t, "automation, support", got.Prompt.SecondaryText)
	assert.Contains(t, got.Prompt.Text, "AI chatbots")
	assert.Contains(t, got.Prompt.Text, "Retail")
	assert.NotContains(t, got.Prompt.Text, "{primary_keyword}")
	assert.Positive(t, got.Analysis.KeywordCount)
	assert.NotEmpty(t, got.Analysis.Checklist)
}

func TestPrompts_GenerateMissingKeyword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{TemplateID: "default"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_KEYWORD", decode[errorResponse](t, rec).Code)

	count, err := env.Prompts.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is recorded for a rejected request")
}

func TestPrompts_GenerateInvalidRequest(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{PrimaryKeyword: "SEO", WordCount: -1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[errorResponse](t, rec).Code)
}

func TestPrompts_GenerateRecordsUsage(t *testing.T) {
	env := newTestEnv(t)
	for _, kw := range []string{"SEO", "SEO", "AI"} {
		rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{
			TemplateID:        "default",
			PrimaryKeyword:    kw,
			SecondaryKeywords: []string{"growth"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/prompts?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[promptList](t, rec)
	assert.Len(t, list.Prompts, 2)
	assert.EqualValues(t, 3, list.Total)

	rec = env.do(t, http.MethodGet, "/keywords", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	kws := decode[struct {
		Keywords []store.Keyword `json:"keywords"`
	}](t, rec)
	require.Len(t, kws.Keywords, 2)
	assert.Equal(t, "SEO", kws.Keywords[0].Keyword)
	assert.Equal(t, 2, kws.Keywords[0].UsageCount)

	rec = env.do(t, http.MethodGet, "/keywords?type=secondary", nil)
	kws = decode[struct {
		Keywords []store.Keyword `json:"keywords"`
	}](t, rec)
	require.Len(t, kws.Keywords, 1)
	assert.Equal(t, 3, kws.Keywords[0].UsageCount)

	rec = env.do(t, http.MethodGet, "/analytics/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[analytics.Metrics](t, rec)
	assert.Equal(t, 3, m.TotalPrompts)
	assert.Equal(t, 2, m.UniqueKeywords)
	assert.Equal(t, 1, m.Categories)
}

func TestPrompts_GenerateFromLegacyTemplate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPut, "/templates/legacy_one", templates.Record{
		Name: "Legacy One",
		Body: "Hello {{name}}, keyword {{primary_keyword}}",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/prompts", prompt.Request{
		TemplateID:     "legacy_one",
		PrimaryKeyword: "SEO",
		Fields:         []prompt.FieldValue{{Name: "name", Value: "Sam"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[generated](t, rec)
	assert.Equal(t, "Hello Sam, keyword SEO"+prompt.SocialMediaBlock, got.Prompt.Text)
}

func TestPrompts_GenerateEmptyReservedField(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{
		TemplateID:     "default",
		PrimaryKeyword: "SEO",
		Fields:         []prompt.FieldValue{{Name: "primary_keyword", Value: ""}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, decode[generated](t, rec).Prompt.Text, "{primary_keyword}")
}

func TestPrompts_Get(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts", prompt.Request{TemplateID: "default", PrimaryKeyword: "SEO"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/prompts", nil)
	list := decode[promptList](t, rec)
	require.Len(t, list.Prompts, 1)
	id := list.Prompts[0].ID

	rec = env.do(t, http.MethodGet, "/prompts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[store.Prompt](t, rec)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "SEO", got.PrimaryKeyword)

	rec = env.do(t, http.MethodGet, "/prompts/no-such-prompt", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, rec).Code)
}

func TestPrompts_Analyze(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/prompts/analyze", map[string]any{
		"text":            "Intro\n## SEO basics\nSEO is search engine optimization.",
		"primary_keyword": "SEO",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[analysis.Report](t, rec)
	assert.Equal(t, 2, got.KeywordCount)
	assert.Equal(t, []string{"SEO basics"}, got.Headings)
}

func TestKeywords_BadType(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/keywords?type=tertiary", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeywords_CreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/keywords", map[string]string{
		"keyword":  "  edge AI ",
		"type":     "secondary",
		"category": "Technical",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[store.Keyword](t, rec)
	assert.Equal(t, "edge AI", created.Keyword)
	assert.Equal(t, store.KeywordSecondary, created.Type)
	assert.Equal(t, "manual", created.Source)
	assert.Zero(t, created.UsageCount)

	rec = env.do(t, http.MethodPost, "/keywords", map[string]string{"keyword": "edge AI", "type": "secondary"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, created.ID, decode[store.Keyword](t, rec).ID, "adding twice returns the stored row")

	rec = env.do(t, http.MethodGet, "/keywords?type=secondary", nil)
	kws := decode[struct {
		Keywords []store.Keyword `json:"keywords"`
	}](t, rec)
	require.Len(t, kws.Keywords, 1)

	rec = env.do(t, http.MethodDelete, "/keywords/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/keywords/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, rec).Code)
}

func TestKeywords_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/keywords", map[string]string{"keyword": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/keywords", map[string]string{"keyword": "SEO", "type": "tertiary"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/keywords", map[string]string{"keyword": "SEO"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, store.KeywordPrimary, decode[store.Keyword](t, rec).Type)
}

func TestAnalytics_EmptyReports(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/analytics/metrics",
		"/analytics/prompts-per-day",
		"/analytics/categories",
		"/analytics/recent",
		"/analytics/templates",
		"/analytics/templates/usage",
		"/analytics/templates/per-day",
		"/analytics/keywords/top",
		"/analytics/keywords/categories",
		"/analytics/keywords/trends",
	} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEqual(t, "null\n", rec.Body.String(), path)
	}
}
