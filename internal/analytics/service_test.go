package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
	"github.com/yamala-stream/DashSEO/internal/testutil"
)

type staticTemplates []templates.Summary

func (s staticTemplates) List(context.Context) []templates.Summary { return s }

var now = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

func seed(t *testing.T, ps *store.PromptStore, events []store.PromptEvent) {
	t.Helper()
	for _, e := range events {
		if e.PromptText == "" {
			e.PromptText = "prompt"
		}
		require.NoError(t, ps.RecordPrompt(context.Background(), e))
	}
}

func newService(t *testing.T) (*analytics.Service, *store.PromptStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ps := store.NewPromptStore(db)
	ks := store.NewKeywordStore(db)
	tpl := staticTemplates{{ID: "beginner_guides", Name: "Beginner Guides"}}
	svc := analytics.NewService(ps, ks, tpl).WithClock(func() time.Time { return now })
	return svc, ps
}

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func TestMetrics_Empty(t *testing.T) {
	svc, _ := newService(t)
	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, analytics.Metrics{}, m)
}

func TestMetrics(t *testing.T) {
	svc, ps := newService(t)
	seed(t, ps, []store.PromptEvent{
		{TemplateID: "a", PrimaryKeyword: "AI", Category: "Business", CreatedAt: daysAgo(1)},
		{TemplateID: "a", PrimaryKeyword: "AI", Category: "Business", CreatedAt: daysAgo(2)},
		{TemplateID: "a", PrimaryKeyword: "NLP", Category: "Technical", CreatedAt: daysAgo(3)},
		{TemplateID: "b", PrimaryKeyword: "ML", Category: "Business", CreatedAt: daysAgo(10)},
		{TemplateID: "b", PrimaryKeyword: "ML", Category: "Business", CreatedAt: daysAgo(30)},
	})

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, m.TotalPrompts)
	assert.Equal(t, 3, m.UniqueKeywords)
	assert.Equal(t, 2, m.Categories)
	assert.InDelta(t, 200.0, m.WeeklyTrend, 1e-9, "3 this week vs 1 the week before")
}

func TestPromptsPerDayAndCategories(t *testing.T) {
	svc, ps := newService(t)
	seed(t, ps, []store.PromptEvent{
		{TemplateID: "a", PrimaryKeyword: "AI", Category: "Business", CreatedAt: daysAgo(1)},
		{TemplateID: "a", PrimaryKeyword: "AI", Category: "Technical", CreatedAt: daysAgo(1).Add(time.Minute)},
		{TemplateID: "b", PrimaryKeyword: "ML", Category: "Business", CreatedAt: daysAgo(2)},
	})
	ctx := context.Background()

	perDay, err := svc.PromptsPerDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, []analytics.DayCount{
		{Date: "2026-10-16", Count: 1},
		{Date: "2026-10-17", Count: 2},
	}, perDay)

	cats, err := svc.CategoryDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []analytics.CategoryCount{
		{Category: "Business", Count: 2},
		{Category: "Technical", Count: 1},
	}, cats)

	perTemplate, err := svc.TemplatesPerDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, []analytics.TemplateDayCount{
		{Date: "2026-10-16", TemplateID: "b", Count: 1},
		{Date: "2026-10-17", TemplateID: "a", Count: 2},
	}, perTemplate)
}

func TestTemplateMetrics(t *testing.T) {
	svc, ps := newService(t)
	seed(t, ps, []store.PromptEvent{
		{TemplateID: "beginner_guides", PrimaryKeyword: "AI", CreatedAt: daysAgo(3)},
		{TemplateID: "beginner_guides", PrimaryKeyword: "ML", CreatedAt: daysAgo(1)},
		{TemplateID: "beginner_guides", PrimaryKeyword: "AI", CreatedAt: daysAgo(2)},
		{TemplateID: "deleted_one", PrimaryKeyword: "AI", CreatedAt: daysAgo(5)},
	})

	got, err := svc.TemplateMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, analytics.TemplateMetric{
		TemplateID: "beginner_guides", Name: "Beginner Guides", UsageCount: 3, KeywordDiversity: 2, LastUsed: "2026-10-17",
	}, got[0])
	assert.Equal(t, "deleted_one", got[1].Name, "unknown templates fall back to their id")
}

func TestKeywordBreakdowns(t *testing.T) {
	svc, ps := newService(t)
	var events []store.PromptEvent
	// six keywords; "rare" is used once and falls outside the top five
	for i, kw := range []string{"AI", "AI", "AI", "ML", "ML", "NLP", "NLP", "CV", "CV", "RL", "RL", "rare"} {
		events = append(events, store.PromptEvent{
			TemplateID:     "t",
			PrimaryKeyword: kw,
			Category:       map[bool]string{true: "Business", false: "Technical"}[i%2 == 0],
			CreatedAt:      daysAgo(i % 2),
		})
	}
	seed(t, ps, events)
	ctx := context.Background()

	top, err := svc.TopKeywords(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "AI", top[0].Keyword)
	assert.Equal(t, 3, top[0].UsageCount)

	kc, err := svc.KeywordCategories(ctx)
	require.NoError(t, err)
	for _, row := range kc {
		assert.NotEqual(t, "rare", row.Keyword)
	}
	assert.Equal(t, analytics.KeywordCategoryCount{Keyword: "AI", Category: "Business", Count: 2}, kc[0])

	trends, err := svc.KeywordTrends(ctx)
	require.NoError(t, err)
	total := 0
	for _, row := range trends {
		assert.NotEqual(t, "rare", row.Keyword)
		total += row.Count
	}
	assert.Equal(t, 11, total)
}

func TestRecentPromptsNeverNil(t *testing.T) {
	svc, _ := newService(t)
	recent, err := svc.RecentPrompts(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}
