package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/testutil"
)

func newPromptTestEnv(t *testing.T) (*store.PromptStore, *store.KeywordStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewPromptStore(db), store.NewKeywordStore(db)
}

func TestRecordPrompt_HappyPath(t *testing.T) {
	ps, ks := newPromptTestEnv(t)
	ctx := context.Background()

	err := ps.RecordPrompt(ctx, store.PromptEvent{
		TemplateID:        "ai_in_business",
		PrimaryKeyword:    "AI automation",
		Category:          "Business",
		Audience:          "Executives",
		SecondaryKeywords: []string{"ROI", "workflows"},
		PromptText:        "Write about AI automation",
	})
	if err != nil {
		t.Fatalf("RecordPrompt: %v", err)
	}

	prompts, err := ps.ListPrompts(ctx)
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 1 {
		t.Fatalf("len(prompts) = %d, want 1", len(prompts))
	}
	p := prompts[0]
	if p.TemplateID != "ai_in_business" || p.PrimaryKeyword != "AI automation" {
		t.Errorf("unexpected prompt row: %+v", p)
	}
	if p.Secondary != "ROI, workflows" {
		t.Errorf("secondary = %q, want %q", p.Secondary, "ROI, workflows")
	}
	if p.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	got, err := ps.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PromptText != "Write about AI automation" {
		t.Errorf("prompt_text = %q", got.PromptText)
	}

	primary, err := ks.ListByType(ctx, store.KeywordPrimary)
	if err != nil {
		t.Fatalf("ListByType primary: %v", err)
	}
	if len(primary) != 1 || primary[0].Keyword != "AI automation" || primary[0].UsageCount != 1 {
		t.Errorf("primary keywords = %+v", primary)
	}
	if primary[0].LastUsed == nil {
		t.Error("last_used not set")
	}

	secondary, err := ks.ListByType(ctx, store.KeywordSecondary)
	if err != nil {
		t.Fatalf("ListByType secondary: %v", err)
	}
	if len(secondary) != 2 {
		t.Fatalf("len(secondary) = %d, want 2", len(secondary))
	}
}

func TestRecordPrompt_BumpsUsage(t *testing.T) {
	ps, ks := newPromptTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := ps.RecordPrompt(ctx, store.PromptEvent{
			TemplateID:     "default",
			PrimaryKeyword: "SEO",
			Category:       "General",
			PromptText:     "p",
		})
		if err != nil {
			t.Fatalf("RecordPrompt %d: %v", i, err)
		}
	}
	if err := ps.RecordPrompt(ctx, store.PromptEvent{TemplateID: "default", PrimaryKeyword: "NLP", PromptText: "p"}); err != nil {
		t.Fatalf("RecordPrompt: %v", err)
	}

	top, err := ks.Top(ctx, store.KeywordPrimary, 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0].Keyword != "SEO" || top[0].UsageCount != 3 {
		t.Errorf("top = %+v, want SEO x3", top)
	}

	n, err := ps.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}

func TestGetPrompt_NotFound(t *testing.T) {
	ps, _ := newPromptTestEnv(t)
	if _, err := ps.Get(context.Background(), "missing"); err != store.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentPrompts_NewestFirst(t *testing.T) {
	ps, _ := newPromptTestEnv(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, kw := range []string{"first", "second", "third"} {
		err := ps.RecordPrompt(ctx, store.PromptEvent{
			TemplateID:     "default",
			PrimaryKeyword: kw,
			PromptText:     kw,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordPrompt: %v", err)
		}
	}

	recent, err := ps.RecentPrompts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentPrompts: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].PrimaryKeyword != "third" || recent[1].PrimaryKeyword != "second" {
		t.Errorf("order = %s, %s", recent[0].PrimaryKeyword, recent[1].PrimaryKeyword)
	}
}

func TestTemplateUsage(t *testing.T) {
	ps, _ := newPromptTestEnv(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []struct {
		template string
		at       time.Time
	}{
		{"beginner_guides", base},
		{"ai_in_business", base.Add(time.Hour)},
		{"beginner_guides", base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		err := ps.RecordPrompt(ctx, store.PromptEvent{TemplateID: e.template, PrimaryKeyword: "k", PromptText: "p", CreatedAt: e.at})
		if err != nil {
			t.Fatalf("RecordPrompt: %v", err)
		}
	}

	usage, err := ps.TemplateUsage(ctx)
	if err != nil {
		t.Fatalf("TemplateUsage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len(usage) = %d, want 2", len(usage))
	}
	if usage[0].TemplateID != "beginner_guides" || usage[0].UsageCount != 2 {
		t.Errorf("usage[0] = %+v", usage[0])
	}
	if !usage[0].LastUsed.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("last_used = %v, want %v", usage[0].LastUsed, base.Add(2*time.Hour))
	}
}
