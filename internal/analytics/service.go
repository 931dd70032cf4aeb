// Package analytics aggregates recorded prompts and keyword usage into the
// figures shown on the analytics dashboard.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/yamala-stream/DashSEO/internal/store"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

const dateLayout = "2006-01-02"

// topKeywordSlice is how many leading keywords feed the per-category and
// per-day keyword breakdowns.
const topKeywordSlice = 5

// PromptSource reads recorded prompts.
type PromptSource interface {
	ListPrompts(ctx context.Context) ([]store.Prompt, error)
	RecentPrompts(ctx context.Context, limit int) ([]store.Prompt, error)
	TemplateUsage(ctx context.Context) ([]store.TemplateUsage, error)
}

// KeywordSource reads keyword usage counters.
type KeywordSource interface {
	Top(ctx context.Context, typ string, limit int) ([]*store.Keyword, error)
}

// TemplateLister names templates for display.
type TemplateLister interface {
	List(ctx context.Context) []templates.Summary
}

// Metrics is the headline summary.
type Metrics struct {
	TotalPrompts   int     `json:"total_prompts"`
	UniqueKeywords int     `json:"unique_keywords"`
	Categories     int     `json:"categories"`
	WeeklyTrend    float64 `json:"weekly_trend"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TemplateDayCount struct {
	Date       string `json:"date"`
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
}

// TemplateMetric describes how one template is used.
type TemplateMetric struct {
	TemplateID       string `json:"template_id"`
	Name             string `json:"name"`
	UsageCount       int    `json:"usage_count"`
	KeywordDiversity int    `json:"keyword_diversity"`
	LastUsed         string `json:"last_used"`
}

type KeywordCategoryCount struct {
	Keyword  string `json:"primary_keyword"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type KeywordDayCount struct {
	Date    string `json:"date"`
	Keyword string `json:"primary_keyword"`
	Count   int    `json:"count"`
}

// Service computes analytics. Aggregation happens in Go over the recorded
// rows so it behaves the same on every database driver.
type Service struct {
	prompts   PromptSource
	keywords  KeywordSource
	templates TemplateLister
	now       func() time.Time
}

func NewService(prompts PromptSource, keywords KeywordSource, tpl TemplateLister) *Service {
	return &Service{prompts: prompts, keywords: keywords, templates: tpl, now: time.Now}
}

// WithClock replaces the time source used for the weekly trend.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func day(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Metrics returns totals and the change in prompts over the last seven days
// against the seven days before, in percent.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{TotalPrompts: len(prompts)}
	if len(prompts) == 0 {
		return m, nil
	}

	keywords := make(map[string]bool)
	categories := make(map[string]bool)
	today := s.now().UTC().Truncate(24 * time.Hour)
	oneWeekAgo := day(today.AddDate(0, 0, -7))
	twoWeeksAgo := day(today.AddDate(0, 0, -14))
	var lastWeek, previousWeek int
	for _, p := range prompts {
		keywords[p.PrimaryKeyword] = true
		categories[p.Category] = true
		d := day(p.CreatedAt)
		switch {
		case d >= oneWeekAgo:
			lastWeek++
		case d >= twoWeeksAgo:
			previousWeek++
		}
	}
	m.UniqueKeywords = len(keywords)
	m.Categories = len(categories)
	if previousWeek > 0 {
		m.WeeklyTrend = float64(lastWeek-previousWeek) / float64(previousWeek) * 100
	}
	return m, nil
}

// PromptsPerDay counts prompts per calendar day (UTC), oldest first.
func (s *Service) PromptsPerDay(ctx context.Context) ([]DayCount, error) {
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range prompts {
		counts[day(p.CreatedAt)]++
	}
	out := make([]DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DayCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// CategoryDistribution counts prompts per category, largest first.
func (s *Service) CategoryDistribution(ctx context.Context) ([]CategoryCount, error) {
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range prompts {
		counts[p.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// RecentPrompts returns the newest limit prompts.
func (s *Service) RecentPrompts(ctx context.Context, limit int) ([]store.Prompt, error) {
	if limit <= 0 {
		limit = 10
	}
	prompts, err := s.prompts.RecentPrompts(ctx, limit)
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []store.Prompt{}
	}
	return prompts, nil
}

// TemplateUsage returns per-template usage, most used first.
func (s *Service) TemplateUsage(ctx context.Context) ([]store.TemplateUsage, error) {
	return s.prompts.TemplateUsage(ctx)
}

// TemplatesPerDay counts prompts per day and template.
func (s *Service) TemplatesPerDay(ctx context.Context) ([]TemplateDayCount, error) {
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	type key struct{ date, template string }
	counts := make(map[key]int)
	for _, p := range prompts {
		counts[key{day(p.CreatedAt), p.TemplateID}]++
	}
	out := make([]TemplateDayCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TemplateDayCount{Date: k.date, TemplateID: k.template, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TemplateID < out[j].TemplateID
	})
	return out, nil
}

// TemplateMetrics joins template usage with display names and the number of
// distinct primary keywords each template was used for.
func (s *Service) TemplateMetrics(ctx context.Context) ([]TemplateMetric, error) {
	usage, err := s.prompts.TemplateUsage(ctx)
	if err != nil {
		return nil, err
	}
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for _, t := range s.templates.List(ctx) {
		names[t.ID] = t.Name
	}
	diversity := make(map[string]map[string]bool)
	for _, p := range prompts {
		if diversity[p.TemplateID] == nil {
			diversity[p.TemplateID] = make(map[string]bool)
		}
		diversity[p.TemplateID][p.PrimaryKeyword] = true
	}

	out := make([]TemplateMetric, 0, len(usage))
	for _, u := range usage {
		name, ok := names[u.TemplateID]
		if !ok {
			name = u.TemplateID
		}
		out = append(out, TemplateMetric{
			TemplateID:       u.TemplateID,
			Name:             name,
			UsageCount:       u.UsageCount,
			KeywordDiversity: len(diversity[u.TemplateID]),
			LastUsed:         day(u.LastUsed),
		})
	}
	return out, nil
}

// TopKeywords returns the most used primary keywords.
func (s *Service) TopKeywords(ctx context.Context, limit int) ([]*store.Keyword, error) {
	if limit <= 0 {
		limit = 10
	}
	kws, err := s.keywords.Top(ctx, store.KeywordPrimary, limit)
	if err != nil {
		return nil, err
	}
	if kws == nil {
		kws = []*store.Keyword{}
	}
	return kws, nil
}

// topKeywordPrompts returns the prompts whose primary keyword is among the
// most used ones.
func (s *Service) topKeywordPrompts(ctx context.Context) ([]store.Prompt, error) {
	top, err := s.keywords.Top(ctx, store.KeywordPrimary, topKeywordSlice)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	wanted := make(map[string]bool, len(top))
	for _, k := range top {
		wanted[k.Keyword] = true
	}
	prompts, err := s.prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	var out []store.Prompt
	for _, p := range prompts {
		if wanted[p.PrimaryKeyword] {
			out = append(out, p)
		}
	}
	return out, nil
}

// KeywordCategories counts prompts per category for the top keywords.
func (s *Service) KeywordCategories(ctx context.Context) ([]KeywordCategoryCount, error) {
	prompts, err := s.topKeywordPrompts(ctx)
	if err != nil {
		return nil, err
	}
	type key struct{ keyword, category string }
	counts := make(map[key]int)
	for _, p := range prompts {
		counts[key{p.PrimaryKeyword, p.Category}]++
	}
	out := make([]KeywordCategoryCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KeywordCategoryCount{Keyword: k.keyword, Category: k.category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Keyword != out[j].Keyword {
			return out[i].Keyword < out[j].Keyword
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// KeywordTrends counts prompts per day for the top keywords.
func (s *Service) KeywordTrends(ctx context.Context) ([]KeywordDayCount, error) {
	prompts, err := s.topKeywordPrompts(ctx)
	if err != nil {
		return nil, err
	}
	type key struct{ date, keyword string }
	counts := make(map[key]int)
	for _, p := range prompts {
		counts[key{day(p.CreatedAt), p.PrimaryKeyword}]++
	}
	out := make([]KeywordDayCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KeywordDayCount{Date: k.date, Keyword: k.keyword, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out, nil
}
