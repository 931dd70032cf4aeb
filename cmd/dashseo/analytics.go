package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/store"
)

// analyticsSummary is the JSON shape of `dashseo analytics --json`.
type analyticsSummary struct {
	Metrics    analytics.Metrics          `json:"metrics"`
	Categories []analytics.CategoryCount  `json:"categories"`
	Templates  []analytics.TemplateMetric `json:"templates"`
	Keywords   []*store.Keyword           `json:"top_keywords"`
}

func newAnalyticsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize recorded prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.openDB(); err != nil {
				return err
			}

			ctx := cmd.Context()
			prompts := store.NewPromptStore(e.db)
			svc := analytics.NewService(prompts, store.NewKeywordStore(e.db), e.repo)

			var sum analyticsSummary
			if sum.Metrics, err = svc.Metrics(ctx); err != nil {
				return err
			}
			if sum.Categories, err = svc.CategoryDistribution(ctx); err != nil {
				return err
			}
			if sum.Templates, err = svc.TemplateMetrics(ctx); err != nil {
				return err
			}
			if sum.Keywords, err = svc.TopKeywords(ctx, limit); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}

			m := sum.Metrics
			fmt.Fprintln(out, boxStyle.Render(
				titleStyle.Render("Prompt Analytics")+"\n"+
					stat("Total prompts", m.TotalPrompts)+"\n"+
					stat("Unique keywords", m.UniqueKeywords)+"\n"+
					stat("Categories", m.Categories)+"\n"+
					stat("Weekly trend", fmt.Sprintf("%+.1f%%", m.WeeklyTrend)),
			))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, titleStyle.Render("Templates"))
			fmt.Fprintln(tw, "TEMPLATE\tUSES\tKEYWORDS\tLAST USED")
			for _, t := range sum.Templates {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", t.Name, t.UsageCount, t.KeywordDiversity, t.LastUsed)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, titleStyle.Render("Top keywords"))
			fmt.Fprintln(tw, "KEYWORD\tUSES\tCATEGORY")
			for _, k := range sum.Keywords {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", k.Keyword, k.UsageCount, k.Category)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, titleStyle.Render("Categories"))
			for _, c := range sum.Categories {
				fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of top keywords")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
