package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/yamala-stream/DashSEO/internal/analysis"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(18)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderMarkdown renders text for the terminal. GLAMOUR_STYLE overrides the
// detected style.
func renderMarkdown(text string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if s := os.Getenv("GLAMOUR_STYLE"); s != "" {
		style = glamour.WithStandardStyle(s)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func stat(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

// printReport writes the analysis as a boxed summary followed by the checklist.
func printReport(w io.Writer, r analysis.Report) {
	stats := []string{
		titleStyle.Render("Prompt Analysis"),
		stat("Word count", r.WordCount),
		stat("Characters", r.CharCount),
		stat("Keyword uses", r.KeywordCount),
		stat("Keyword density", r.Density()),
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(stats, "\n")))

	if headings := r.HeadingPreview(10); len(headings) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Structure"))
		for _, h := range headings {
			fmt.Fprintln(w, "  "+h)
		}
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("SEO Checklist (%d/%d)", r.Passed(), len(r.Checklist))))
	for _, c := range r.Checklist {
		mark := failStyle.Render("✗")
		if c.Passed {
			mark = passStyle.Render("✓")
		}
		fmt.Fprintf(w, "  %s %s\n", mark, c.Name)
	}
}
