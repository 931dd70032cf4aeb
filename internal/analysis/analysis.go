// Package analysis computes post-hoc statistics and an SEO checklist for a
// generated prompt.
package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var headingRe = regexp.MustCompile(`\n##? ([^\n]+)`)

// Check is one checklist item.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// Report holds the analysis of one prompt text.
type Report struct {
	WordCount      int      `json:"word_count"`
	CharCount      int      `json:"char_count"`
	KeywordCount   int      `json:"keyword_count"`
	KeywordDensity float64  `json:"keyword_density"`
	Headings       []string `json:"headings"`
	Checklist      []Check  `json:"checklist"`
}

// Analyze measures text against the primary and secondary keywords. Empty
// text or an empty primary keyword yields a zero Report.
func Analyze(text, primaryKeyword string, secondaryKeywords []string) Report {
	if text == "" || primaryKeyword == "" {
		return Report{}
	}

	r := Report{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
	}

	kwRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(primaryKeyword) + `\b`)
	r.KeywordCount = len(kwRe.FindAllStringIndex(text, -1))
	if r.WordCount > 0 {
		r.KeywordDensity = float64(r.KeywordCount) / float64(r.WordCount) * 100
	}

	for _, m := range headingRe.FindAllStringSubmatch(text, -1) {
		r.Headings = append(r.Headings, m[1])
	}

	lower := strings.ToLower(text)
	r.Checklist = []Check{
		{"Keywords", strings.Contains(text, primaryKeyword)},
		{"Secondary Keywords", containsAny(text, secondaryKeywords)},
		{"Meta Title/Description", strings.Contains(lower, "meta") || strings.Contains(lower, "title tag")},
		{"FAQ Section", strings.Contains(lower, "faq")},
		{"Headings Structure", len(r.Headings) > 1},
		{"Word Count Target", strings.Contains(text, strconv.Itoa(r.WordCount))},
		{"Schema Markup", strings.Contains(lower, "schema")},
		{"Social Media", strings.Contains(lower, "social media")},
	}
	return r
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// HeadingPreview returns at most max headings, followed by an
// "...and N more sections" line when some were cut.
func (r Report) HeadingPreview(max int) []string {
	if len(r.Headings) <= max {
		return append([]string(nil), r.Headings...)
	}
	out := append([]string(nil), r.Headings[:max]...)
	return append(out, fmt.Sprintf("...and %d more sections", len(r.Headings)-max))
}

// Density formats the keyword density as a percentage with two decimals.
func (r Report) Density() string {
	return fmt.Sprintf("%.2f%%", r.KeywordDensity)
}

// Passed counts the checklist items that passed.
func (r Report) Passed() int {
	n := 0
	for _, c := range r.Checklist {
		if c.Passed {
			n++
		}
	}
	return n
}
