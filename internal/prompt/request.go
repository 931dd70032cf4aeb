// Package prompt turns a template record and a filled-in form into the final
// prompt text: reserved placeholders and field values are substituted, then
// an ordered pipeline of optional sections is applied.
package prompt

import (
	"strings"

	"github.com/yamala-stream/DashSEO/internal/templates"
)

// Flags toggles the optional sections.
type Flags struct {
	FAQ                bool `json:"faq"`
	MetaTags           bool `json:"meta_tags"`
	Schema             bool `json:"schema"`
	ImagePrompt        bool `json:"image_prompt"`
	URLSlug            bool `json:"url_slug"`
	Tags               bool `json:"tags"`
	ExternalReferences bool `json:"external_references"`
	InternalLinking    bool `json:"internal_linking"`
	FeaturedSnippet    bool `json:"featured_snippet"`
}

// FieldValue is one template-specific form value.
type FieldValue struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// Request carries everything the user supplied for one generation.
type Request struct {
	TemplateID        string       `json:"template_id"`
	PrimaryKeyword    string       `json:"primary_keyword" validate:"required"`
	SourceLink        string       `json:"source_link"`
	ReferenceContent  string       `json:"reference_content"`
	SecondaryKeywords []string     `json:"secondary_keywords"`
	TargetAudience    string       `json:"target_audience"`
	TargetLocation    string       `json:"target_location"`
	ReadingLevel      string       `json:"reading_level"`
	UpdateFrequency   string       `json:"update_frequency"`
	WordCount         int          `json:"word_count" validate:"gte=0"`
	Tone              string       `json:"tone"`
	UpdateNotes       string       `json:"update_notes"`
	Fields            []FieldValue `json:"fields" validate:"dive"`
	Flags             Flags        `json:"flags"`
}

// Field returns the value bound to a template field, if any.
func (r Request) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// SecondaryText joins the secondary keywords the way they are substituted
// and stored.
func (r Request) SecondaryText() string {
	return strings.Join(r.SecondaryKeywords, ", ")
}

// Source is the link when given, else the free-text reference content.
func (r Request) Source() string {
	if r.SourceLink != "" {
		return r.SourceLink
	}
	return r.ReferenceContent
}

// SplitKeywords parses a comma separated keyword list, dropping blanks.
func SplitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Form defaults.
const (
	DefaultAudience        = "General Public"
	DefaultLocation        = "United States"
	DefaultReadingLevel    = "General"
	DefaultUpdateFrequency = "3 months"
	DefaultWordCount       = 1500
)

// DefaultRequest returns the form as first shown for rec: sensible audience,
// location and length, the template's own tone, and the FAQ, meta tag,
// schema, URL slug and tag sections switched on.
func DefaultRequest(rec templates.Record) Request {
	return Request{
		TemplateID:      rec.ID,
		TargetAudience:  DefaultAudience,
		TargetLocation:  DefaultLocation,
		ReadingLevel:    DefaultReadingLevel,
		UpdateFrequency: DefaultUpdateFrequency,
		WordCount:       DefaultWordCount,
		Tone:            rec.DefaultTone(),
		Flags: Flags{
			FAQ:      true,
			MetaTags: true,
			Schema:   true,
			URLSlug:  true,
			Tags:     true,
		},
	}
}
