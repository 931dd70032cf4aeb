package templates

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReservedNames are the placeholders the assembler binds from request
// parameters, in binding order. They never become template fields.
var ReservedNames = []string{
	"source_link",
	"primary_keyword",
	"secondary_keywords",
	"target_audience",
	"target_location",
	"update_frequency",
	"current_date",
	"current_year",
	"word_count",
	"tone",
	"reading_level",
}

var (
	reserved = func() map[string]bool {
		m := make(map[string]bool, len(ReservedNames))
		for _, n := range ReservedNames {
			m[n] = true
		}
		return m
	}()

	legacyTokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
	tokenRe       = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
)

// IsReserved reports whether name is bound by the assembler.
func IsReserved(name string) bool {
	return reserved[name]
}

// NormalizeBody rewrites double-brace {{name}} tokens to single-brace {name}.
func NormalizeBody(body string) string {
	return legacyTokenRe.ReplaceAllString(body, "{${1}}")
}

// Placeholders returns the distinct placeholder names in body in order of
// first appearance, after normalization.
func Placeholders(body string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range tokenRe.FindAllStringSubmatch(NormalizeBody(body), -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Extract normalizes body and derives a field for every non-reserved
// placeholder. order lists the derived field names as they appear.
func Extract(body string) (normalized string, fields map[string]Field, order []string) {
	normalized = NormalizeBody(body)
	fields = make(map[string]Field)
	for _, name := range Placeholders(normalized) {
		if reserved[name] {
			continue
		}
		fields[name] = DeriveField(name)
		order = append(order, name)
	}
	return normalized, fields, order
}

// DeriveField builds the default descriptor for a placeholder name.
func DeriveField(name string) Field {
	return Field{
		Label:    "📝 " + cases.Title(language.English).String(strings.ReplaceAll(name, "_", " ")),
		Type:     FieldText,
		Required: true,
	}
}

// WithDerivedFields returns a copy of r with its body normalized and a field
// added for every placeholder that has no declared descriptor.
func WithDerivedFields(r Record) Record {
	out := r.Clone()
	normalized, derived, order := Extract(r.Body)
	out.Body = normalized
	if out.Fields == nil && len(order) > 0 {
		out.Fields = make(map[string]Field, len(order))
	}
	for _, name := range order {
		if _, ok := out.Fields[name]; !ok {
			out.Fields[name] = derived[name]
		}
	}
	return out
}

// FieldOrder returns the record's field names: placeholders in body order
// first, then any declared fields the body never mentions, sorted.
func FieldOrder(r Record) []string {
	seen := make(map[string]bool, len(r.Fields))
	var names []string
	for _, name := range Placeholders(r.Body) {
		if _, ok := r.Fields[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range r.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
