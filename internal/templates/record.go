// Package templates resolves prompt templates across the built-in catalog,
// the initial catalog and the JSON files kept on disk, and derives the form
// fields a template body asks for.
package templates

// Origin records which tier a template came from. It decides mutability:
// built-in templates can never be saved over or deleted.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginInitial Origin = "initial"
	OriginFile    Origin = "file"
	OriginDefault Origin = "default"
)

// Field types accepted in a template's field descriptors.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
)

// DefaultIcon is used for categories that carry no icon of their own.
const DefaultIcon = "📁"

// Field describes one user-fillable placeholder.
type Field struct {
	Label    string `json:"label" yaml:"label"`
	Type     string `json:"type" yaml:"type" validate:"omitempty,oneof=text textarea number"`
	Required bool   `json:"required" yaml:"required"`
}

// Record is one reusable prompt skeleton. Body holds the raw template text with
// {field} placeholders; it is stored under the "template" key on disk.
type Record struct {
	ID       string           `json:"id,omitempty" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Category string           `json:"category,omitempty" yaml:"category"`
	Intent   string           `json:"intent,omitempty" yaml:"intent"`
	UseCase  string           `json:"use_case,omitempty" yaml:"use_case,omitempty"`
	Tone     string           `json:"tone,omitempty" yaml:"tone"`
	Schema   string           `json:"schema,omitempty" yaml:"schema"`
	Fields   map[string]Field `json:"fields,omitempty" yaml:"fields" validate:"dive"`
	Body     string           `json:"template" yaml:"template"`
	Origin   Origin           `json:"origin,omitempty" yaml:"-"`
}

// IsBuiltin reports whether the record is immutable.
func (r Record) IsBuiltin() bool {
	return r.Origin == OriginBuiltin
}

// DefaultTone is the tone used when a template declares none.
func (r Record) DefaultTone() string {
	if r.Tone == "" {
		return "Professional"
	}
	return r.Tone
}

// SchemaType is the schema.org type named in generated schema notes.
func (r Record) SchemaType() string {
	if r.Schema == "" {
		return "Article"
	}
	return r.Schema
}

// CategoryOrDefault returns the record's category, or "General".
func (r Record) CategoryOrDefault() string {
	if r.Category == "" {
		return "General"
	}
	return r.Category
}

// Clone returns a deep copy so callers can never mutate a catalog entry.
func (r Record) Clone() Record {
	c := r
	if r.Fields != nil {
		c.Fields = make(map[string]Field, len(r.Fields))
		for k, v := range r.Fields {
			c.Fields[k] = v
		}
	}
	return c
}

// Summary is the listing view of a template.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Intent    string `json:"intent"`
	Tone      string `json:"tone"`
	Schema    string `json:"schema"`
	Category  string `json:"category"`
	IsBuiltin bool   `json:"is_builtin"`
}

// summarize builds the listing view; intentDefault differs per tier.
func (r Record) summarize(intentDefault string) Summary {
	s := Summary{
		ID:        r.ID,
		Name:      r.Name,
		Intent:    r.Intent,
		Tone:      r.DefaultTone(),
		Schema:    r.SchemaType(),
		Category:  r.CategoryOrDefault(),
		IsBuiltin: r.IsBuiltin(),
	}
	if s.Name == "" {
		s.Name = r.ID
	}
	if s.Intent == "" {
		s.Intent = r.UseCase
	}
	if s.Intent == "" {
		s.Intent = intentDefault
	}
	return s
}

// Category groups templates for navigation.
type Category struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Icon      string `json:"icon" yaml:"icon"`
	IsBuiltin bool   `json:"is_builtin" yaml:"-"`
}

// CategoryGroup is a category together with the templates filed under it.
type CategoryGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Templates []Summary `json:"templates"`
}
