package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog
var catalogFS embed.FS

// Catalog holds the in-code template tiers: the built-in templates (immutable),
// the initial templates used to seed the storage directory, the fallback
// record and the static categories. It is read-only after construction.
type Catalog struct {
	categories []Category
	builtin    []Record
	initial    []Record
	fallback   Record

	builtinByID map[string]int
	initialByID map[string]int
}

// NewCatalog builds a catalog from explicit tiers. Records are copied and
// stamped with their origin; later records with a duplicate id are ignored.
func NewCatalog(categories []Category, builtin, initial []Record, fallback Record) *Catalog {
	c := &Catalog{
		builtinByID: make(map[string]int),
		initialByID: make(map[string]int),
	}
	for _, cat := range categories {
		cat.IsBuiltin = true
		if cat.Icon == "" {
			cat.Icon = DefaultIcon
		}
		c.categories = append(c.categories, cat)
	}
	for _, r := range builtin {
		if _, dup := c.builtinByID[r.ID]; dup || r.ID == "" {
			continue
		}
		r = r.Clone()
		r.Origin = OriginBuiltin
		c.builtinByID[r.ID] = len(c.builtin)
		c.builtin = append(c.builtin, r)
	}
	for _, r := range initial {
		if _, dup := c.initialByID[r.ID]; dup || r.ID == "" {
			continue
		}
		r = r.Clone()
		r.Origin = OriginInitial
		c.initialByID[r.ID] = len(c.initial)
		c.initial = append(c.initial, r)
	}
	c.fallback = fallback.Clone()
	c.fallback.Origin = OriginDefault
	return c
}

// LoadCatalog reads categories.yaml, fallback.yaml, builtin/*.yaml and
// initial/*.yaml from fsys. Template files are read in name order.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	var categories []Category
	if err := readYAML(fsys, "categories.yaml", &categories); err != nil {
		return nil, err
	}
	var fallback Record
	if err := readYAML(fsys, "fallback.yaml", &fallback); err != nil {
		return nil, err
	}
	builtin, err := readRecordDir(fsys, "builtin")
	if err != nil {
		return nil, err
	}
	initial, err := readRecordDir(fsys, "initial")
	if err != nil {
		return nil, err
	}
	return NewCatalog(categories, builtin, initial, fallback), nil
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		panic(fmt.Sprintf("templates: embedded catalog: %v", err))
	}
	c, err := LoadCatalog(sub)
	if err != nil {
		panic(fmt.Sprintf("templates: embedded catalog: %v", err))
	}
	return c
}

func readYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func readRecordDir(fsys fs.FS, dir string) ([]Record, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(names)
	records := make([]Record, 0, len(names))
	for _, name := range names {
		var r Record
		if err := readYAML(fsys, name, &r); err != nil {
			return nil, err
		}
		if r.ID == "" {
			r.ID = trimExt(path.Base(name))
		}
		records = append(records, r)
	}
	return records, nil
}

// Categories returns the static categories.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// Category looks up a static category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// IsBuiltin reports whether id names an immutable template.
func (c *Catalog) IsBuiltin(id string) bool {
	_, ok := c.builtinByID[id]
	return ok
}

// Builtin returns a copy of the built-in template with the given id.
func (c *Catalog) Builtin(id string) (Record, bool) {
	i, ok := c.builtinByID[id]
	if !ok {
		return Record{}, false
	}
	return c.builtin[i].Clone(), true
}

// Initial returns a copy of the initial template with the given id.
func (c *Catalog) Initial(id string) (Record, bool) {
	i, ok := c.initialByID[id]
	if !ok {
		return Record{}, false
	}
	return c.initial[i].Clone(), true
}

// BuiltinRecords returns copies of all built-in templates in catalog order.
func (c *Catalog) BuiltinRecords() []Record {
	return cloneAll(c.builtin)
}

// InitialRecords returns copies of all initial templates in catalog order.
func (c *Catalog) InitialRecords() []Record {
	return cloneAll(c.initial)
}

// Fallback returns a copy of the record used when no tier has an id.
func (c *Catalog) Fallback() Record {
	return c.fallback.Clone()
}

func cloneAll(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
