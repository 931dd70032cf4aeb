package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"

	"github.com/yamala-stream/DashSEO/internal/logger"
)

// ErrInvalidRecord is returned by Save when a record fails validation.
var ErrInvalidRecord = errors.New("invalid template record")

// Options configures a Repository.
type Options struct {
	// Dir holds index.json and the per-template files.
	Dir string
	// ImportDir is scanned for legacy prompt_body templates while seeding.
	ImportDir string
	// Catalog defaults to DefaultCatalog().
	Catalog *Catalog
	Logger  *logger.Logger
}

// Repository resolves, lists and persists templates across the built-in,
// initial and file tiers. It seeds the storage directory on first use.
type Repository struct {
	catalog   *Catalog
	files     *FileStore
	tiers     []Resolver
	importDir string
	log       *logger.Logger
	validate  *validator.Validate

	seedOnce sync.Once
	seedErr  error
}

// NewRepository wires the standard tier order: built-in, initial, file.
func NewRepository(opts Options) *Repository {
	log := logger.OrNop(opts.Logger)
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	files := NewFileStore(opts.Dir, log)
	return &Repository{
		catalog: catalog,
		files:   files,
		tiers: []Resolver{
			BuiltinTier{Catalog: catalog},
			InitialTier{Catalog: catalog},
			FileTier{Store: files},
		},
		importDir: opts.ImportDir,
		log:       log,
		validate:  validator.New(),
	}
}

// Catalog returns the in-code catalog backing the first two tiers.
func (r *Repository) Catalog() *Catalog { return r.catalog }

// Files returns the file store backing the last tier.
func (r *Repository) Files() *FileStore { return r.files }

// Seed creates the storage directory, writes index.json if it is missing and
// writes every initial or imported template whose file is missing. Existing
// files are never overwritten. Only the first call does any work.
func (r *Repository) Seed(ctx context.Context) error {
	r.seedOnce.Do(func() {
		r.seedErr = r.seed(ctx)
	})
	return r.seedErr
}

func (r *Repository) seed(_ context.Context) error {
	if err := r.files.EnsureDir(); err != nil {
		return err
	}

	imported, err := LoadLegacyDir(r.importDir, r.log)
	if err != nil {
		r.log.Warn("legacy template import failed", "dir", r.importDir, "err", err)
	}

	var order []string
	all := make(map[string]Record)
	for _, rec := range append(r.catalog.InitialRecords(), imported...) {
		if err := ValidateID(rec.ID); err != nil {
			r.log.Warn("skipping template with unusable id", "id", rec.ID, "err", err)
			continue
		}
		if _, seen := all[rec.ID]; !seen {
			order = append(order, rec.ID)
		}
		all[rec.ID] = rec
	}

	if err := r.files.WriteIndexIfMissing(all); err != nil {
		return fmt.Errorf("seed template index: %w", err)
	}
	for _, id := range order {
		if r.files.Exists(id) {
			continue
		}
		if err := r.files.Write(id, all[id]); err != nil {
			return fmt.Errorf("seed template %s: %w", id, err)
		}
	}
	r.log.Debug("template directory seeded", "dir", r.files.Dir(), "templates", len(order))
	return nil
}

func (r *Repository) ensureSeeded(ctx context.Context) {
	if err := r.Seed(ctx); err != nil {
		r.log.Warn("template directory could not be seeded", "dir", r.files.Dir(), "err", err)
	}
}

// Resolve returns the record for id from the first tier that has it, or the
// fallback record. It never fails.
func (r *Repository) Resolve(ctx context.Context, id string) Record {
	r.ensureSeeded(ctx)
	for _, t := range r.tiers {
		if rec, ok := t.Resolve(ctx, id); ok {
			return rec
		}
	}
	return r.catalog.Fallback()
}

// List returns a summary of every template, deduplicated by id in tier order
// and sorted by name.
func (r *Repository) List(ctx context.Context) []Summary {
	r.ensureSeeded(ctx)
	seen := make(map[string]bool)
	out := []Summary{}
	for _, t := range r.tiers {
		for _, rec := range t.Records(ctx) {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			out = append(out, r.summarize(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Repository) summarize(rec Record) Summary {
	switch rec.Origin {
	case OriginBuiltin:
		def := rec.Category
		if cat, ok := r.catalog.Category(rec.Category); ok {
			def = cat.Name
		}
		return rec.summarize(def)
	case OriginInitial:
		return rec.summarize("General")
	default:
		return rec.summarize("Custom")
	}
}

// Categories returns the static categories followed by the categories used by
// catalog templates and stored files, each id once.
func (r *Repository) Categories(ctx context.Context) []Category {
	r.ensureSeeded(ctx)
	out := r.catalog.Categories()
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.ID] = true
	}
	add := func(recs []Record) {
		for _, rec := range recs {
			id := rec.CategoryOrDefault()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, Category{ID: id, Name: id, Icon: DefaultIcon})
		}
	}
	add(r.catalog.BuiltinRecords())
	add(r.catalog.InitialRecords())
	add(r.files.LoadAll())
	return out
}

func categoryInfo(cats []Category, id string) Category {
	for _, c := range cats {
		if c.ID == id {
			return c
		}
	}
	return Category{ID: id, Name: id, Icon: DefaultIcon}
}

// ListByCategory returns the templates filed under categoryID. Unknown or
// empty ids yield a group with no templates.
func (r *Repository) ListByCategory(ctx context.Context, categoryID string) CategoryGroup {
	cat := categoryInfo(r.Categories(ctx), categoryID)
	g := CategoryGroup{ID: categoryID, Name: cat.Name, Icon: cat.Icon, Templates: []Summary{}}
	if categoryID == "" {
		return g
	}
	for _, s := range r.List(ctx) {
		if s.Category == categoryID {
			g.Templates = append(g.Templates, s)
		}
	}
	return g
}

// GroupByCategory groups every template by category, in order of each
// category's first appearance in the sorted listing.
func (r *Repository) GroupByCategory(ctx context.Context) []CategoryGroup {
	cats := r.Categories(ctx)
	idx := make(map[string]int)
	var out []CategoryGroup
	for _, s := range r.List(ctx) {
		i, ok := idx[s.Category]
		if !ok {
			c := categoryInfo(cats, s.Category)
			i = len(out)
			idx[s.Category] = i
			out = append(out, CategoryGroup{ID: c.ID, Name: c.Name, Icon: c.Icon})
		}
		out[i].Templates = append(out[i].Templates, s)
	}
	return out
}

// Search fuzzy-matches query against template names, ids and categories and
// returns the best matches first. An empty query lists everything.
func (r *Repository) Search(ctx context.Context, query string) []Summary {
	all := r.List(ctx)
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	haystack := make([]string, len(all))
	for i, s := range all {
		haystack[i] = fmt.Sprintf("%s %s %s %s", s.Name, s.ID, s.Category, s.Intent)
	}
	out := []Summary{}
	for _, m := range fuzzy.Find(query, haystack) {
		out = append(out, all[m.Index])
	}
	return out
}

// Save writes rec as <id>.json and records it in index.json. The body is
// stored in single-brace form, and a record without field descriptors gets
// derived ones. Built-in ids are refused with false and no error.
func (r *Repository) Save(ctx context.Context, id string, rec Record) (bool, error) {
	r.ensureSeeded(ctx)
	if r.catalog.IsBuiltin(id) {
		return false, nil
	}
	if err := ValidateID(id); err != nil {
		return false, err
	}
	if err := r.validate.Struct(rec); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if len(rec.Fields) == 0 {
		rec = WithDerivedFields(rec)
	} else {
		rec = rec.Clone()
		rec.Body = NormalizeBody(rec.Body)
	}
	rec.ID = id
	rec.Origin = ""
	if err := r.files.Write(id, rec); err != nil {
		return false, err
	}
	if err := r.files.UpdateIndex(func(idx map[string]Record) { idx[id] = rec }); err != nil {
		return false, fmt.Errorf("update template index: %w", err)
	}
	r.log.Info("template saved", "id", id)
	return true, nil
}

// Delete removes <id>.json and its index entry. It reports false for built-in
// ids and for ids with no stored file. Index failures are logged only.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.ensureSeeded(ctx)
	if r.catalog.IsBuiltin(id) {
		return false, nil
	}
	removed, err := r.files.Remove(id)
	if err != nil || !removed {
		return false, err
	}
	if err := r.files.UpdateIndex(func(idx map[string]Record) { delete(idx, id) }); err != nil {
		r.log.Warn("removing template from index failed", "id", id, "err", err)
	}
	r.log.Info("template deleted", "id", id)
	return true, nil
}

// Import saves every legacy template found in dir, overwriting stored copies.
// Built-in ids are skipped. It returns the ids that were written.
func (r *Repository) Import(ctx context.Context, dir string) ([]string, error) {
	recs, err := LoadLegacyDir(dir, r.log)
	if err != nil {
		return nil, err
	}
	var saved []string
	for _, rec := range recs {
		ok, err := r.Save(ctx, rec.ID, rec)
		if err != nil {
			r.log.Warn("skipping imported template", "id", rec.ID, "err", err)
			continue
		}
		if ok {
			saved = append(saved, rec.ID)
		}
	}
	return saved, nil
}
