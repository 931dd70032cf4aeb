package templates

import (
	"context"
	"errors"
	"io/fs"
)

// Resolver is one tier of template lookup. The repository consults its tiers
// in order and the first hit wins.
type Resolver interface {
	// Name identifies the tier in logs.
	Name() string
	// Resolve returns a copy of the record stored under id.
	Resolve(ctx context.Context, id string) (Record, bool)
	// Records returns copies of every record the tier holds.
	Records(ctx context.Context) []Record
}

// BuiltinTier serves the immutable built-in templates.
type BuiltinTier struct {
	Catalog *Catalog
}

func (t BuiltinTier) Name() string { return string(OriginBuiltin) }

func (t BuiltinTier) Resolve(_ context.Context, id string) (Record, bool) {
	return t.Catalog.Builtin(id)
}

func (t BuiltinTier) Records(context.Context) []Record {
	return t.Catalog.BuiltinRecords()
}

// InitialTier serves the initial templates compiled into the binary.
type InitialTier struct {
	Catalog *Catalog
}

func (t InitialTier) Name() string { return string(OriginInitial) }

func (t InitialTier) Resolve(_ context.Context, id string) (Record, bool) {
	return t.Catalog.Initial(id)
}

func (t InitialTier) Records(context.Context) []Record {
	return t.Catalog.InitialRecords()
}

// FileTier serves templates stored as <id>.json in a FileStore.
type FileTier struct {
	Store *FileStore
}

func (t FileTier) Name() string { return string(OriginFile) }

// Resolve treats a missing, unsafe or malformed file as a miss. Malformed
// files are logged.
func (t FileTier) Resolve(_ context.Context, id string) (Record, bool) {
	r, err := t.Store.Load(id)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			t.Store.log.Warn("template file unreadable, falling back", "id", id, "err", err)
		}
		return Record{}, false
	}
	return r, true
}

func (t FileTier) Records(context.Context) []Record {
	return t.Store.LoadAll()
}
