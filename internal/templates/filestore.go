package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yamala-stream/DashSEO/internal/logger"
)

// IndexFile is the aggregate index kept next to the per-template files.
const IndexFile = "index.json"

// FileStore reads and writes template records as <id>.json files in a single
// directory, and keeps index.json in step. Index read-modify-write cycles are
// serialized; writes to the per-id files are atomic renames.
type FileStore struct {
	dir string
	log *logger.Logger

	mu sync.Mutex // guards index.json
}

// NewFileStore returns a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string, log *logger.Logger) *FileStore {
	return &FileStore{dir: dir, log: logger.OrNop(log)}
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

// EnsureDir creates the storage directory if it is missing.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Exists reports whether <id>.json is present.
func (s *FileStore) Exists(id string) bool {
	if ValidateID(id) != nil {
		return false
	}
	_, err := os.Stat(s.path(id))
	return err == nil
}

// Load reads <id>.json. A missing file yields an error matching
// fs.ErrNotExist.
func (s *FileStore) Load(id string) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, fmt.Errorf("load template: %w", fs.ErrNotExist)
	}
	return loadFile(s.path(id), id)
}

func loadFile(path, id string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("load template %s: %w", id, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parse template %s: %w", id, err)
	}
	r.ID = id
	r.Origin = OriginFile
	return r, nil
}

// Write stores r as <id>.json, replacing any previous file.
func (s *FileStore) Write(id string, r Record) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.EnsureDir(); err != nil {
		return err
	}
	r = r.Clone()
	r.ID = id
	r.Origin = ""
	data, err := marshalIndent(r)
	if err != nil {
		return fmt.Errorf("encode template %s: %w", id, err)
	}
	return writeFileAtomic(s.path(id), data)
}

// Remove deletes <id>.json. It reports false when there was nothing to delete.
func (s *FileStore) Remove(id string) (bool, error) {
	if ValidateID(id) != nil {
		return false, nil
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove template %s: %w", id, err)
	}
	return true, nil
}

// LoadAll reads every <id>.json in the directory except the index, in file
// name order. Unreadable or malformed files are skipped with a warning.
func (s *FileStore) LoadAll() []Record {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		s.log.Warn("listing templates failed", "dir", s.dir, "err", err)
		return nil
	}
	sort.Strings(matches)
	var out []Record
	for _, p := range matches {
		name := filepath.Base(p)
		if name == IndexFile {
			continue
		}
		id := trimExt(name)
		if err := ValidateID(id); err != nil {
			s.log.Warn("skipping template with unusable file name", "file", p, "err", err)
			continue
		}
		r, err := loadFile(p, id)
		if err != nil {
			s.log.Warn("skipping unreadable template", "file", p, "err", err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// HasIndex reports whether index.json exists.
func (s *FileStore) HasIndex() bool {
	_, err := os.Stat(filepath.Join(s.dir, IndexFile))
	return err == nil
}

// ReadIndex returns the parsed index. A missing or malformed index is
// reported as an empty map; malformed content is logged.
func (s *FileStore) ReadIndex() map[string]Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndexLocked()
}

func (s *FileStore) readIndexLocked() map[string]Record {
	idx := make(map[string]Record)
	data, err := os.ReadFile(filepath.Join(s.dir, IndexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return idx
	}
	if err != nil {
		s.log.Warn("reading template index failed", "dir", s.dir, "err", err)
		return idx
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		s.log.Warn("template index is malformed, treating as empty", "dir", s.dir, "err", err)
		return make(map[string]Record)
	}
	return idx
}

// WriteIndexIfMissing writes idx as index.json unless one already exists.
func (s *FileStore) WriteIndexIfMissing(idx map[string]Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.HasIndex() {
		return nil
	}
	return s.writeIndexLocked(idx)
}

// UpdateIndex applies fn to the current index and writes the result back.
func (s *FileStore) UpdateIndex(fn func(idx map[string]Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.readIndexLocked()
	fn(idx)
	return s.writeIndexLocked(idx)
}

func (s *FileStore) writeIndexLocked(idx map[string]Record) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	clean := make(map[string]Record, len(idx))
	for id, r := range idx {
		r = r.Clone()
		r.ID = ""
		r.Origin = ""
		clean[id] = r
	}
	data, err := marshalIndent(clean)
	if err != nil {
		return fmt.Errorf("encode template index: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.dir, IndexFile), data)
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
