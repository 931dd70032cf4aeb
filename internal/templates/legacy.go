package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yamala-stream/DashSEO/internal/logger"
)

// legacyTemplate is the prompt_body file format of older template folders.
type legacyTemplate struct {
	TemplateName string `json:"template_name" yaml:"template_name"`
	Intent       string `json:"intent" yaml:"intent"`
	Tone         string `json:"tone" yaml:"tone"`
	Schema       string `json:"schema" yaml:"schema"`
	PromptBody   string `json:"prompt_body" yaml:"prompt_body"`
}

// LoadLegacyDir converts every prompt_body template in dir (*.json, *.yaml,
// *.yml) into a Record keyed by file stem. Files without a prompt_body are
// ignored; unreadable ones are skipped with a warning. A missing dir yields
// no records and no error.
func LoadLegacyDir(dir string, log *logger.Logger) ([]Record, error) {
	log = logger.OrNop(log)
	if dir == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat legacy template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("legacy template path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read legacy template dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Record
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		lt, err := readLegacy(p, ext)
		if err != nil {
			log.Warn("skipping legacy template", "file", p, "err", err)
			continue
		}
		if lt.PromptBody == "" {
			continue
		}
		out = append(out, lt.record(trimExt(e.Name())))
	}
	return out, nil
}

func readLegacy(path, ext string) (legacyTemplate, error) {
	var lt legacyTemplate
	data, err := os.ReadFile(path)
	if err != nil {
		return lt, err
	}
	if ext == ".json" {
		err = json.Unmarshal(data, &lt)
	} else {
		err = yaml.Unmarshal(data, &lt)
	}
	return lt, err
}

func (lt legacyTemplate) record(id string) Record {
	r := Record{
		ID:       id,
		Name:     lt.TemplateName,
		Intent:   lt.Intent,
		Tone:     lt.Tone,
		Schema:   lt.Schema,
		Category: lt.Intent,
		Body:     lt.PromptBody,
	}
	if r.Name == "" {
		r.Name = id
	}
	if r.Category == "" {
		r.Category = "Other"
	}
	r.Body, r.Fields, _ = Extract(r.Body)
	return r
}
