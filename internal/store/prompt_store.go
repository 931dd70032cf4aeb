package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PromptEvent is one generated prompt to be recorded.
type PromptEvent struct {
	TemplateID        string
	PrimaryKeyword    string
	Category          string
	Audience          string
	SecondaryKeywords []string
	PromptText        string
	CreatedAt         time.Time // zero = now
}

// SecondaryText is the stored form of the secondary keyword list.
func (e PromptEvent) SecondaryText() string {
	return strings.Join(e.SecondaryKeywords, ", ")
}

// Prompt is a row in the prompts table.
type Prompt struct {
	ID             string    `db:"id" json:"id"`
	CreatedAt      time.Time `db:"created_at" json:"timestamp"`
	TemplateID     string    `db:"template_id" json:"template_id"`
	PrimaryKeyword string    `db:"primary_keyword" json:"primary_keyword"`
	Category       string    `db:"category" json:"category"`
	Audience       string    `db:"audience" json:"audience"`
	Secondary      string    `db:"secondary" json:"secondary"`
	PromptText     string    `db:"prompt_text" json:"prompt_text"`
}

// TemplateUsage aggregates prompts per template.
type TemplateUsage struct {
	TemplateID string    `json:"template_id"`
	UsageCount int       `json:"usage_count"`
	LastUsed   time.Time `json:"last_used"`
}

// PromptStore is the sqlx-backed store for generated prompts.
type PromptStore struct {
	db       *sqlx.DB
	keywords *KeywordStore
}

// NewPromptStore creates a new PromptStore.
func NewPromptStore(db *sqlx.DB) *PromptStore {
	return &PromptStore{db: db, keywords: NewKeywordStore(db)}
}

// q rebinds ? placeholders to the driver's native format.
func (s *PromptStore) q(query string) string { return s.db.Rebind(query) }

// RecordPrompt inserts the prompt row and bumps usage of the primary keyword
// and of every secondary keyword, in one transaction.
func (s *PromptStore) RecordPrompt(ctx context.Context, e PromptEvent) error {
	now := e.CreatedAt.UTC()
	if e.CreatedAt.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO prompts (id, created_at, template_id, primary_keyword, category, audience, secondary, prompt_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), uuid.New().String(), now, e.TemplateID, e.PrimaryKeyword, e.Category, e.Audience, e.SecondaryText(), e.PromptText)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}

	if kw := strings.TrimSpace(e.PrimaryKeyword); kw != "" {
		if err := s.keywords.bump(ctx, tx, kw, KeywordPrimary, e.Category, now); err != nil {
			return err
		}
	}
	for _, kw := range e.SecondaryKeywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if err := s.keywords.bump(ctx, tx, kw, KeywordSecondary, e.Category, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get returns a single prompt by id, or ErrNotFound.
func (s *PromptStore) Get(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM prompts WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPrompts returns every recorded prompt, newest first.
func (s *PromptStore) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var prompts []Prompt
	err := s.db.SelectContext(ctx, &prompts, `SELECT * FROM prompts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// RecentPrompts returns the newest limit prompts.
func (s *PromptStore) RecentPrompts(ctx context.Context, limit int) ([]Prompt, error) {
	var prompts []Prompt
	err := s.db.SelectContext(ctx, &prompts, s.q(`
		SELECT * FROM prompts ORDER BY created_at DESC LIMIT ?
	`), limit)
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

// Count returns the number of recorded prompts.
func (s *PromptStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM prompts`)
	return n, err
}

// TemplateUsage returns per-template prompt counts with the time of the most
// recent use, most used first.
func (s *PromptStore) TemplateUsage(ctx context.Context) ([]TemplateUsage, error) {
	var rows []struct {
		TemplateID string    `db:"template_id"`
		CreatedAt  time.Time `db:"created_at"`
	}
	err := s.db.SelectContext(ctx, &rows, `SELECT template_id, created_at FROM prompts`)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*TemplateUsage)
	for _, r := range rows {
		u, ok := byID[r.TemplateID]
		if !ok {
			u = &TemplateUsage{TemplateID: r.TemplateID}
			byID[r.TemplateID] = u
		}
		u.UsageCount++
		if r.CreatedAt.After(u.LastUsed) {
			u.LastUsed = r.CreatedAt
		}
	}

	usage := make([]TemplateUsage, 0, len(byID))
	for _, u := range byID {
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].UsageCount != usage[j].UsageCount {
			return usage[i].UsageCount > usage[j].UsageCount
		}
		return usage[i].TemplateID < usage[j].TemplateID
	})
	return usage, nil
}
