package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Keyword represents a row in the keywords table.
type Keyword struct {
	ID         string     `db:"id" json:"id"`
	Keyword    string     `db:"keyword" json:"keyword"`
	Type       string     `db:"type" json:"type"`
	Category   string     `db:"category" json:"category"`
	Source     string     `db:"source" json:"source"`
	UsageCount int        `db:"usage_count" json:"usage_count"`
	LastUsed   *time.Time `db:"last_used" json:"last_used,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// KeywordStore is the sqlx-backed store for keyword usage.
type KeywordStore struct {
	db *sqlx.DB
}

func NewKeywordStore(db *sqlx.DB) *KeywordStore {
	return &KeywordStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *KeywordStore) q(query string) string { return s.db.Rebind(query) }

// ListByType returns keywords of the given type, most used first.
func (s *KeywordStore) ListByType(ctx context.Context, typ string) ([]*Keyword, error) {
	var keywords []*Keyword
	err := s.db.SelectContext(ctx, &keywords, s.q(`
		SELECT * FROM keywords WHERE type = ? ORDER BY usage_count DESC, keyword ASC
	`), typ)
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// Top returns the limit most used keywords of the given type.
func (s *KeywordStore) Top(ctx context.Context, typ string, limit int) ([]*Keyword, error) {
	var keywords []*Keyword
	err := s.db.SelectContext(ctx, &keywords, s.q(`
		SELECT * FROM keywords WHERE type = ? ORDER BY usage_count DESC, keyword ASC LIMIT ?
	`), typ, limit)
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// Get returns the keyword with the given text and type, or ErrNotFound.
func (s *KeywordStore) Get(ctx context.Context, keyword, typ string) (*Keyword, error) {
	var k Keyword
	err := s.db.GetContext(ctx, &k, s.q(`SELECT * FROM keywords WHERE keyword = ? AND type = ?`), keyword, typ)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Add registers a keyword without counting a use. Adding an existing
// keyword returns the stored row unchanged.
func (s *KeywordStore) Add(ctx context.Context, keyword, typ, category, source string) (*Keyword, error) {
	if k, err := s.Get(ctx, keyword, typ); err == nil {
		return k, nil
	} else if err != ErrNotFound {
		return nil, err
	}
	now := time.Now().UTC()
	k := &Keyword{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		Type:      typ,
		Category:  category,
		Source:    source,
		CreatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO keywords (id, keyword, type, category, source, usage_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`), k.ID, k.Keyword, k.Type, k.Category, k.Source, k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Delete removes a keyword by ID.
func (s *KeywordStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM keywords WHERE id = ?`), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// bump counts one use of keyword, inserting the row on first use.
func (s *KeywordStore) bump(ctx context.Context, tx *sqlx.Tx, keyword, typ, category string, at time.Time) error {
	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE keywords SET usage_count = usage_count + 1, last_used = ?, category = ?
		WHERE keyword = ? AND type = ?
	`), at, category, keyword, typ)
	if err != nil {
		return fmt.Errorf("bump keyword %q: %w", keyword, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO keywords (id, keyword, type, category, source, usage_count, last_used, created_at)
		VALUES (?, ?, ?, ?, 'prompt', 1, ?, ?)
	`), uuid.New().String(), keyword, typ, category, at, at)
	if err != nil {
		return fmt.Errorf("insert keyword %q: %w", keyword, err)
	}
	return nil
}
