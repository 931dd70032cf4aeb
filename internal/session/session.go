// Package session keeps per-browser state between API calls, backed by the
// application database.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const (
	lastPromptTextKey     = "last_prompt.text"
	lastPromptTemplateKey = "last_prompt.template_id"
	lastPromptKeywordKey  = "last_prompt.primary_keyword"
	lastPromptCategoryKey = "last_prompt.category"
)

// NewManager creates an SCS session manager backed by the application DB.
// The driver parameter selects the appropriate store: "mysql", "postgres", or
// "sqlite3" (default).
func NewManager(db *sqlx.DB, driver string, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	default: // sqlite3
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "dashseo_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// LastPrompt is the most recently generated prompt of a session, kept so it
// can be saved as a template afterwards.
type LastPrompt struct {
	Text           string
	TemplateID     string
	PrimaryKeyword string
	Category       string
}

// PutLastPrompt replaces the session's last prompt.
func PutLastPrompt(ctx context.Context, sm *scs.SessionManager, p LastPrompt) {
	sm.Put(ctx, lastPromptTextKey, p.Text)
	sm.Put(ctx, lastPromptTemplateKey, p.TemplateID)
	sm.Put(ctx, lastPromptKeywordKey, p.PrimaryKeyword)
	sm.Put(ctx, lastPromptCategoryKey, p.Category)
}

// GetLastPrompt returns the session's last prompt, if one was generated.
func GetLastPrompt(ctx context.Context, sm *scs.SessionManager) (LastPrompt, bool) {
	p := LastPrompt{
		Text:           sm.GetString(ctx, lastPromptTextKey),
		TemplateID:     sm.GetString(ctx, lastPromptTemplateKey),
		PrimaryKeyword: sm.GetString(ctx, lastPromptKeywordKey),
		Category:       sm.GetString(ctx, lastPromptCategoryKey),
	}
	return p, p.Text != ""
}
