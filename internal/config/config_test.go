package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "data/seo_generator.db", cfg.DB.DSN)
	assert.Equal(t, "data/templates", cfg.Templates.Dir)
	assert.Equal(t, "prompt_templates", cfg.Templates.ImportDir)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DASHSEO_HTTP_ADDR", ":9090")
	t.Setenv("DB_PATH", "/tmp/legacy.db")
	t.Setenv("DASHSEO_TEMPLATES_DIR", "/tmp/tpl")
	t.Setenv("DASHSEO_SESSION_LIFETIME", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/legacy.db", cfg.DB.DSN)
	assert.Equal(t, "/tmp/tpl", cfg.Templates.Dir)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
}

func TestLoad_InvalidDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DASHSEO_DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidLifetime(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DASHSEO_SESSION_LIFETIME", "soon")

	_, err := Load()
	assert.Error(t, err)
}
