package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Templates struct {
		// Dir holds index.json and one <id>.json per stored template.
		Dir string
		// ImportDir is scanned for legacy prompt_body templates when Dir is seeded.
		ImportDir string
	}
	Log struct {
		Mode string
	}
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Load reads config from an optional .env file, the environment (DASHSEO_
// prefix) and an optional dashseo.yaml. DB_PATH and TEMPLATES_DIR are still
// honoured for existing deployments.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DASHSEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("dashseo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	_ = v.BindEnv("db.dsn", "DASHSEO_DB_DSN", "DB_PATH")
	_ = v.BindEnv("templates.dir", "DASHSEO_TEMPLATES_DIR", "TEMPLATES_DIR")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "data/seo_generator.db")
	v.SetDefault("templates.dir", "data/templates")
	v.SetDefault("templates.import_dir", "prompt_templates")
	v.SetDefault("log.mode", "development")
	v.SetDefault("session.lifetime", "24h")
	v.SetDefault("insecure_cookies", false)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Templates.Dir = v.GetString("templates.dir")
	cfg.Templates.ImportDir = v.GetString("templates.import_dir")
	cfg.Log.Mode = v.GetString("log.mode")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHSEO_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("DASHSEO_DB_DRIVER must be sqlite3, mysql, or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("DASHSEO_DB_DSN is required")
	}
	if cfg.Templates.Dir == "" {
		return nil, fmt.Errorf("DASHSEO_TEMPLATES_DIR is required")
	}

	return cfg, nil
}
