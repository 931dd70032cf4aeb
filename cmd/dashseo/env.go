package main

import (
	"github.com/jmoiron/sqlx"

	"github.com/yamala-stream/DashSEO/internal/config"
	"github.com/yamala-stream/DashSEO/internal/db"
	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/templates"
)

// env is what most subcommands share: config, a logger and the template
// repository. The database is opened only by commands that need it.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	repo *templates.Repository
	db   *sqlx.DB
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	repo := templates.NewRepository(templates.Options{
		Dir:       cfg.Templates.Dir,
		ImportDir: cfg.Templates.ImportDir,
		Catalog:   templates.DefaultCatalog(),
		Logger:    log,
	})
	return &env{cfg: cfg, log: log, repo: repo}, nil
}

// openDB connects and migrates the configured database.
func (e *env) openDB() error {
	database, err := db.New(e.cfg.DB.Driver, e.cfg.DB.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(database, e.cfg.DB.Driver); err != nil {
		_ = database.Close()
		return err
	}
	e.db = database
	return nil
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	e.log.Sync()
}
