package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yamala-stream/DashSEO/internal/analytics"
	"github.com/yamala-stream/DashSEO/internal/api"
	"github.com/yamala-stream/DashSEO/internal/handler"
	"github.com/yamala-stream/DashSEO/internal/prompt"
	"github.com/yamala-stream/DashSEO/internal/session"
	"github.com/yamala-stream/DashSEO/internal/store"
)

const recorderQueueSize = 256

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.openDB(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := e.repo.Seed(ctx); err != nil {
				e.log.Warn("seeding template directory failed", "dir", e.cfg.Templates.Dir, "err", err)
			}

			prompts := store.NewPromptStore(e.db)
			keywords := store.NewKeywordStore(e.db)

			// Prompts are written by a single background writer that drains on shutdown.
			recorder := store.NewAsyncRecorder(prompts, recorderQueueSize, e.log)
			writerDone := make(chan struct{})
			go func() {
				recorder.Run(ctx)
				close(writerDone)
			}()

			sessionManager := session.NewManager(e.db, e.cfg.DB.Driver, e.cfg.SessionLifetime, !e.cfg.InsecureCookies)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				Pinger:         e.db,
				API: api.Deps{
					Templates: e.repo,
					Assembler: prompt.NewAssembler(prompt.WithRecorder(recorder), prompt.WithLogger(e.log)),
					Prompts:   prompts,
					Keywords:  keywords,
					Analytics: analytics.NewService(prompts, keywords, e.repo),
					Logger:    e.log,
				},
			})

			srv := &http.Server{
				Addr:              e.cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.log.Info("listening", "addr", e.cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			var serveErr error
			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					serveErr = err
				}
			case <-ctx.Done():
				e.log.Info("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				e.log.Warn("http shutdown", "err", err)
			}

			stop()
			<-writerDone
			return serveErr
		},
	}
}
