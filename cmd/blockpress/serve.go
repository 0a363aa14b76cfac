package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blockpress/internal/cache"
	"blockpress/internal/database"
	"blockpress/internal/engine"
	"blockpress/internal/handlers"
	"blockpress/internal/metrics"
	"blockpress/internal/router"
	"blockpress/internal/store"
	"blockpress/web"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	valkey, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkey.Close()

	assets, origins, err := a.assets()
	if err != nil {
		return err
	}

	m := metrics.New()
	dispatcher, err := a.dispatcher(db, assets, m)
	if err != nil {
		return err
	}
	// Fail fast on a misconfigured renderer.
	if err := dispatcher.Verify(ctx); err != nil {
		return fmt.Errorf("verify block renderers: %w", err)
	}

	eng, err := engine.New(dispatcher, engine.Options{
		SiteName: cfg.SiteName,
		Assets:   assets,
	})
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	pageCache := cache.NewPageCache(valkey, cfg.PageCacheTTL).WithLog(store.NewCacheLogStore(db))
	public := handlers.NewPublic(handlers.PublicDeps{
		Languages: store.NewLanguageStore(db),
		Pages:     store.NewPageStore(db),
		Posts:     store.NewPostStore(db),
		Blocks:    store.NewBlockStore(db),
		Engine:    eng,
		Cache:     pageCache,
		Metrics:   m,
	})

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	r := router.New(public, router.Config{
		Metrics:      m.Handler(),
		Static:       static,
		AssetOrigins: origins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "resolve_wait", cfg.ResolveWait)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
