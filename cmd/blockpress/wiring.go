package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"blockpress/internal/blocks"
	"blockpress/internal/blocks/renderers"
	"blockpress/internal/database"
	"blockpress/internal/metrics"
	"blockpress/internal/storage"
	"blockpress/internal/store"
)

// openDB connects to PostgreSQL using the loaded configuration.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Connect(ctx, a.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// storageClient returns the S3 client, or nil when S3 is not configured.
func (a *app) storageClient() (*storage.Client, error) {
	if !a.cfg.HasS3() {
		return nil, nil
	}
	client, err := storage.New(
		a.cfg.S3Endpoint, a.cfg.S3Region, a.cfg.S3AccessKey, a.cfg.S3SecretKey,
		a.cfg.S3Bucket, a.cfg.S3PublicURL,
	)
	if err != nil {
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}
	return client, nil
}

// assets picks the asset URL builder: S3 when configured, else the static
// base URL. It also returns the origins images are served from, for the CSP.
func (a *app) assets() (renderers.AssetURLer, []string, error) {
	client, err := a.storageClient()
	if err != nil {
		return nil, nil, err
	}

	var u renderers.AssetURLer
	var base string
	switch {
	case client != nil:
		u = client
		base = client.FileURL("")
		slog.Info("s3 storage connected", "endpoint", a.cfg.S3Endpoint, "bucket", client.Bucket())
	case a.cfg.AssetBaseURL != "":
		u = storage.StaticURL(a.cfg.AssetBaseURL)
		base = a.cfg.AssetBaseURL
	default:
		slog.Warn("no asset storage configured; image blocks will fail to resolve")
		return nil, nil, nil
	}

	var origins []string
	if parsed, err := url.Parse(base); err == nil && parsed.Host != "" {
		origins = append(origins, parsed.Scheme+"://"+parsed.Host)
	}
	return u, origins, nil
}

// dispatcher builds the block dispatcher with every renderer installed.
// m may be nil.
func (a *app) dispatcher(db *sql.DB, assets renderers.AssetURLer, m *metrics.Metrics) (*blocks.Dispatcher, error) {
	loader := blocks.NewLoader()
	deps := renderers.Deps{Assets: assets}
	if db != nil {
		deps.Posts = store.NewPostStore(db)
	}
	renderers.Install(loader, deps)

	hero, err := renderers.NewHero()
	if err != nil {
		return nil, fmt.Errorf("build hero renderer: %w", err)
	}

	opts := []blocks.Option{blocks.WithResolveWait(a.cfg.ResolveWait)}
	if m != nil {
		loader.OnResolve(m.ObserveResolve)
		opts = append(opts, blocks.WithDispatchObserver(m.ObserveDispatch))
	}
	return blocks.NewDispatcher(blocks.DefaultRegistry(), loader, hero, opts...), nil
}
