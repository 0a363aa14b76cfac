// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blockpress/internal/blocks/renderers"
	"blockpress/internal/cache"
	"blockpress/internal/engine"
	"blockpress/internal/models"
)

// HomeSlug is the slug of the page served at a language root.
const HomeSlug = "home"

// LanguageFinder resolves the active language.
type LanguageFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Language, error)
	Default(ctx context.Context) (*models.Language, error)
}

// PageFinder finds published pages.
type PageFinder interface {
	FindBySlug(ctx context.Context, languageID int64, slug string) (*models.Page, error)
}

// PostFinder finds published posts.
type PostFinder interface {
	FindBySlug(ctx context.Context, languageID int64, slug string) (*models.Post, error)
}

// BlockLister loads the ordered blocks of a page or post.
type BlockLister interface {
	ListByPage(ctx context.Context, pageID, languageID int64) ([]models.Block, error)
	ListByPost(ctx context.Context, postID, languageID int64) ([]models.Block, error)
}

// PageCache is the L2 rendered-page cache.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Recorder receives page cache and render outcomes. *metrics.Metrics
// satisfies it.
type Recorder interface {
	CacheHit()
	CacheMiss()
	CacheSkip()
	PageRendered(kind, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()                   {}
func (nopRecorder) CacheMiss()                  {}
func (nopRecorder) CacheSkip()                  {}
func (nopRecorder) PageRendered(string, string) {}

// PublicDeps holds the collaborators of the public handlers. Cache and
// Metrics may be nil.
type PublicDeps struct {
	Languages LanguageFinder
	Pages     PageFinder
	Posts     PostFinder
	Blocks    BlockLister
	Engine    *engine.Engine
	Cache     PageCache
	Metrics   Recorder
}

// Public groups handlers for the public-facing site. Each request resolves
// the language, loads the page or post and its blocks, and renders them
// through the engine. Complete documents are stored in the L2 page cache;
// documents that still contain placeholders are served but never cached.
type Public struct {
	languages LanguageFinder
	pages     PageFinder
	posts     PostFinder
	blocks    BlockLister
	engine    *engine.Engine
	cache     PageCache
	metrics   Recorder
}

// NewPublic creates a new Public handler group.
func NewPublic(deps PublicDeps) *Public {
	p := &Public{
		languages: deps.Languages,
		pages:     deps.Pages,
		posts:     deps.Posts,
		blocks:    deps.Blocks,
		engine:    deps.Engine,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
	}
	if p.metrics == nil {
		p.metrics = nopRecorder{}
	}
	return p
}

// Homepage renders the home page of the default language.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	lang, err := p.languages.Default(r.Context())
	if err != nil {
		slog.Error("find default language failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if lang == nil {
		http.NotFound(w, r)
		return
	}
	p.servePage(w, r, lang, HomeSlug)
}

// LanguageHome renders the home page of the language in the URL.
func (p *Public) LanguageHome(w http.ResponseWriter, r *http.Request) {
	lang, ok := p.language(w, r)
	if !ok {
		return
	}
	p.servePage(w, r, lang, HomeSlug)
}

// Page renders a published page by language and slug.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	lang, ok := p.language(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	if msg := validateSlug(slug); msg != "" {
		slog.Debug("rejected page slug", "slug", slug, "reason", msg)
		http.NotFound(w, r)
		return
	}
	p.servePage(w, r, lang, slug)
}

// Post renders a published post by language and slug.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang, ok := p.language(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	if msg := validateSlug(slug); msg != "" {
		slog.Debug("rejected post slug", "slug", slug, "reason", msg)
		http.NotFound(w, r)
		return
	}

	key := cache.PageKey(lang.Code, "post", slug)
	if p.serveCached(w, r, key) {
		return
	}

	post, err := p.posts.FindBySlug(ctx, lang.ID, slug)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slug, "language", lang.Code)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	bs, err := p.blocks.ListByPost(ctx, post.ID, lang.ID)
	if err != nil {
		slog.Error("list post blocks failed", "error", err, "post_id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, complete, err := p.engine.RenderPost(withRequest(ctx, r, lang), lang, post, bs)
	p.respond(w, r, "post", key, rendered, complete, err)
}

func (p *Public) servePage(w http.ResponseWriter, r *http.Request, lang *models.Language, slug string) {
	ctx := r.Context()
	key := cache.PageKey(lang.Code, "page", slug)
	if p.serveCached(w, r, key) {
		return
	}

	page, err := p.pages.FindBySlug(ctx, lang.ID, slug)
	if err != nil {
		slog.Error("find page by slug failed", "error", err, "slug", slug, "language", lang.Code)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		http.NotFound(w, r)
		return
	}

	bs, err := p.blocks.ListByPage(ctx, page.ID, lang.ID)
	if err != nil {
		slog.Error("list page blocks failed", "error", err, "page_id", page.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, complete, err := p.engine.RenderPage(withRequest(ctx, r, lang), lang, page, bs)
	p.respond(w, r, "page", key, rendered, complete, err)
}

// language resolves the {lang} URL parameter. It writes a 404 and returns
// false when the code is malformed or unknown.
func (p *Public) language(w http.ResponseWriter, r *http.Request) (*models.Language, bool) {
	code := chi.URLParam(r, "lang")
	if msg := validateLanguageCode(code); msg != "" {
		slog.Debug("rejected language code", "code", code, "reason", msg)
		http.NotFound(w, r)
		return nil, false
	}
	lang, err := p.languages.FindByCode(r.Context(), code)
	if err != nil {
		slog.Error("find language failed", "error", err, "code", code)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if lang == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return lang, true
}

// serveCached writes a cached document and reports whether it did. Requests
// with a query string bypass the cache since posts grids paginate by query.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if p.cache == nil || r.URL.RawQuery != "" {
		return false
	}
	cached, ok := p.cache.Get(r.Context(), key)
	if !ok {
		p.metrics.CacheMiss()
		return false
	}
	p.metrics.CacheHit()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "HIT")
	w.Write(cached)
	return true
}

func (p *Public) respond(w http.ResponseWriter, r *http.Request, kind, key string, rendered []byte, complete bool, err error) {
	if err != nil {
		p.metrics.PageRendered(kind, "error")
		slog.Error("render failed", "kind", kind, "key", key, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if complete {
		p.metrics.PageRendered(kind, "complete")
		if p.cache != nil && r.URL.RawQuery == "" {
			p.cache.Set(r.Context(), key, rendered)
		}
	} else {
		p.metrics.PageRendered(kind, "partial")
		p.metrics.CacheSkip()
		slog.Info("serving partial render, not cached", "kind", kind, "key", key)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rendered)
}

// withRequest exposes the request path, query and language to renderers
// that build links, such as the posts grid pagination.
func withRequest(ctx context.Context, r *http.Request, lang *models.Language) context.Context {
	return renderers.WithRequestInfo(ctx, renderers.RequestInfo{
		LanguageCode: lang.Code,
		Path:         r.URL.Path,
		Query:        r.URL.Query(),
	})
}
