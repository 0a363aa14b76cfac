// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders complete public documents. It dispatches the
// ordered blocks of a page or post, renders the resulting view and wraps the
// output in the site layout, which inlines the critical CSS and loads the
// remaining stylesheet without blocking first paint.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"slices"
	"time"

	"blockpress/internal/blocks"
	"blockpress/internal/models"
)

//go:embed templates/layout.html
var layoutHTML string

//go:embed templates/critical.css
var criticalCSS string

// DefaultStylesheetURL is where the non-critical block stylesheet is served.
const DefaultStylesheetURL = "/static/blocks.css"

// AssetURLer turns a storage object key into a public URL.
type AssetURLer interface {
	FileURL(key string) string
}

// Options configures an Engine.
type Options struct {
	SiteName      string
	StylesheetURL string
	// Assets resolves post feature images. Nil disables them.
	Assets AssetURLer
}

// documentData holds the variables available to the layout template.
type documentData struct {
	LanguageCode    string
	Kind            string
	Title           string
	SiteName        string
	MetaDescription string
	CriticalCSS     template.CSS
	StylesheetURL   string
	Body            template.HTML
	PublishedAt     string
	PublishedISO    string
	FeatureImageURL string
	Year            int
}

// Engine renders pages and posts through a block dispatcher.
type Engine struct {
	dispatcher *blocks.Dispatcher
	layout     *template.Template
	opts       Options
}

// New parses the layout and returns an engine using d for block dispatch.
func New(d *blocks.Dispatcher, opts Options) (*Engine, error) {
	layout, err := template.New("layout").Parse(layoutHTML)
	if err != nil {
		return nil, fmt.Errorf("compile layout: %w", err)
	}
	if opts.StylesheetURL == "" {
		opts.StylesheetURL = DefaultStylesheetURL
	}
	return &Engine{dispatcher: d, layout: layout, opts: opts}, nil
}

// RenderPage renders a page document. The boolean reports whether every
// block rendered its final output; incomplete documents contain placeholders
// and must not be cached.
func (e *Engine) RenderPage(ctx context.Context, lang *models.Language, page *models.Page, bs []models.Block) ([]byte, bool, error) {
	body, complete, err := e.renderBlocks(ctx, bs, lang.ID)
	if err != nil {
		return nil, false, fmt.Errorf("render page %q: %w", page.Slug, err)
	}

	data := e.document(lang, "page", page.Title, body)
	if page.MetaTitle != nil && *page.MetaTitle != "" {
		data.Title = *page.MetaTitle
	}
	if page.MetaDescription != nil {
		data.MetaDescription = *page.MetaDescription
	}

	out, err := e.execute(data)
	if err != nil {
		return nil, false, err
	}
	return out, complete, nil
}

// RenderPost renders a post document with its title, date and feature image
// above the blocks.
func (e *Engine) RenderPost(ctx context.Context, lang *models.Language, post *models.Post, bs []models.Block) ([]byte, bool, error) {
	body, complete, err := e.renderBlocks(ctx, bs, lang.ID)
	if err != nil {
		return nil, false, fmt.Errorf("render post %q: %w", post.Slug, err)
	}

	data := e.document(lang, "post", post.Title, body)
	if post.MetaDescription != nil {
		data.MetaDescription = *post.MetaDescription
	} else if post.Excerpt != nil {
		data.MetaDescription = *post.Excerpt
	}
	if post.PublishedAt != nil {
		data.PublishedAt = post.PublishedAt.Format("January 2, 2006")
		data.PublishedISO = post.PublishedAt.Format(time.RFC3339)
	}
	if post.FeatureImageKey != nil && e.opts.Assets != nil {
		data.FeatureImageURL = e.opts.Assets.FileURL(*post.FeatureImageKey)
	}

	out, err := e.execute(data)
	if err != nil {
		return nil, false, err
	}
	return out, complete, nil
}

// renderBlocks puts bs in rendering order, dispatches them and renders the
// view. The view is always closed before returning so late resolutions do
// not touch it.
func (e *Engine) renderBlocks(ctx context.Context, bs []models.Block, languageID int64) (template.HTML, bool, error) {
	bs = slices.Clone(bs)
	blocks.SortBlocks(bs)

	view := e.dispatcher.Dispatch(ctx, bs, languageID)
	defer view.Close()

	var buf bytes.Buffer
	if err := view.Render(ctx, &buf); err != nil {
		return "", false, err
	}
	complete := view.Complete()
	if !complete {
		slog.Debug("view rendered with placeholders", "blocks", view.Len())
	}
	return template.HTML(buf.String()), complete, nil
}

func (e *Engine) document(lang *models.Language, kind, title string, body template.HTML) documentData {
	return documentData{
		LanguageCode:  lang.Code,
		Kind:          kind,
		Title:         title,
		SiteName:      e.opts.SiteName,
		CriticalCSS:   template.CSS(criticalCSS),
		StylesheetURL: e.opts.StylesheetURL,
		Body:          body,
		Year:          time.Now().Year(),
	}
}

func (e *Engine) execute(data documentData) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.layout.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}
	return buf.Bytes(), nil
}
