// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderers holds the concrete renderer for each built-in block
// type. The hero renderer is built eagerly with NewHero and handed to the
// dispatcher; Install registers the factories of every other renderer with
// a loader, so their templates are parsed the first time a page needs them.
package renderers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
	"blockpress/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// AssetURLer turns a media object key into a displayable URL.
// storage.Client and storage.StaticURL implement it.
type AssetURLer interface {
	FileURL(key string) string
}

// PostLister supplies published posts for the posts grid.
type PostLister interface {
	ListPublished(ctx context.Context, languageID int64, limit, offset int) ([]models.Post, error)
	CountPublished(ctx context.Context, languageID int64) (int, error)
}

// Deps are the external collaborators renderers read from.
type Deps struct {
	Assets AssetURLer
	Posts  PostLister
}

// Install provides every deferred renderer to l.
func Install(l *blocks.Loader, deps Deps) {
	blocks.Provide(l, blocks.RendererText, newText)
	blocks.Provide(l, blocks.RendererHeading, newHeading)
	blocks.Provide(l, blocks.RendererImage, func() (blocks.Renderer[blocks.ImageContent], error) {
		return newImage(deps.Assets)
	})
	blocks.Provide(l, blocks.RendererButton, newButton)
	blocks.Provide(l, blocks.RendererPostsGrid, func() (blocks.Renderer[blocks.PostsGridContent], error) {
		return newPostsGrid(deps.Posts, deps.Assets)
	})
	blocks.Provide(l, blocks.RendererSection, newSection)
}

// parseTemplate loads one embedded template file. The template's name is
// the file name, and execute runs it by that name.
func parseTemplate(file string, funcs template.FuncMap) (*template.Template, error) {
	t, err := template.New(file).Funcs(funcs).ParseFS(templateFS, "templates/"+file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return t, nil
}

// execute returns a component that renders t with data.
func execute(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return fmt.Errorf("execute %s: %w", t.Name(), err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// notice renders the "block not ready" placeholder used for incomplete content.
func notice(kind, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="block-notice block-notice--`+templ.EscapeString(kind)+`">`+
			templ.EscapeString(message)+`</div>`)
		return err
	})
}
