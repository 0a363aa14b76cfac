// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"blockpress/internal/blocks"
	"blockpress/internal/markdown"
)

// highlightClass matches the chroma class names of highlighted code.
var highlightClass = regexp.MustCompile(`^[a-z0-9]+( [a-z0-9]+)*$`)

type textRenderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

func newText() (blocks.Renderer[blocks.TextContent], error) {
	tmpl, err := parseTemplate("text.html", nil)
	if err != nil {
		return nil, err
	}
	policy := bluemonday.UGCPolicy()
	// Keep the anchors goldmark generates for headings.
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(highlightClass).OnElements("pre", "code", "span")
	return &textRenderer{tmpl: tmpl, policy: policy}, nil
}

func (r *textRenderer) Render(in blocks.Input[blocks.TextContent]) templ.Component {
	src := in.Content.HTMLContent
	if strings.TrimSpace(src) == "" && in.Content.Markdown != "" {
		converted, err := markdown.ToHTML(in.Content.Markdown)
		if err != nil {
			slog.Warn("text block markdown conversion failed", "error", err)
		} else {
			src = converted
		}
	}
	if strings.TrimSpace(src) == "" {
		return templ.NopComponent
	}
	return execute(r.tmpl, struct{ HTML template.HTML }{
		HTML: template.HTML(r.policy.Sanitize(src)),
	})
}
