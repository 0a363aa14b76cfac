// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
)

var (
	spacingTokens = []string{"md", "none", "sm", "lg", "xl"}
	cssColor      = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20})$`)
	cssLength     = regexp.MustCompile(`^\d{1,4}(\.\d{1,2})?(px|rem|em|vh|svh|dvh|%)$`)
)

type sectionData struct {
	Kind      string
	Container string
	PadTop    string
	PadBottom string
	Gap       string
	Mobile    int
	Tablet    int
	Desktop   int
	Style     template.CSS
	Columns   []template.HTML
}

// layout renders section-shaped content: its columns are rendered through
// the dispatcher as nested blocks, then wrapped by section.html.
type layout struct {
	tmpl *template.Template
}

func newLayout() (*layout, error) {
	tmpl, err := parseTemplate("section.html", nil)
	if err != nil {
		return nil, err
	}
	return &layout{tmpl: tmpl}, nil
}

func (l *layout) component(kind string, c blocks.SectionContent, minHeight string, languageID int64) templ.Component {
	data := sectionData{
		Kind:      kind,
		Container: c.ContainerOrDefault(),
		PadTop:    token(c.Padding.Top, spacingTokens),
		PadBottom: token(c.Padding.Bottom, spacingTokens),
		Gap:       token(c.ColumnGap, spacingTokens),
	}
	data.Mobile, data.Tablet, data.Desktop = columnCounts(c)

	var style []string
	if cssColor.MatchString(c.BackgroundColor) {
		style = append(style, "background-color:"+c.BackgroundColor)
	}
	if cssLength.MatchString(minHeight) {
		style = append(style, "min-height:"+minHeight)
	}
	data.Style = template.CSS(strings.Join(style, ";"))

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := data
		data.Columns = make([]template.HTML, 0, len(c.ColumnBlocks))
		for _, col := range c.ColumnBlocks {
			var buf bytes.Buffer
			if err := blocks.RenderChildren(ctx, &buf, col, languageID); err != nil {
				return err
			}
			data.Columns = append(data.Columns, template.HTML(buf.String()))
		}
		return execute(l.tmpl, data).Render(ctx, w)
	})
}

// columnCounts fills unset breakpoints: mobile defaults to one column, the
// larger breakpoints to the number of stored columns.
func columnCounts(c blocks.SectionContent) (mobile, tablet, desktop int) {
	n := min(max(len(c.ColumnBlocks), 1), blocks.MaxSectionColumns)
	clamp := func(v, def int) int {
		if v < 1 || v > blocks.MaxSectionColumns {
			return def
		}
		return v
	}
	desktop = clamp(c.ResponsiveColumns.Desktop, n)
	tablet = clamp(c.ResponsiveColumns.Tablet, desktop)
	mobile = clamp(c.ResponsiveColumns.Mobile, 1)
	return mobile, tablet, desktop
}

func token(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

type sectionRenderer struct{ *layout }

func newSection() (blocks.Renderer[blocks.SectionContent], error) {
	l, err := newLayout()
	if err != nil {
		return nil, err
	}
	return sectionRenderer{l}, nil
}

// Render lays out the section even when some settings are out of range;
// they fall back to defaults, and children with a bad type render the
// unsupported notice.
func (r sectionRenderer) Render(in blocks.Input[blocks.SectionContent]) templ.Component {
	return r.component("section", in.Content, "", in.LanguageID)
}

type heroRenderer struct{ *layout }

// NewHero builds the hero renderer. It is held by the dispatcher directly
// and never goes through a loader.
func NewHero() (blocks.Renderer[blocks.HeroContent], error) {
	l, err := newLayout()
	if err != nil {
		return nil, err
	}
	return heroRenderer{l}, nil
}

func (r heroRenderer) Render(in blocks.Input[blocks.HeroContent]) templ.Component {
	return r.component("hero", in.Content.SectionContent, in.Content.MinHeight, in.LanguageID)
}
