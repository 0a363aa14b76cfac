// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
	"blockpress/internal/slug"
)

type headingRenderer struct{}

func newHeading() (blocks.Renderer[blocks.HeadingContent], error) {
	return headingRenderer{}, nil
}

// Render writes <hN id="anchor">. An invalid level falls back to h2 so the
// text still shows.
func (headingRenderer) Render(in blocks.Input[blocks.HeadingContent]) templ.Component {
	level := in.Content.Level
	if in.Err != nil || level < 1 || level > 6 {
		level = 2
	}
	text := in.Content.TextContent
	if text == "" {
		return templ.NopComponent
	}
	tag := "h" + strconv.Itoa(level)
	anchor := slug.Generate(text)

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		open := "<" + tag + ` class="block block-heading"`
		if anchor != "" {
			open += ` id="` + templ.EscapeString(anchor) + `"`
		}
		_, err := io.WriteString(w, open+">"+templ.EscapeString(text)+"</"+tag+">")
		return err
	})
}
