// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
)

type buttonRenderer struct {
	tmpl *template.Template
}

type buttonData struct {
	Text     string
	URL      string
	Class    string
	External bool
}

func newButton() (blocks.Renderer[blocks.ButtonContent], error) {
	tmpl, err := parseTemplate("button.html", nil)
	if err != nil {
		return nil, err
	}
	return &buttonRenderer{tmpl: tmpl}, nil
}

func (r *buttonRenderer) Render(in blocks.Input[blocks.ButtonContent]) templ.Component {
	if in.Err != nil {
		return notice("button", "(Button block: text and URL are required)")
	}
	c := in.Content
	return execute(r.tmpl, buttonData{
		Text:     c.Text,
		URL:      c.URL,
		Class:    "btn btn--" + c.VariantOrDefault() + " btn--" + c.SizeOrDefault(),
		External: strings.HasPrefix(c.URL, "http://") || strings.HasPrefix(c.URL, "https://"),
	})
}
