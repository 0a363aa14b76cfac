// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderers

import (
	"context"
	"errors"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"blockpress/internal/blocks"
)

const (
	msgImageMissingMedia = "(Image block: Media not selected or object_key missing)"
	msgImageDimensions   = "(Image block: Image dimensions are missing or invalid)"
	defaultImageAlt      = "Uploaded image"
)

// blurDataURL only admits inline base64 raster images.
var blurDataURL = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp|gif);base64,[A-Za-z0-9+/]+=*$`)

type imageRenderer struct {
	tmpl   *template.Template
	assets AssetURLer
}

type imageData struct {
	URL     string
	Alt     string
	Caption string
	Width   int
	Height  int
	Blur    template.CSS
	Eager   bool
}

func newImage(assets AssetURLer) (blocks.Renderer[blocks.ImageContent], error) {
	if assets == nil {
		return nil, errors.New("image renderer: no asset URL provider configured")
	}
	tmpl, err := parseTemplate("image.html", nil)
	if err != nil {
		return nil, err
	}
	return &imageRenderer{tmpl: tmpl, assets: assets}, nil
}

func (r *imageRenderer) Render(in blocks.Input[blocks.ImageContent]) templ.Component {
	switch {
	case errors.Is(in.Err, blocks.ErrMissingMedia):
		return notice("image", msgImageMissingMedia)
	case errors.Is(in.Err, blocks.ErrInvalidDimensions):
		return notice("image", msgImageDimensions)
	case in.Err != nil:
		return notice("image", msgImageMissingMedia)
	}

	c := in.Content
	w, h, _ := c.Dimensions()
	data := imageData{
		URL:     r.assets.FileURL(c.Key()),
		Alt:     c.AltText,
		Caption: c.Caption,
		Width:   w,
		Height:  h,
	}
	if strings.TrimSpace(data.Alt) == "" {
		data.Alt = defaultImageAlt
	}
	if c.BlurDataURL != nil && blurDataURL.MatchString(*c.BlurDataURL) {
		data.Blur = template.CSS("background-image:url(" + *c.BlurDataURL + ");background-size:cover")
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := data
		data.Eager = blocks.InCriticalPath(ctx)
		return execute(r.tmpl, data).Render(ctx, w)
	})
}
