// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete marks content that is structurally valid JSON but not ready
// to render (missing media, invalid dimensions, out-of-range settings).
// Renderers show a placeholder for it; it never aborts dispatch.
var ErrIncomplete = errors.New("blocks: incomplete content")

// IncompleteError describes which field made a content value incomplete.
// errors.Is(err, ErrIncomplete) holds for every IncompleteError.
type IncompleteError struct {
	Field  string
	Reason string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("blocks: incomplete content: %s %s", e.Field, e.Reason)
}

// Is makes IncompleteError match ErrIncomplete.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

func incomplete(field, reason string) error {
	return &IncompleteError{Field: field, Reason: reason}
}

// Content is implemented by every block content shape.
type Content interface {
	Validate() error
}

// Decode narrows a raw content record to the typed content C. A missing or
// null record decodes as an empty object. Decoding and validation failures
// are both reported as ErrIncomplete; the returned value holds whatever
// could be decoded so renderers can still show partial information.
//
// A field of the wrong JSON type is left unset and the rest is still
// decoded and validated, so "width":"800" reports ErrInvalidDimensions like
// a missing width would. Only when validation passes regardless is the type
// error itself returned.
func Decode[C Content](raw json.RawMessage) (C, error) {
	var c C
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, &c); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return c, incomplete("content", "is malformed: "+err.Error())
		}
		if verr := c.Validate(); verr != nil {
			return c, verr
		}
		field := typeErr.Field
		if field == "" {
			field = "content"
		}
		return c, incomplete(field, "must be "+typeErr.Type.String()+", got "+typeErr.Value)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// TextContent is an HTML fragment. Markdown is used only when HTMLContent
// is empty.
type TextContent struct {
	HTMLContent string `json:"html_content"`
	Markdown    string `json:"markdown,omitempty"`
}

// Validate accepts any text, including the empty fragment.
func (c TextContent) Validate() error { return nil }

// HeadingContent is a single heading of level 1 to 6.
type HeadingContent struct {
	Level       int    `json:"level"`
	TextContent string `json:"text_content"`
}

// Validate requires a level in 1..6.
func (c HeadingContent) Validate() error {
	if c.Level < 1 || c.Level > 6 {
		return incomplete("level", fmt.Sprintf("must be between 1 and 6, got %d", c.Level))
	}
	return nil
}

// Image validation errors. Both wrap ErrIncomplete.
var (
	ErrMissingMedia      = &IncompleteError{Field: "media_id", Reason: "or object_key is missing"}
	ErrInvalidDimensions = &IncompleteError{Field: "width/height", Reason: "are missing or invalid"}
)

// ImageContent references an uploaded media object. Width and Height are
// only meaningful together: both must be present and strictly positive.
type ImageContent struct {
	MediaID     *string `json:"media_id"`
	ObjectKey   *string `json:"object_key,omitempty"`
	AltText     string  `json:"alt_text,omitempty"`
	Caption     string  `json:"caption,omitempty"`
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	BlurDataURL *string `json:"blur_data_url,omitempty"`
}

// Validate checks media selection first, then dimensions.
func (c ImageContent) Validate() error {
	if c.MediaID == nil || strings.TrimSpace(*c.MediaID) == "" ||
		c.ObjectKey == nil || strings.TrimSpace(*c.ObjectKey) == "" {
		return ErrMissingMedia
	}
	if _, _, ok := c.Dimensions(); !ok {
		return ErrInvalidDimensions
	}
	return nil
}

// Dimensions returns width and height when both are present and positive.
func (c ImageContent) Dimensions() (width, height int, ok bool) {
	if c.Width == nil || c.Height == nil || *c.Width <= 0 || *c.Height <= 0 {
		return 0, 0, false
	}
	return *c.Width, *c.Height, true
}

// Key returns the object key, or "" when unset.
func (c ImageContent) Key() string {
	if c.ObjectKey == nil {
		return ""
	}
	return *c.ObjectKey
}

// Button variants and sizes. Empty or unknown values fall back to default.
var (
	ButtonVariants = []string{"default", "outline", "secondary", "ghost", "link"}
	ButtonSizes    = []string{"default", "sm", "lg"}
)

// ButtonContent is a call-to-action link styled as a button.
type ButtonContent struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Variant string `json:"variant,omitempty"`
	Size    string `json:"size,omitempty"`
}

// Validate requires a label and a target.
func (c ButtonContent) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return incomplete("text", "is empty")
	}
	if strings.TrimSpace(c.URL) == "" {
		return incomplete("url", "is empty")
	}
	return nil
}

// VariantOrDefault returns Variant if it is a known variant, else "default".
func (c ButtonContent) VariantOrDefault() string {
	return oneOf(c.Variant, ButtonVariants)
}

// SizeOrDefault returns Size if it is a known size, else "default".
func (c ButtonContent) SizeOrDefault() string {
	return oneOf(c.Size, ButtonSizes)
}

func oneOf(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

// Posts grid limits.
const (
	MaxPostsPerPage = 100
	MaxGridColumns  = 6
)

// PostsGridContent configures a localized listing of published posts.
// JSON names follow the camelCase keys the editor stores.
type PostsGridContent struct {
	PostsPerPage   int    `json:"postsPerPage"`
	Columns        int    `json:"columns"`
	ShowPagination bool   `json:"showPagination"`
	Title          string `json:"title,omitempty"`
}

// Validate checks page size and column count ranges.
func (c PostsGridContent) Validate() error {
	if c.PostsPerPage < 1 || c.PostsPerPage > MaxPostsPerPage {
		return incomplete("postsPerPage", fmt.Sprintf("must be between 1 and %d", MaxPostsPerPage))
	}
	if c.Columns < 1 || c.Columns > MaxGridColumns {
		return incomplete("columns", fmt.Sprintf("must be between 1 and %d", MaxGridColumns))
	}
	return nil
}

// ChildBlock is a block-like entry nested in a section column. It has no
// identity of its own; its position in the column defines its order.
type ChildBlock struct {
	BlockType string          `json:"block_type"`
	Content   json.RawMessage `json:"content"`
}

// ResponsiveColumns holds the column count per breakpoint.
type ResponsiveColumns struct {
	Mobile  int `json:"mobile"`
	Tablet  int `json:"tablet"`
	Desktop int `json:"desktop"`
}

// Padding holds vertical section padding tokens (none, sm, md, lg, xl).
type Padding struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

// Section container types.
var ContainerTypes = []string{"container", "full-width", "container-sm", "container-lg", "container-xl"}

// MaxSectionColumns bounds every breakpoint of ResponsiveColumns.
const MaxSectionColumns = 4

// SectionContent is the only recursive content shape: each column holds an
// ordered list of child blocks.
type SectionContent struct {
	ContainerType     string            `json:"container_type"`
	BackgroundColor   string            `json:"background_color,omitempty"`
	ResponsiveColumns ResponsiveColumns `json:"responsive_columns"`
	ColumnGap         string            `json:"column_gap,omitempty"`
	Padding           Padding           `json:"padding"`
	ColumnBlocks      [][]ChildBlock    `json:"column_blocks"`
}

// Validate checks column counts and that every child names a block type.
func (c SectionContent) Validate() error {
	for _, bp := range []struct {
		name string
		n    int
	}{
		{"responsive_columns.mobile", c.ResponsiveColumns.Mobile},
		{"responsive_columns.tablet", c.ResponsiveColumns.Tablet},
		{"responsive_columns.desktop", c.ResponsiveColumns.Desktop},
	} {
		if bp.n < 0 || bp.n > MaxSectionColumns {
			return incomplete(bp.name, fmt.Sprintf("must be between 0 and %d", MaxSectionColumns))
		}
	}
	for i, col := range c.ColumnBlocks {
		for j, child := range col {
			if strings.TrimSpace(child.BlockType) == "" {
				return incomplete(fmt.Sprintf("column_blocks[%d][%d].block_type", i, j), "is empty")
			}
		}
	}
	return nil
}

// ContainerOrDefault returns ContainerType if known, else "container".
func (c SectionContent) ContainerOrDefault() string {
	return oneOf(c.ContainerType, ContainerTypes)
}

// HeroContent is a section payload with an optional minimum height, used
// for the first, layout-critical block of a page.
type HeroContent struct {
	SectionContent
	MinHeight string `json:"min_height,omitempty"`
}
