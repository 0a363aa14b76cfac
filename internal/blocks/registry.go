// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks is the block content model and rendering dispatch engine.
// Stored blocks carry an opaque JSON payload and a type tag; the Registry
// maps each tag to a Definition that knows how to narrow the payload to a
// typed content value, and the Dispatcher turns an ordered block list into
// an ordered View of renderable nodes. The hero block is rendered through a
// renderer held directly by the Dispatcher; every other type is resolved by
// name through the Loader the first time it is needed.
package blocks

import (
	"fmt"
	"reflect"

	"github.com/a-h/templ"

	"blockpress/internal/models"
)

// Block type tags. The registry built by DefaultRegistry is the closed set.
const (
	TypeHero      = "hero"
	TypeText      = "text"
	TypeHeading   = "heading"
	TypeImage     = "image"
	TypeButton    = "button"
	TypePostsGrid = "posts_grid"
	TypeSection   = "section"
)

// Renderer names resolved through the Loader.
const (
	RendererHero      = "HeroBlock"
	RendererText      = "TextBlock"
	RendererHeading   = "HeadingBlock"
	RendererImage     = "ImageBlock"
	RendererButton    = "ButtonBlock"
	RendererPostsGrid = "PostsGridBlock"
	RendererSection   = "SectionBlock"
)

// Props declares which input shape a block type's renderer receives.
type Props int

const (
	// PropsContent passes the typed content and the language ID.
	PropsContent Props = iota
	// PropsContentAndBlock additionally passes the full stored block.
	PropsContentAndBlock
)

func (p Props) String() string {
	if p == PropsContentAndBlock {
		return "content+block"
	}
	return "content"
}

// Input is what a renderer receives for one block. Err is non-nil when the
// content is incomplete (see ErrIncomplete); Content then holds whatever
// could be decoded. Block is set only for PropsContentAndBlock definitions.
type Input[C Content] struct {
	Content    C
	Err        error
	LanguageID int64
	Block      *models.Block
}

// Renderer turns typed block input into a renderable node.
type Renderer[C Content] interface {
	Render(in Input[C]) templ.Component
}

// RendererFunc adapts a function to Renderer.
type RendererFunc[C Content] func(in Input[C]) templ.Component

// Render calls f(in).
func (f RendererFunc[C]) Render(in Input[C]) templ.Component { return f(in) }

// Definition is a registry entry. It is created by Define, which captures
// the content type so a renderer can only be bound to the shape it accepts.
type Definition struct {
	Type         string
	Label        string
	RendererName string
	Schema       string
	Props        Props

	bind binding
}

// binding is the type-erased half of a Definition.
type binding interface {
	// node narrows the block content and asks r for its node. It fails with
	// ErrRendererMismatch if r does not accept the definition's content type.
	node(r any, props Props, b *models.Block, languageID int64) (templ.Component, error)
	accepts(r any) bool
}

type typedBinding[C Content] struct{}

func (typedBinding[C]) accepts(r any) bool {
	_, ok := r.(Renderer[C])
	return ok
}

func (typedBinding[C]) node(r any, props Props, b *models.Block, languageID int64) (templ.Component, error) {
	rr, ok := r.(Renderer[C])
	if !ok {
		return nil, fmt.Errorf("%w: %T does not render %s", ErrRendererMismatch, r, reflect.TypeFor[C]().Name())
	}
	content, err := Decode[C](b.Content)
	in := Input[C]{Content: content, Err: err, LanguageID: languageID}
	if props == PropsContentAndBlock {
		in.Block = b
	}
	return rr.Render(in), nil
}

// Define creates a Definition whose renderer must implement Renderer[C].
func Define[C Content](blockType, label, rendererName string, props Props) Definition {
	return Definition{
		Type:         blockType,
		Label:        label,
		RendererName: rendererName,
		Schema:       reflect.TypeFor[C]().Name(),
		Props:        props,
		bind:         typedBinding[C]{},
	}
}

// Accepts reports whether r can render this definition's content type.
func (d *Definition) Accepts(r any) bool {
	return d.bind != nil && d.bind.accepts(r)
}

// Registry maps block type tags to definitions. It is immutable after
// NewRegistry returns and safe for concurrent reads.
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// NewRegistry builds a registry from defs. A duplicate or empty type tag,
// or a definition not created by Define, is a programming error and panics.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if d.Type == "" || d.bind == nil {
			panic(fmt.Sprintf("blocks: invalid definition %q (use Define)", d.Type))
		}
		if _, dup := r.defs[d.Type]; dup {
			panic(fmt.Sprintf("blocks: block type %q defined twice", d.Type))
		}
		r.defs[d.Type] = &d
		r.order = append(r.order, d.Type)
	}
	return r
}

// DefaultRegistry returns the registry of all built-in block types.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Define[HeroContent](TypeHero, "Hero", RendererHero, PropsContent),
		Define[TextContent](TypeText, "Text", RendererText, PropsContent),
		Define[HeadingContent](TypeHeading, "Heading", RendererHeading, PropsContent),
		Define[ImageContent](TypeImage, "Image", RendererImage, PropsContent),
		Define[ButtonContent](TypeButton, "Button", RendererButton, PropsContent),
		Define[PostsGridContent](TypePostsGrid, "Posts Grid", RendererPostsGrid, PropsContentAndBlock),
		Define[SectionContent](TypeSection, "Section", RendererSection, PropsContent),
	)
}

// Lookup returns the definition for a block type tag.
func (r *Registry) Lookup(blockType string) (*Definition, bool) {
	d, ok := r.defs[blockType]
	return d, ok
}

// Types returns the known type tags in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Definitions returns copies of all definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, *r.defs[t])
	}
	return out
}
