// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"blockpress/internal/models"
)

// CriticalType is the block type rendered through the Dispatcher's own
// renderer reference instead of the Loader. It is the first visible block of
// a page, so its output must never wait on resolution.
const CriticalType = TypeHero

// Path is the rendering path a block took through the Dispatcher.
type Path string

const (
	PathCritical    Path = "critical"
	PathDeferred    Path = "deferred"
	PathUnsupported Path = "unsupported"
)

// DispatchObserver is notified once per dispatched block.
type DispatchObserver func(blockType string, path Path)

// Dispatcher turns ordered block lists into Views.
type Dispatcher struct {
	registry *Registry
	loader   *Loader
	critical Renderer[HeroContent]
	wait     time.Duration
	observe  DispatchObserver
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithResolveWait bounds how long View.Render waits for a node that is still
// resolving before writing its placeholder instead. Zero waits until the
// render context is done.
func WithResolveWait(d time.Duration) Option {
	return func(ds *Dispatcher) { ds.wait = d }
}

// WithDispatchObserver sets a per-block observer, used for metrics.
func WithDispatchObserver(fn DispatchObserver) Option {
	return func(ds *Dispatcher) { ds.observe = fn }
}

// NewDispatcher creates a Dispatcher. critical renders CriticalType blocks
// and must not be nil.
func NewDispatcher(registry *Registry, loader *Loader, critical Renderer[HeroContent], opts ...Option) *Dispatcher {
	if critical == nil {
		panic("blocks: NewDispatcher requires a critical renderer")
	}
	d := &Dispatcher{
		registry: registry,
		loader:   loader,
		critical: critical,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reads.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch maps blocks to an ordered View for languageID. Node i of the
// view always corresponds to blocks[i]. A list containing a block without
// an ID, a type tag or exactly one owner is treated as empty.
//
// The caller owns the View and should Close it once it is no longer rendered.
func (d *Dispatcher) Dispatch(ctx context.Context, blocks []models.Block, languageID int64) *View {
	for i := range blocks {
		if reason := malformed(&blocks[i]); reason != "" {
			slog.WarnContext(ctx, "malformed block list, rendering nothing",
				"index", i,
				"block_id", blocks[i].ID,
				"reason", reason,
				"count", len(blocks),
			)
			return d.dispatch(nil, languageID, depthFrom(ctx))
		}
	}
	return d.dispatch(blocks, languageID, depthFrom(ctx))
}

func malformed(b *models.Block) string {
	switch {
	case b.ID == 0:
		return "missing id"
	case b.BlockType == "":
		return "missing block_type"
	case !b.HasSingleOwner():
		return "owner must be exactly one page or post"
	}
	return ""
}

func (d *Dispatcher) dispatch(blocks []models.Block, languageID int64, depth int) *View {
	v := newView(d, depth, len(blocks))
	for i := range blocks {
		b := blocks[i]
		n := &Node{
			Index:     i,
			BlockID:   b.ID,
			BlockType: b.BlockType,
			settled:   make(chan struct{}),
		}
		v.nodes = append(v.nodes, n)

		def, ok := d.registry.Lookup(b.BlockType)
		switch {
		case !ok:
			n.Path = PathUnsupported
			n.comp = unsupportedNode(&b)
			n.settle(Unsupported)
			slog.Warn("unsupported block type", "block_id", b.ID, "block_type", b.BlockType)

		case def.Type == CriticalType:
			n.Path = PathCritical
			comp, err := def.bind.node(d.critical, def.Props, &b, languageID)
			n.comp, n.err = comp, err
			if err != nil {
				n.settle(Failed)
			} else {
				n.settle(Resolved)
			}

		default:
			n.Path = PathDeferred
			task := d.loader.Resolve(def.RendererName)
			n.task = task
			n.build = func(r any) (templ.Component, error) {
				return def.bind.node(r, def.Props, &b, languageID)
			}
			if task.State().Terminal() {
				// Already resolved by an earlier dispatch: no placeholder.
				v.complete(n)
			} else {
				n.state.Store(int32(Resolving))
				v.watch(n)
			}
		}

		if d.observe != nil {
			d.observe(observedType(n), n.Path)
		}
	}
	return v
}

// observedType keeps metric label cardinality bounded: unknown tags come
// from stored data and are reported under one label.
func observedType(n *Node) string {
	if n.Path == PathUnsupported {
		return "_unsupported"
	}
	return n.BlockType
}

// Compose dispatches blocks one nesting level below ctx and returns a
// component that renders them in order. It skips the malformed-list check
// because nested blocks have no identity of their own.
func (d *Dispatcher) Compose(ctx context.Context, blocks []models.Block, languageID int64) templ.Component {
	depth := depthFrom(ctx) + 1
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if depth > MaxNestingDepth {
			slog.Warn("block nesting too deep", "depth", depth, "max", MaxNestingDepth)
			return nestingNotice().Render(ctx, w)
		}
		v := d.dispatch(blocks, languageID, depth)
		defer v.Close()
		return v.Render(ctx, w)
	})
}

// Verify resolves the renderer of every non-critical definition and checks
// that it accepts the definition's content type. Meant for startup checks
// and the CLI; it resolves everything at once, defeating lazy loading.
func (d *Dispatcher) Verify(ctx context.Context) error {
	if def, ok := d.registry.Lookup(CriticalType); ok && !def.Accepts(d.critical) {
		return fmt.Errorf("%w: critical renderer for %q", ErrRendererMismatch, def.Type)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, def := range d.registry.Definitions() {
		if def.Type == CriticalType {
			continue
		}
		g.Go(func() error {
			r, err := d.loader.Resolve(def.RendererName).Wait(ctx)
			if err != nil {
				return fmt.Errorf("block type %q: %w", def.Type, err)
			}
			if !def.Accepts(r) {
				return fmt.Errorf("block type %q: %w: %T", def.Type, ErrRendererMismatch, r)
			}
			return nil
		})
	}
	return g.Wait()
}
