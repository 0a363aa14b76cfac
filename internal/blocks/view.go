// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/a-h/templ"

	"blockpress/internal/models"
)

// MaxNestingDepth is the deepest level at which section children render.
const MaxNestingDepth = 4

var (
	// ErrViewClosed is returned when rendering a View after Close.
	ErrViewClosed = errors.New("blocks: view closed")
	// ErrNoDispatcher is returned by RenderChildren outside of a View render.
	ErrNoDispatcher = errors.New("blocks: no dispatcher in render context")
)

// Node is the dispatched form of one block.
type Node struct {
	Index     int
	BlockID   int64
	BlockType string
	Path      Path

	state   atomic.Int32
	settled chan struct{}

	// Written once before settled is closed.
	comp templ.Component
	err  error

	task  *Task
	build func(r any) (templ.Component, error)
}

// State returns the node's current state.
func (n *Node) State() State { return State(n.state.Load()) }

// Err returns the resolution error of a Failed node.
func (n *Node) Err() error {
	if n.State() != Failed {
		return nil
	}
	return n.err
}

func (n *Node) settle(s State) {
	n.state.Store(int32(s))
	close(n.settled)
}

// View is the ordered output of one dispatch. Node order is fixed when the
// view is created; resolution order never changes it. A View also satisfies
// templ.Component.
type View struct {
	d     *Dispatcher
	depth int
	nodes []*Node

	mu       sync.RWMutex
	closed   bool
	closedCh chan struct{}
	onSettle func(*Node)

	partial atomic.Bool
}

func newView(d *Dispatcher, depth, size int) *View {
	return &View{
		d:        d,
		depth:    depth,
		nodes:    make([]*Node, 0, size),
		closedCh: make(chan struct{}),
	}
}

// Nodes returns the view's nodes in block order.
func (v *View) Nodes() []*Node {
	out := make([]*Node, len(v.nodes))
	copy(out, v.nodes)
	return out
}

// Len returns the number of nodes.
func (v *View) Len() int { return len(v.nodes) }

// OnSettle registers fn to be called when a deferred node finishes
// resolving. fn runs on the resolving goroutine and must not call Close.
// It is never called after Close has returned.
func (v *View) OnSettle(fn func(*Node)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onSettle = fn
}

// Close tears the view down. Resolutions that finish afterwards leave the
// view's nodes untouched. Close is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	close(v.closedCh)
}

func (v *View) isClosed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

func (v *View) watch(n *Node) {
	go func() {
		select {
		case <-n.task.Done():
		case <-v.closedCh:
			return
		}

		v.mu.RLock()
		defer v.mu.RUnlock()
		if v.closed {
			return
		}
		v.complete(n)
		if v.onSettle != nil {
			v.onSettle(n)
		}
	}()
}

// complete moves a deferred node to its terminal state once its task is done.
func (v *View) complete(n *Node) {
	r, err := n.task.Result()
	if err != nil {
		n.err = err
		n.settle(Failed)
		return
	}
	comp, err := n.build(r)
	if err != nil {
		n.err = err
		n.settle(Failed)
		return
	}
	n.comp = comp
	n.settle(Resolved)
}

// Render writes every node in order. A node that is still resolving is
// waited for; if the dispatcher's resolve wait elapses first, its
// placeholder is written instead and Complete reports false. The same holds
// for placeholders written by nested views, such as section columns: they
// mark this view and every enclosing one partial. A Failed node aborts
// rendering with its error, since it signals a configuration fault.
func (v *View) Render(ctx context.Context, w io.Writer) error {
	if v.isClosed() {
		return ErrViewClosed
	}
	enclosing := partialFrom(ctx)
	prefix := childPrefixFrom(ctx)
	v.partial.Store(false)
	ctx = withScope(ctx, v.d, v.depth, &v.partial)

	waitCtx := ctx
	if v.d != nil && v.d.wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, v.d.wait)
		defer cancel()
	}

	partial := false
	for i, n := range v.nodes {
		if !n.State().Terminal() {
			select {
			case <-n.settled:
			case <-v.closedCh:
				return ErrViewClosed
			case <-waitCtx.Done():
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		if !n.State().Terminal() {
			partial = true
			if err := placeholder(n).Render(ctx, w); err != nil {
				return err
			}
			continue
		}
		if err := renderSettled(withSlot(ctx, prefix, i, n), w, n); err != nil {
			return err
		}
	}
	if partial {
		v.partial.Store(true)
	}
	if enclosing != nil && v.partial.Load() {
		enclosing.Store(true)
	}
	return nil
}

// Snapshot writes the view as it is right now without waiting: nodes that
// are still resolving show their placeholder.
func (v *View) Snapshot(ctx context.Context, w io.Writer) error {
	if v.isClosed() {
		return ErrViewClosed
	}
	prefix := childPrefixFrom(ctx)
	ctx = withScope(ctx, v.d, v.depth, nil)
	for i, n := range v.nodes {
		if !n.State().Terminal() {
			if err := placeholder(n).Render(ctx, w); err != nil {
				return err
			}
			continue
		}
		if err := renderSettled(withSlot(ctx, prefix, i, n), w, n); err != nil {
			return err
		}
	}
	return nil
}

// Complete reports whether the last Render wrote real output for every node,
// nested children included.
func (v *View) Complete() bool {
	if v.partial.Load() {
		return false
	}
	for _, n := range v.nodes {
		if s := n.State(); s != Resolved && s != Unsupported {
			return false
		}
	}
	return true
}

func renderSettled(ctx context.Context, w io.Writer, n *Node) error {
	if n.State() == Failed {
		return fmt.Errorf("render block %d (%s): %w", n.BlockID, n.BlockType, n.err)
	}
	return n.comp.Render(ctx, w)
}

// RenderChildren renders nested child blocks, in order, through the
// dispatcher that is rendering ctx. Section-like renderers use it for their
// columns.
func RenderChildren(ctx context.Context, w io.Writer, children []ChildBlock, languageID int64) error {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok || s.d == nil {
		return ErrNoDispatcher
	}
	if sl, ok := ctx.Value(slotKey{}).(*slot); ok {
		ctx = context.WithValue(ctx, childPrefixKey{}, sl.key+"-"+strconv.Itoa(sl.columns))
		sl.columns++
	}
	bs := make([]models.Block, len(children))
	for i, c := range children {
		bs[i] = models.Block{
			BlockType:  c.BlockType,
			Content:    c.Content,
			LanguageID: languageID,
			Order:      i,
		}
	}
	return s.d.Compose(ctx, bs, languageID).Render(ctx, w)
}

type scopeKey struct{}

// scope is what nested renders inherit from the view rendering them.
// partial is the enclosing view's flag; nil when nothing tracks it.
type scope struct {
	d       *Dispatcher
	depth   int
	partial *atomic.Bool
}

func withScope(ctx context.Context, d *Dispatcher, depth int, partial *atomic.Bool) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope{d: d, depth: depth, partial: partial})
}

func partialFrom(ctx context.Context) *atomic.Bool {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s.partial
	}
	return nil
}

type (
	slotKey        struct{}
	childPrefixKey struct{}
	criticalKey    struct{}
)

// slot identifies the node being rendered. columns counts the
// RenderChildren calls made while rendering it.
type slot struct {
	key     string
	columns int
}

func withSlot(ctx context.Context, prefix string, i int, n *Node) context.Context {
	key := strconv.FormatInt(n.BlockID, 10)
	if prefix != "" {
		key = prefix + "-" + strconv.Itoa(i)
	}
	if n.Path == PathCritical {
		ctx = context.WithValue(ctx, criticalKey{}, true)
	}
	return context.WithValue(ctx, slotKey{}, &slot{key: key})
}

// InCriticalPath reports whether ctx renders the critical block or one of
// its nested children. Such content is above the fold.
func InCriticalPath(ctx context.Context) bool {
	v, _ := ctx.Value(criticalKey{}).(bool)
	return v
}

func childPrefixFrom(ctx context.Context) string {
	p, _ := ctx.Value(childPrefixKey{}).(string)
	return p
}

// SlotKey identifies the block being rendered within its page. A top-level
// block is keyed by its ID; a nested child by its parent's key, its column
// and its index in that column, joined by "-" (e.g. "12-0-1"). It is empty
// outside a view.
func SlotKey(ctx context.Context) string {
	if sl, ok := ctx.Value(slotKey{}).(*slot); ok {
		return sl.key
	}
	return ""
}

func depthFrom(ctx context.Context) int {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s.depth
	}
	return 0
}

func placeholder(n *Node) templ.Component {
	return rawHTML(`<div class="block-placeholder" aria-busy="true" data-block-id="` +
		strconv.FormatInt(n.BlockID, 10) + `" data-block-type="` + templ.EscapeString(n.BlockType) +
		`"><div class="block-placeholder__bar"></div></div>`)
}

func unsupportedNode(b *models.Block) templ.Component {
	return rawHTML(`<div class="block-unsupported" role="alert" data-block-id="` +
		strconv.FormatInt(b.ID, 10) + `"><p><strong>Unsupported block type:</strong> ` +
		templ.EscapeString(b.BlockType) + `</p><pre class="block-unsupported__content">` +
		templ.EscapeString(prettyJSON(b.Content)) + `</pre></div>`)
}

func nestingNotice() templ.Component {
	return rawHTML(`<div class="block-notice">(Nested blocks omitted: nesting is too deep)</div>`)
}

// prettyJSON indents raw with two spaces, falling back to the raw text.
func prettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func rawHTML(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}
