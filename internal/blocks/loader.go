// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrRendererNotFound means a definition names a renderer that was never
	// provided to the Loader. This is a deployment error, not bad data.
	ErrRendererNotFound = errors.New("blocks: renderer not found")
	// ErrRendererMismatch means a resolved renderer does not accept the
	// content type of the definition that referenced it.
	ErrRendererMismatch = errors.New("blocks: renderer does not match block content")
)

// State is the resolution state of a renderer, or of a dispatched node.
type State int32

const (
	Unresolved State = iota
	Resolving
	Resolved
	Failed
	// Unsupported is only used for nodes whose block type is not registered.
	Unsupported
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	case Unsupported:
		return "unsupported"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed || s == Unsupported
}

// Factory builds a renderer. It runs at most once per name per Loader.
type Factory func() (any, error)

// Provide registers a typed renderer factory under name. Call it during
// startup, before the first Resolve of that name.
func Provide[C Content](l *Loader, name string, f func() (Renderer[C], error)) {
	l.register(name, func() (any, error) {
		r, err := f()
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

// ResolveObserver is notified once per finished resolution.
type ResolveObserver func(name string, took time.Duration, err error)

// Loader resolves renderers by name on first use and caches the result for
// the lifetime of the process. Failed resolutions are cached as well, since
// they can only be fixed by a new build.
type Loader struct {
	mu        sync.Mutex
	factories map[string]Factory
	tasks     map[string]*Task
	observe   ResolveObserver
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		factories: make(map[string]Factory),
		tasks:     make(map[string]*Task),
	}
}

func (l *Loader) register(name string, f Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.factories[name]; dup {
		panic(fmt.Sprintf("blocks: renderer %q provided twice", name))
	}
	l.factories[name] = f
}

// OnResolve sets the observer called after each resolution finishes.
func (l *Loader) OnResolve(fn ResolveObserver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observe = fn
}

// Names returns the provided renderer names, sorted.
func (l *Loader) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.factories))
	for n := range l.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// State returns the resolution state of name without starting resolution.
func (l *Loader) State(name string) State {
	l.mu.Lock()
	t := l.tasks[name]
	l.mu.Unlock()
	if t == nil {
		return Unresolved
	}
	return t.State()
}

// Resolve returns the resolution task for name, starting it in the
// background if this is the first request. Concurrent callers share a task.
func (l *Loader) Resolve(name string) *Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.tasks[name]; ok {
		return t
	}
	t := &Task{name: name, done: make(chan struct{})}
	l.tasks[name] = t

	f, ok := l.factories[name]
	if !ok {
		t.finish(nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name))
		slog.Error("renderer resolution failed", "renderer", name, "error", t.err)
		if l.observe != nil {
			l.observe(name, 0, t.err)
		}
		return t
	}

	t.state.Store(int32(Resolving))
	go t.run(f, l.observe)
	return t
}

// Task is one renderer resolution: Unresolved -> Resolving -> Resolved|Failed.
type Task struct {
	name  string
	state atomic.Int32
	done  chan struct{}

	// Written once before done is closed.
	renderer any
	err      error
}

// Name returns the renderer name being resolved.
func (t *Task) Name() string { return t.name }

// State returns the current state.
func (t *Task) State() State { return State(t.state.Load()) }

// Done is closed when the task reaches Resolved or Failed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result returns the renderer or the failure. It must only be called after
// Done is closed.
func (t *Task) Result() (any, error) { return t.renderer, t.err }

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.renderer, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Task) run(f Factory, observe ResolveObserver) {
	start := time.Now()
	var (
		r   any
		err error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("renderer %q factory panicked: %v", t.name, rec)
			}
		}()
		r, err = f()
	}()
	if err == nil && r == nil {
		err = fmt.Errorf("%w: factory for %q returned nil", ErrRendererNotFound, t.name)
	}
	took := time.Since(start)

	t.finish(r, err)
	if err != nil {
		slog.Error("renderer resolution failed", "renderer", t.name, "error", err)
	} else {
		slog.Debug("renderer resolved", "renderer", t.name, "took", took.String())
	}
	if observe != nil {
		observe(t.name, took, err)
	}
}

func (t *Task) finish(r any, err error) {
	t.renderer = r
	t.err = err
	if err != nil {
		t.state.Store(int32(Failed))
	} else {
		t.state.Store(int32(Resolved))
	}
	close(t.done)
}
