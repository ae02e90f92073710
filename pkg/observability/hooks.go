// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Hooks are passed explicitly to the
// components that emit events; there is no global registry.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Bundle them in [Hooks], whose zero value is usable
//
// # Usage
//
// Pass hooks when building a session:
//
//	counter := &observability.Counter{}
//	s := session.New(tmpl, session.WithHooks(observability.Hooks{
//	    Editor: counter,
//	    Store:  counter,
//	}))
//
// Components call hooks through [Hooks.WithDefaults] so nil fields are safe:
//
//	h := hooks.WithDefaults()
//	h.Editor.OnCommand(ctx, observability.OpExecute, cmd.Label(), len(changes), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// Command operations reported to EditorHooks.OnCommand.
const (
	OpExecute = "execute"
	OpUndo    = "undo"
	OpRedo    = "redo"
)

// EditorHooks receives events from an editing session.
type EditorHooks interface {
	// OnCommand records a command execution, undo or redo. changes is the
	// number of change records the operation produced.
	OnCommand(ctx context.Context, op, label string, changes int, err error)

	// OnLayout records a layout pass over the stale tables of a template.
	OnLayout(ctx context.Context, tables int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from template persistence.
type StoreHooks interface {
	// OnSave records a template write of size bytes.
	OnSave(ctx context.Context, id string, size int, duration time.Duration, err error)

	// OnLoad records a template read.
	OnLoad(ctx context.Context, id string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommand(context.Context, string, string, int, error) {}
func (NoopEditorHooks) OnLayout(context.Context, int, time.Duration, error)   {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, time.Duration, error)      {}

// =============================================================================
// Hook Bundle
// =============================================================================

// Hooks bundles the hook interfaces. Nil fields mean no-op.
type Hooks struct {
	Editor EditorHooks
	Store  StoreHooks
}

// WithDefaults returns a copy of h with nil fields replaced by no-ops.
func (h Hooks) WithDefaults() Hooks {
	if h.Editor == nil {
		h.Editor = NoopEditorHooks{}
	}
	if h.Store == nil {
		h.Store = NoopStoreHooks{}
	}
	return h
}

// =============================================================================
// Counter
// =============================================================================

// Counter counts events. It implements EditorHooks and StoreHooks and is
// safe for concurrent use, so one Counter can observe both the editing
// goroutine and the autosaver.
type Counter struct {
	mu       sync.Mutex
	commands map[string]int
	failures int
	layouts  int
	tables   int
	saves    int
	loads    int
	bytes    int
}

func (c *Counter) OnCommand(_ context.Context, op, _ string, _ int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.commands == nil {
		c.commands = make(map[string]int)
	}
	c.commands[op]++
	if err != nil {
		c.failures++
	}
}

func (c *Counter) OnLayout(_ context.Context, tables int, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts++
	c.tables += tables
	if err != nil {
		c.failures++
	}
}

func (c *Counter) OnSave(_ context.Context, _ string, size int, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failures++
		return
	}
	c.saves++
	c.bytes += size
}

func (c *Counter) OnLoad(_ context.Context, _ string, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failures++
		return
	}
	c.loads++
}

// Stats is a point-in-time copy of a Counter.
type Stats struct {
	Commands   map[string]int
	Failures   int
	Layouts    int
	TablesLaid int
	Saves      int
	Loads      int
	BytesSaved int
}

// Stats returns the current counts.
func (c *Counter) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmds := make(map[string]int, len(c.commands))
	for k, v := range c.commands {
		cmds[k] = v
	}
	return Stats{
		Commands:   cmds,
		Failures:   c.failures,
		Layouts:    c.layouts,
		TablesLaid: c.tables,
		Saves:      c.saves,
		Loads:      c.loads,
		BytesSaved: c.bytes,
	}
}

var (
	_ EditorHooks = (*Counter)(nil)
	_ StoreHooks  = (*Counter)(nil)
)
