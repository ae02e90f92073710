// Package session ties the document core together for one editor.
//
// A [Session] owns a template definition together with its undo history,
// selection and change notifier, and is the single place where commands are
// executed. It runs table layout passes on request (or after every edit with
// [WithAutoLayout]) and can hand snapshots to an [Autosaver], which writes
// them to a [store.Store] on its own goroutine.
//
// # Concurrency
//
// A Session is not safe for concurrent use; all editing happens on one
// goroutine. The autosaver only ever sees encoded snapshots taken on that
// goroutine, never the live definition, so saving cannot observe a
// half-applied edit.
//
// # Usage
//
//	s := session.New(tmpl,
//	    session.WithLogger(logger),
//	    session.WithAutosaver(session.NewAutosaver(st)),
//	)
//	defer s.Close()
//
//	el, err := s.Add(ctx, element.KindTable, 40, 40)
//	err = s.Set(ctx, el.ID, "Columns", 4)
//	err = s.Undo(ctx)
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/formwork/pkg/command"
	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/layout"
	"github.com/matzehuels/formwork/pkg/observability"
	"github.com/matzehuels/formwork/pkg/store"
	"github.com/matzehuels/formwork/pkg/template"
)

// Session is an editing session over one template.
type Session struct {
	doc       *template.Definition
	registry  *element.Registry
	notifier  *element.Notifier
	history   *command.History
	selection *template.Selection

	measurer     layout.Measurer
	layoutOpts   layout.Options
	autoLayout   bool
	historyLimit int

	logger    *log.Logger
	hooks     observability.Hooks
	autosaver *Autosaver

	dirty   bool
	changes int
	cancel  []func()
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the variant registry used by Add.
func WithRegistry(r *element.Registry) Option {
	return func(s *Session) { s.registry = r }
}

// WithMeasurer sets the text measurer used by layout passes.
func WithMeasurer(m layout.Measurer) Option {
	return func(s *Session) { s.measurer = m }
}

// WithLayoutOptions sets the table layout options.
func WithLayoutOptions(o layout.Options) Option {
	return func(s *Session) { s.layoutOpts = o }
}

// WithAutoLayout runs a layout pass after every successful edit.
func WithAutoLayout(on bool) Option {
	return func(s *Session) { s.autoLayout = on }
}

// WithHistoryLimit caps the undo stack.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHooks sets the observability hooks.
func WithHooks(h observability.Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

// WithAutosaver hands a snapshot to a after every successful edit. The
// session starts a and stops it on Close.
func WithAutosaver(a *Autosaver) Option {
	return func(s *Session) { s.autosaver = a }
}

// New starts a session over d.
func New(d *template.Definition, opts ...Option) *Session {
	s := &Session{doc: d}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = element.NewRegistry()
	}
	if s.measurer == nil {
		s.measurer = layout.NewFontMeasurer(nil)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.layoutOpts.SetDefaults()
	s.hooks = s.hooks.WithDefaults()

	s.notifier = element.NewNotifier()
	s.history = command.NewHistory(command.WithNotifier(s.notifier), command.WithLimit(s.historyLimit))
	s.selection = template.NewSelection()
	s.cancel = append(s.cancel,
		s.selection.Observe(s.notifier),
		s.notifier.Subscribe(func(element.Change) { s.changes++ }),
	)
	if s.autosaver != nil {
		s.autosaver.start()
	}
	return s
}

// Open loads the template id from st and starts a session over it.
func Open(ctx context.Context, st store.Store, id string, opts ...Option) (*Session, error) {
	configured := &Session{}
	for _, opt := range opts {
		opt(configured)
	}
	hooks := configured.hooks.WithDefaults()
	start := time.Now()
	d, err := st.Get(ctx, id)
	hooks.Store.OnLoad(ctx, id, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return New(d, opts...), nil
}

// Template returns the edited definition. Callers must not mutate it
// directly; doing so breaks undo.
func (s *Session) Template() *template.Definition { return s.doc }

// Registry returns the variant registry.
func (s *Session) Registry() *element.Registry { return s.registry }

// Notifier returns the change notifier. Observers run on the editing
// goroutine, after each execute, undo or redo.
func (s *Session) Notifier() *element.Notifier { return s.notifier }

// History returns the undo history.
func (s *Session) History() *command.History { return s.history }

// Selection returns the selection. Removed elements leave it automatically.
func (s *Session) Selection() *template.Selection { return s.selection }

// Dirty reports whether the template changed since the last Save.
func (s *Session) Dirty() bool { return s.dirty }

// Execute runs cmd through the history. A composite with nothing to apply
// is dropped so it neither takes an undo step nor discards the redo stack.
func (s *Session) Execute(ctx context.Context, cmd command.Command) error {
	if command.IsEmpty(cmd) {
		s.logger.Debug("nothing to apply", "label", cmd.Label())
		return nil
	}
	return s.run(ctx, observability.OpExecute, cmd.Label(), func() error {
		return s.history.Execute(cmd)
	})
}

// Undo reverts the last command. It is a no-op when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) error {
	if !s.history.CanUndo() {
		return nil
	}
	return s.run(ctx, observability.OpUndo, s.history.UndoLabel(), s.history.Undo)
}

// Redo re-applies the last undone command. It is a no-op when there is
// nothing to redo.
func (s *Session) Redo(ctx context.Context) error {
	if !s.history.CanRedo() {
		return nil
	}
	return s.run(ctx, observability.OpRedo, s.history.RedoLabel(), s.history.Redo)
}

func (s *Session) run(ctx context.Context, op, label string, fn func() error) error {
	s.changes = 0
	err := fn()
	s.hooks.Editor.OnCommand(ctx, op, label, s.changes, err)
	if err != nil {
		s.logger.Debug("command failed", "op", op, "label", label, "err", err)
		return err
	}
	s.logger.Debug(op, "label", label, "changes", s.changes)
	s.edited(ctx)
	return nil
}

func (s *Session) edited(ctx context.Context) {
	s.dirty = true
	if s.autoLayout {
		if _, err := s.Layout(ctx); err != nil {
			s.logger.Warn("layout failed", "err", err)
		}
	}
	if s.autosaver != nil {
		if err := s.autosaver.Enqueue(s.doc); err != nil {
			s.logger.Warn("autosave skipped", "err", err)
		}
	}
}

// Add creates an element of kind at (x, y), adds it on top of the z-order
// and selects it.
func (s *Session) Add(ctx context.Context, kind element.Kind, x, y float64) (*element.Element, error) {
	el, err := s.registry.Create(kind)
	if err != nil {
		return nil, err
	}
	el.X, el.Y = x, y
	if s.doc.Len() > 0 {
		el.ZIndex = s.doc.TopZ() + 1
	}
	if err := s.Execute(ctx, command.AddElement(s.doc, el)); err != nil {
		return nil, err
	}
	s.selection.Select(el.ID)
	return el, nil
}

// Set changes one property of the element with the given ID. Setting a
// property to its current value records nothing.
func (s *Session) Set(ctx context.Context, id, name string, value any) error {
	el, err := s.find(id)
	if err != nil {
		return err
	}
	same, err := el.Holds(name, value)
	if err != nil {
		return err
	}
	if same {
		return nil
	}
	return s.Execute(ctx, command.SetProperty(el, name, value))
}

// Duplicate copies the element with the given ID, offset by (dx, dy), and
// selects the copy.
func (s *Session) Duplicate(ctx context.Context, id string, dx, dy float64) (*element.Element, error) {
	el, err := s.find(id)
	if err != nil {
		return nil, err
	}
	clone, cmd := command.Duplicate(s.doc, el, dx, dy)
	if err := s.Execute(ctx, cmd); err != nil {
		return nil, err
	}
	s.selection.Select(clone.ID)
	return clone, nil
}

// Delete removes every selected element as one undoable step. It is a
// no-op when nothing is selected.
func (s *Session) Delete(ctx context.Context) error {
	els := s.selection.Resolve(s.doc)
	if len(els) == 0 {
		return nil
	}
	cmds := make([]command.Command, len(els))
	for i, el := range els {
		cmds[i] = command.RemoveElement(s.doc, el)
	}
	label := cmds[0].Label()
	if len(cmds) > 1 {
		label = fmt.Sprintf("Delete %d elements", len(cmds))
	}
	return s.Execute(ctx, command.Composite(label, cmds...))
}

func (s *Session) find(id string) (*element.Element, error) {
	el := s.doc.Find(id)
	if el == nil {
		return nil, &ferrors.Error{Code: ferrors.ErrCodeNotFound, Message: "no such element", Subject: id}
	}
	return el, nil
}

// Layout recomputes every stale table and returns the tables that changed.
// Layout vectors are derived state: they are not recorded in the history.
func (s *Session) Layout(ctx context.Context) ([]*element.Element, error) {
	start := time.Now()
	updated, err := layout.Pass(s.doc, s.measurer, s.layoutOpts)
	s.hooks.Editor.OnLayout(ctx, len(updated), time.Since(start), err)
	if len(updated) > 0 {
		s.logger.Debug("layout", "tables", len(updated), "elapsed", time.Since(start).Round(time.Microsecond))
	}
	return updated, err
}

// Snapshot returns the JSON encoding of the template as it is now.
func (s *Session) Snapshot() ([]byte, error) {
	return io.Marshal(s.doc)
}

// Save writes the template to st synchronously and clears the dirty flag.
func (s *Session) Save(ctx context.Context, st store.Store) error {
	start := time.Now()
	err := st.Put(ctx, s.doc)
	s.hooks.Store.OnSave(ctx, s.doc.ID, 0, time.Since(start), err)
	if err != nil {
		return err
	}
	s.dirty = false
	s.logger.Debug("saved", "id", s.doc.ID)
	return nil
}

// Close detaches the session's observers and stops the autosaver after it
// has written the latest snapshot. It returns the last autosave error.
func (s *Session) Close() error {
	for _, c := range s.cancel {
		c()
	}
	s.cancel = nil
	if s.autosaver != nil {
		return s.autosaver.Close()
	}
	return nil
}
