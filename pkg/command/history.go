package command

import (
	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// History is a linear undo/redo stack. Executing a new command discards
// everything that was undone; there is no branching.
//
// A History is owned by a single editing session and is not safe for
// concurrent use.
type History struct {
	past     []Command
	future   []Command
	limit    int
	notifier *element.Notifier
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithNotifier publishes the changes of every execute, undo and redo to n.
func WithNotifier(n *element.Notifier) HistoryOption {
	return func(h *History) { h.notifier = n }
}

// WithLimit caps the undo stack at n entries, dropping the oldest. Zero
// means unbounded.
func WithLimit(n int) HistoryOption {
	return func(h *History) { h.limit = max(n, 0) }
}

// NewHistory returns an empty history.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute applies cmd and records it. On failure nothing is recorded and the
// redo stack is left alone.
func (h *History) Execute(cmd Command) error {
	changes, err := cmd.Do()
	if err != nil {
		return err
	}
	h.past = append(h.past, cmd)
	if h.limit > 0 && len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	clear(h.future)
	h.future = h.future[:0]
	h.notifier.Publish(changes...)
	return nil
}

// Undo reverts the most recent command. It is a no-op when there is nothing
// to undo. If the inverse cannot be applied both stacks are left unchanged
// and a COMMAND_REPLAY error is returned.
func (h *History) Undo() error {
	if len(h.past) == 0 {
		return nil
	}
	cmd := h.past[len(h.past)-1]
	changes, err := cmd.Undo()
	if err != nil {
		return replay(cmd, err, "undo failed")
	}
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, cmd)
	h.notifier.Publish(changes...)
	return nil
}

// Redo re-applies the most recently undone command. It is a no-op when there
// is nothing to redo.
func (h *History) Redo() error {
	if len(h.future) == 0 {
		return nil
	}
	cmd := h.future[len(h.future)-1]
	changes, err := cmd.Do()
	if err != nil {
		return replay(cmd, err, "redo failed")
	}
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, cmd)
	h.notifier.Publish(changes...)
	return nil
}

// CanUndo reports whether there is a command to undo.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether there is a command to redo.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// UndoLen returns the number of undoable commands.
func (h *History) UndoLen() int { return len(h.past) }

// RedoLen returns the number of redoable commands.
func (h *History) RedoLen() int { return len(h.future) }

// UndoLabel returns the label of the command Undo would revert.
func (h *History) UndoLabel() string {
	if len(h.past) == 0 {
		return ""
	}
	return h.past[len(h.past)-1].Label()
}

// RedoLabel returns the label of the command Redo would re-apply.
func (h *History) RedoLabel() string {
	if len(h.future) == 0 {
		return ""
	}
	return h.future[len(h.future)-1].Label()
}

// Clear empties both stacks, as for a new document.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func replay(cmd Command, err error, msg string) error {
	if ferrors.Is(err, ferrors.ErrCodeCommandReplay) {
		return err
	}
	return ferrors.Replay(cmd.Label(), err, "%s", msg)
}
