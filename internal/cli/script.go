package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/formwork/pkg/command"
	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/session"
)

// Script is an edit script for "formwork apply". Each [[op]] table is one
// step, run through the session's command history:
//
//	[[op]]
//	action = "add"
//	kind = "table"
//	x = 40
//	y = 60
//	as = "items"
//
//	[[op]]
//	action = "set"
//	target = "items"
//	property = "Columns"
//	value = 4
//
//	[[op]]
//	action = "cell"
//	target = "items"
//	row = 0
//	column = 0
//	content = "Qty"
//
// Targets name an element by ID or by an alias given with "as".
type Script struct {
	Ops []Op `toml:"op"`
}

// Op is one script step. Which fields apply depends on Action.
type Op struct {
	Action   string  `toml:"action"`
	Target   string  `toml:"target"`
	As       string  `toml:"as"`
	Kind     string  `toml:"kind"`
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	DX       float64 `toml:"dx"`
	DY       float64 `toml:"dy"`
	Property string  `toml:"property"`
	Value    any     `toml:"value"`
	Row      int     `toml:"row"`
	Column   int     `toml:"column"`
	Content  string  `toml:"content"`
	Count    int     `toml:"count"`
}

// Script actions.
const (
	actionAdd          = "add"
	actionSet          = "set"
	actionRemove       = "remove"
	actionDuplicate    = "duplicate"
	actionCell         = "cell"
	actionInsertRow    = "insert-row"
	actionDeleteRow    = "delete-row"
	actionInsertColumn = "insert-column"
	actionDeleteColumn = "delete-column"
	actionFront        = "front"
	actionBack         = "back"
	actionForward      = "forward"
	actionBackward     = "backward"
	actionUndo         = "undo"
	actionRedo         = "redo"
	actionLayout       = "layout"
)

// ParseScript decodes a script from TOML source.
func ParseScript(src string) (*Script, error) {
	var s Script
	md, err := toml.Decode(src, &s)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "script: unknown keys %s", strings.Join(keys, ", "))
	}
	return &s, nil
}

// Run applies every step to sess in order and stops at the first failure.
// It returns the number of steps that succeeded.
func (s *Script) Run(ctx context.Context, sess *session.Session) (int, error) {
	r := &scriptRunner{sess: sess, aliases: make(map[string]string)}
	for i, op := range s.Ops {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := r.run(ctx, op); err != nil {
			return i, fmt.Errorf("op %d (%s): %w", i+1, op.Action, err)
		}
	}
	return len(s.Ops), nil
}

type scriptRunner struct {
	sess    *session.Session
	aliases map[string]string
}

func (r *scriptRunner) run(ctx context.Context, op Op) error {
	s := r.sess
	switch op.Action {
	case actionAdd:
		el, err := s.Add(ctx, element.Kind(op.Kind), op.X, op.Y)
		if err != nil {
			return err
		}
		r.alias(op.As, el)
		return nil
	case actionUndo, actionRedo:
		step := s.Undo
		if op.Action == actionRedo {
			step = s.Redo
		}
		for range max(op.Count, 1) {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	case actionLayout:
		_, err := s.Layout(ctx)
		return err
	}

	el, err := r.target(op.Target)
	if err != nil {
		return err
	}
	d := s.Template()
	switch op.Action {
	case actionSet:
		return s.Set(ctx, el.ID, op.Property, op.Value)
	case actionRemove:
		return s.Execute(ctx, command.RemoveElement(d, el))
	case actionDuplicate:
		dup, err := s.Duplicate(ctx, el.ID, op.DX, op.DY)
		if err != nil {
			return err
		}
		r.alias(op.As, dup)
		return nil
	case actionCell:
		return s.Execute(ctx, command.SetCellContent(el, op.Row, op.Column, op.Content))
	case actionInsertRow:
		return s.Execute(ctx, command.InsertRow(el, op.Row))
	case actionDeleteRow:
		return s.Execute(ctx, command.DeleteRow(el, op.Row))
	case actionInsertColumn:
		return s.Execute(ctx, command.InsertColumn(el, op.Column))
	case actionDeleteColumn:
		return s.Execute(ctx, command.DeleteColumn(el, op.Column))
	case actionFront:
		return s.Execute(ctx, command.BringToFront(d, el))
	case actionBack:
		return s.Execute(ctx, command.SendToBack(d, el))
	case actionForward:
		return s.Execute(ctx, command.BringForward(d, el))
	case actionBackward:
		return s.Execute(ctx, command.SendBackward(d, el))
	}
	return ferrors.New(ferrors.ErrCodeUnsupported, "unknown action %q", op.Action)
}

func (r *scriptRunner) alias(name string, el *element.Element) {
	if name != "" {
		r.aliases[name] = el.ID
	}
}

func (r *scriptRunner) target(name string) (*element.Element, error) {
	if name == "" {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "missing target")
	}
	id := name
	if aliased, ok := r.aliases[name]; ok {
		id = aliased
	}
	el := r.sess.Template().Find(id)
	if el == nil {
		return nil, &ferrors.Error{Code: ferrors.ErrCodeNotFound, Message: "no such element", Subject: name}
	}
	return el, nil
}
