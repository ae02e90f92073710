package command

import (
	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

// Command is one reversible edit. Do applies it and Undo reverts it; both
// return the changes they made in the order they made them. A failing Do
// leaves the document as it was.
type Command interface {
	Do() ([]element.Change, error)
	Undo() ([]element.Change, error)
	Label() string
}

// =============================================================================
// Add / Remove
// =============================================================================

type addElement struct {
	t  *template.Definition
	el *element.Element
}

// AddElement appends el to t. Undo removes it again by identity.
func AddElement(t *template.Definition, el *element.Element) Command {
	return &addElement{t: t, el: el}
}

func (c *addElement) Label() string { return "Add " + kindName(c.el) }

func (c *addElement) Do() ([]element.Change, error) {
	i, err := c.t.Add(c.el)
	if err != nil {
		return nil, err
	}
	return []element.Change{{Type: element.ElementAdded, Element: c.el, Index: i}}, nil
}

func (c *addElement) Undo() ([]element.Change, error) {
	i := c.t.Remove(c.el)
	if i < 0 {
		return nil, ferrors.Replay(c.Label(), nil, "element %s is no longer in the template", c.el.ID)
	}
	return []element.Change{{Type: element.ElementRemoved, Element: c.el, Index: i}}, nil
}

type removeElement struct {
	t     *template.Definition
	el    *element.Element
	index int
}

// RemoveElement removes el from t by identity. Undo reinserts it at the
// position it was removed from.
func RemoveElement(t *template.Definition, el *element.Element) Command {
	return &removeElement{t: t, el: el, index: -1}
}

func (c *removeElement) Label() string { return "Remove " + kindName(c.el) }

func (c *removeElement) Do() ([]element.Change, error) {
	i := c.t.Remove(c.el)
	if i < 0 {
		return nil, &ferrors.Error{
			Code:    ferrors.ErrCodeNotFound,
			Message: "element is not part of the template",
			Subject: c.t.ID,
			Field:   elementID(c.el),
		}
	}
	c.index = i
	return []element.Change{{Type: element.ElementRemoved, Element: c.el, Index: i}}, nil
}

func (c *removeElement) Undo() ([]element.Change, error) {
	if err := c.t.Insert(c.index, c.el); err != nil {
		return nil, ferrors.Replay(c.Label(), err, "cannot reinsert element %s at %d", c.el.ID, c.index)
	}
	return []element.Change{{Type: element.ElementAdded, Element: c.el, Index: c.index}}, nil
}

// =============================================================================
// Property changes
// =============================================================================

type changeProperty struct {
	el       *element.Element
	name     string
	from, to any
	captured bool

	// snapshot holds the table payload before a structural change so undo
	// can bring back cells the resize discarded.
	snapshot *element.Table
}

// ChangeProperty sets the named property of el to newValue. Undo sets it
// back to oldValue.
func ChangeProperty(el *element.Element, name string, oldValue, newValue any) Command {
	return &changeProperty{el: el, name: name, from: oldValue, to: newValue, captured: true}
}

// SetProperty is ChangeProperty with the old value read from el when the
// command is first applied.
func SetProperty(el *element.Element, name string, newValue any) Command {
	return &changeProperty{el: el, name: name, to: newValue}
}

func (c *changeProperty) Label() string { return "Change " + c.name }

func (c *changeProperty) Do() ([]element.Change, error) {
	if !c.captured {
		old, err := c.el.Get(c.name)
		if err != nil {
			return nil, err
		}
		c.from, c.captured = old, true
	}
	if element.IsStructural(c.el.Kind, c.name) && c.el.Table != nil {
		c.snapshot = c.el.Table.Clone()
	}
	ch, changed, err := c.el.Set(c.name, c.to)
	if err != nil {
		c.snapshot = nil
		return nil, err
	}
	if !changed {
		return nil, nil
	}
	return []element.Change{ch}, nil
}

func (c *changeProperty) Undo() ([]element.Change, error) {
	if c.snapshot != nil {
		cur, _ := c.el.Get(c.name)
		*c.el.Table = *c.snapshot.Clone()
		restored, _ := c.el.Get(c.name)
		if cur == restored {
			return nil, nil
		}
		return []element.Change{{
			Type:     element.PropertyChanged,
			Element:  c.el,
			Property: c.name,
			Old:      cur,
			New:      restored,
		}}, nil
	}
	ch, changed, err := c.el.Set(c.name, c.from)
	if err != nil {
		return nil, ferrors.Replay(c.Label(), err, "cannot restore %s on %s", c.name, c.el.ID)
	}
	if !changed {
		return nil, nil
	}
	return []element.Change{ch}, nil
}

// =============================================================================
// Composite
// =============================================================================

type composite struct {
	label string
	cmds  []Command
}

// Composite applies cmds in order as one undo step and undoes them in
// reverse order. If a sub-command fails, the ones already applied are undone
// before the error is returned.
func Composite(label string, cmds ...Command) Command {
	return &composite{label: label, cmds: cmds}
}

func (c *composite) Label() string { return c.label }

// IsEmpty reports whether cmd is a composite with nothing to apply, such as
// Bring to Front on the topmost element.
func IsEmpty(cmd Command) bool {
	c, ok := cmd.(*composite)
	if !ok {
		return false
	}
	for _, sub := range c.cmds {
		if !IsEmpty(sub) {
			return false
		}
	}
	return true
}

func (c *composite) Do() ([]element.Change, error) {
	var changes []element.Change
	for i, cmd := range c.cmds {
		ch, err := cmd.Do()
		if err != nil {
			if rerr := unwind(c.cmds[:i]); rerr != nil {
				return nil, ferrors.Replay(c.label, ferrors.Join(err, rerr), "rollback after failed %q", cmd.Label())
			}
			return nil, err
		}
		changes = append(changes, ch...)
	}
	return changes, nil
}

func (c *composite) Undo() ([]element.Change, error) {
	var changes []element.Change
	for i := len(c.cmds) - 1; i >= 0; i-- {
		ch, err := c.cmds[i].Undo()
		if err != nil {
			return changes, err
		}
		changes = append(changes, ch...)
	}
	return changes, nil
}

func unwind(done []Command) error {
	for i := len(done) - 1; i >= 0; i-- {
		if _, err := done[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func kindName(el *element.Element) string {
	if el == nil {
		return "element"
	}
	return string(el.Kind)
}

func elementID(el *element.Element) string {
	if el == nil {
		return ""
	}
	return el.ID
}
