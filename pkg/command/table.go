package command

import (
	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// TableProperty is the property name reported for whole-table edits.
const TableProperty = "Table"

type editTable struct {
	el     *element.Element
	label  string
	fn     func(t *element.Table) error
	before *element.Table
	after  *element.Table
}

// EditTable runs fn against the table payload of el as one undoable step.
// The payload is snapshotted around fn, so fn may make any structural edit
// (insert or delete rows, merge cells, reconfigure columns). fn runs only
// the first time; redo restores the snapshot taken after it.
func EditTable(el *element.Element, label string, fn func(t *element.Table) error) Command {
	return &editTable{el: el, label: label, fn: fn}
}

func (c *editTable) Label() string { return c.label }

func (c *editTable) Do() ([]element.Change, error) {
	if c.el.Kind != element.KindTable || c.el.Table == nil {
		return nil, ferrors.UnknownProperty(c.el.ID, string(c.el.Kind), TableProperty)
	}
	if c.after != nil {
		*c.el.Table = *c.after.Clone()
		return c.change(c.before, c.after), nil
	}
	before := c.el.Table.Clone()
	if err := c.fn(c.el.Table); err != nil {
		*c.el.Table = *before
		return nil, err
	}
	c.before, c.after = before, c.el.Table.Clone()
	return c.change(c.before, c.after), nil
}

func (c *editTable) Undo() ([]element.Change, error) {
	if c.before == nil {
		return nil, ferrors.Replay(c.label, nil, "table edit was never applied")
	}
	*c.el.Table = *c.before.Clone()
	return c.change(c.after, c.before), nil
}

func (c *editTable) change(from, to *element.Table) []element.Change {
	return []element.Change{{
		Type:     element.PropertyChanged,
		Element:  c.el,
		Property: TableProperty,
		Old:      from,
		New:      to,
	}}
}

// InsertRow inserts a row before index at.
func InsertRow(el *element.Element, at int) Command {
	return EditTable(el, "Insert Row", func(t *element.Table) error { return t.InsertRow(at) })
}

// DeleteRow removes row at.
func DeleteRow(el *element.Element, at int) Command {
	return EditTable(el, "Delete Row", func(t *element.Table) error { return t.DeleteRow(at) })
}

// InsertColumn inserts a column before index at.
func InsertColumn(el *element.Element, at int) Command {
	return EditTable(el, "Insert Column", func(t *element.Table) error { return t.InsertColumn(at) })
}

// DeleteColumn removes column at.
func DeleteColumn(el *element.Element, at int) Command {
	return EditTable(el, "Delete Column", func(t *element.Table) error { return t.DeleteColumn(at) })
}

// SetCellContent sets the content of one cell.
func SetCellContent(el *element.Element, row, col int, content string) Command {
	return EditTable(el, "Edit Cell", func(t *element.Table) error { return t.SetContent(row, col, content) })
}

// ConfigureColumn replaces the configuration of one column.
func ConfigureColumn(el *element.Element, col element.TableColumn) Command {
	return EditTable(el, "Configure Column", func(t *element.Table) error { return t.SetColumn(col) })
}
