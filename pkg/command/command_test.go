package command

import (
	"fmt"
	"testing"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

func filledTable(t *testing.T, rows, cols int) *element.Element {
	t.Helper()
	el := newElement(t, element.KindTable)
	if err := el.Table.Resize(rows, cols); err != nil {
		t.Fatal(err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			_ = el.Table.SetContent(r, c, fmt.Sprintf("%d,%d", r, c))
		}
	}
	return el
}

func TestShrinkRowsDiscardsCells(t *testing.T) {
	el := filledTable(t, 3, 3)
	h := NewHistory()

	if err := h.Execute(ChangeProperty(el, "Rows", 3, 2)); err != nil {
		t.Fatal(err)
	}
	for _, c := range el.Table.Cells {
		if c.Row >= 2 {
			t.Errorf("cell (%d,%d) survived", c.Row, c.Column)
		}
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if el.Table.Rows != 3 || len(el.Table.Cells) != 9 {
		t.Errorf("after undo: rows = %d, cells = %d, want 3 and 9", el.Table.Rows, len(el.Table.Cells))
	}
	if got := el.Table.Resolve(2, 1).Content; got != "2,1" {
		t.Errorf("restored cell = %q, want 2,1", got)
	}
}

func TestDeleteRowCommand(t *testing.T) {
	el := filledTable(t, 3, 3)
	h := NewHistory()

	if err := h.Execute(DeleteRow(el, 2)); err != nil {
		t.Fatal(err)
	}
	if el.Table.Rows != 2 {
		t.Fatalf("rows = %d, want 2", el.Table.Rows)
	}
	for _, c := range el.Table.Cells {
		if c.Row >= 2 {
			t.Errorf("cell (%d,%d) has row >= 2", c.Row, c.Column)
		}
	}
	_ = h.Undo()
	_ = h.Redo()
	if el.Table.Rows != 2 || len(el.Table.Cells) != 6 {
		t.Errorf("after redo: rows = %d, cells = %d", el.Table.Rows, len(el.Table.Cells))
	}
}

func TestInsertColumnSynthesizesConfig(t *testing.T) {
	el := filledTable(t, 2, 2)
	el.Table.ColumnConfigs = []element.TableColumn{{Index: 0, Type: element.ColumnCheckBox}, {Index: 1, Type: element.ColumnComboBox}}
	h := NewHistory()

	if err := h.Execute(SetProperty(el, "Columns", 3)); err != nil {
		t.Fatal(err)
	}
	col := el.Table.ColumnAt(2)
	if col.Index != 2 || col.Type != element.ColumnTextBox {
		t.Errorf("column 2 = %+v, want synthesized textbox", col)
	}
	if len(el.Table.ColumnConfigs) != 3 {
		t.Errorf("configs = %d, want 3", len(el.Table.ColumnConfigs))
	}
}

func TestEditTableFailureRestores(t *testing.T) {
	el := filledTable(t, 2, 2)
	h := NewHistory()

	err := h.Execute(EditTable(el, "Bad", func(tbl *element.Table) error {
		_ = tbl.InsertRow(0)
		return tbl.DeleteColumn(7)
	}))
	if !ferrors.Is(err, ferrors.ErrCodeIndexOutOfRange) {
		t.Fatalf("Execute = %v, want out of range", err)
	}
	if el.Table.Rows != 2 || h.CanUndo() {
		t.Errorf("failed edit left rows = %d, canUndo = %v", el.Table.Rows, h.CanUndo())
	}

	text := newElement(t, element.KindText)
	if err := h.Execute(InsertRow(text, 0)); !ferrors.IsUnknown(err) {
		t.Errorf("table edit on text = %v, want unknown property", err)
	}
}

func TestEditTableChanges(t *testing.T) {
	el := filledTable(t, 2, 2)
	cmd := SetCellContent(el, 0, 0, "total")

	changes, err := cmd.Do()
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].Property != TableProperty {
		t.Fatalf("changes = %+v", changes)
	}
	old := changes[0].Old.(*element.Table)
	if old.Resolve(0, 0).Content != "0,0" {
		t.Error("old snapshot does not hold the previous content")
	}

	if _, err := cmd.Undo(); err != nil {
		t.Fatal(err)
	}
	if el.Table.Resolve(0, 0).Content != "0,0" {
		t.Error("undo did not restore the cell")
	}
	if _, err := ConfigureColumn(el, element.TableColumn{Index: 1, Type: element.ColumnCheckBox}).Do(); err != nil {
		t.Fatal(err)
	}
	if el.Table.ColumnAt(1).Type != element.ColumnCheckBox {
		t.Error("ConfigureColumn had no effect")
	}
}

func TestCompositeRollback(t *testing.T) {
	el := newElement(t, element.KindText)
	n := element.NewNotifier()
	published := 0
	n.Subscribe(func(element.Change) { published++ })
	h := NewHistory(WithNotifier(n))

	err := h.Execute(Composite("Broken",
		SetProperty(el, "X", 10.0),
		SetProperty(el, "Y", 20.0),
		SetProperty(el, "Bogus", 1),
	))
	if !ferrors.IsUnknown(err) {
		t.Fatalf("Execute = %v, want unknown property", err)
	}
	if el.X != 0 || el.Y != 0 {
		t.Errorf("position = (%g,%g), want rollback to origin", el.X, el.Y)
	}
	if h.CanUndo() || published != 0 {
		t.Errorf("canUndo = %v, published = %d", h.CanUndo(), published)
	}
}

func TestCompositeUndoOrder(t *testing.T) {
	el := newElement(t, element.KindText)
	cmd := Composite("Two",
		SetProperty(el, "X", 10.0),
		SetProperty(el, "X", 20.0),
	)
	changes, err := cmd.Do()
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 || changes[1].New != 20.0 {
		t.Fatalf("do changes = %+v", changes)
	}
	changes, err = cmd.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if el.X != 0 {
		t.Errorf("X = %g, want 0", el.X)
	}
	if changes[0].New != 10.0 || changes[1].New != 0.0 {
		t.Errorf("undo order: %v then %v", changes[0].New, changes[1].New)
	}
}

func TestIsEmpty(t *testing.T) {
	el := newElement(t, element.KindText)
	tests := []struct {
		name string
		cmd  Command
		want bool
	}{
		{"NoCommands", Composite("Nothing"), true},
		{"NestedEmpty", Composite("Outer", Composite("Inner")), true},
		{"OneEdit", Composite("Move", SetProperty(el, "X", 5.0)), false},
		{"NestedEdit", Composite("Outer", Composite("Inner", SetProperty(el, "X", 5.0))), false},
		{"Plain", SetProperty(el, "X", 5.0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.cmd); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveMissing(t *testing.T) {
	d := newTemplate()
	h := NewHistory()
	err := h.Execute(RemoveElement(d, newElement(t, element.KindText)))
	if !ferrors.Is(err, ferrors.ErrCodeNotFound) {
		t.Errorf("Execute = %v, want not found", err)
	}
	if h.CanUndo() {
		t.Error("failed remove was recorded")
	}
}

func TestRemoveRestoresPosition(t *testing.T) {
	d := newTemplate()
	els := make([]*element.Element, 4)
	for i := range els {
		els[i] = newElement(t, element.KindRectangle)
		_, _ = d.Add(els[i])
	}
	h := NewHistory()
	_ = h.Execute(RemoveElement(d, els[1]))
	_ = h.Execute(RemoveElement(d, els[2]))
	_ = h.Undo()
	_ = h.Undo()
	for i, e := range els {
		if d.IndexOf(e) != i {
			t.Errorf("element %d at %d", i, d.IndexOf(e))
		}
	}
}

func TestAddDuplicate(t *testing.T) {
	d := newTemplate()
	el := newElement(t, element.KindText)
	h := NewHistory()
	_ = h.Execute(AddElement(d, el))
	if err := h.Execute(AddElement(d, el)); !ferrors.Is(err, ferrors.ErrCodeDuplicateElement) {
		t.Errorf("second add = %v, want duplicate", err)
	}
	if d.Len() != 1 || h.UndoLen() != 1 {
		t.Error("duplicate add changed state")
	}
}
