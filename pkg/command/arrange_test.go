package command

import (
	"slices"
	"testing"

	"github.com/matzehuels/formwork/pkg/element"
	"github.com/matzehuels/formwork/pkg/template"
)

func stack(t *testing.T, zs ...int) (*template.Definition, []*element.Element) {
	t.Helper()
	d := newTemplate()
	els := make([]*element.Element, len(zs))
	for i, z := range zs {
		els[i] = newElement(t, element.KindRectangle)
		els[i].ZIndex = z
		_, _ = d.Add(els[i])
	}
	return d, els
}

func paintOrder(d *template.Definition, els []*element.Element) []int {
	var out []int
	for _, e := range d.Ordered() {
		for i, x := range els {
			if x == e {
				out = append(out, i)
			}
		}
	}
	return out
}

func TestZOrderCommands(t *testing.T) {
	tests := []struct {
		name  string
		zs    []int
		build func(d *template.Definition, els []*element.Element) Command
		want  []int
		noop  bool
	}{
		{
			name:  "BringToFront",
			zs:    []int{0, 1, 2},
			build: func(d *template.Definition, els []*element.Element) Command { return BringToFront(d, els[0]) },
			want:  []int{1, 2, 0},
		},
		{
			name:  "BringToFrontAlreadyTop",
			zs:    []int{0, 1, 2},
			build: func(d *template.Definition, els []*element.Element) Command { return BringToFront(d, els[2]) },
			want:  []int{0, 1, 2},
			noop:  true,
		},
		{
			name:  "SendToBack",
			zs:    []int{0, 0, 0},
			build: func(d *template.Definition, els []*element.Element) Command { return SendToBack(d, els[2]) },
			want:  []int{2, 0, 1},
		},
		{
			name:  "BringForwardTies",
			zs:    []int{0, 0, 0},
			build: func(d *template.Definition, els []*element.Element) Command { return BringForward(d, els[0]) },
			want:  []int{1, 0, 2},
		},
		{
			name:  "SendBackward",
			zs:    []int{5, 3, 9},
			build: func(d *template.Definition, els []*element.Element) Command { return SendBackward(d, els[2]) },
			want:  []int{1, 2, 0},
		},
		{
			name:  "SendBackwardAtBottom",
			zs:    []int{1, 2},
			build: func(d *template.Definition, els []*element.Element) Command { return SendBackward(d, els[0]) },
			want:  []int{0, 1},
			noop:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, els := stack(t, tt.zs...)
			before := paintOrder(d, els)

			cmd := tt.build(d, els)
			if IsEmpty(cmd) != tt.noop {
				t.Errorf("IsEmpty = %v, noop = %v", IsEmpty(cmd), tt.noop)
			}
			changes, err := cmd.Do()
			if err != nil {
				t.Fatal(err)
			}
			if tt.noop != (len(changes) == 0) {
				t.Errorf("changes = %d, noop = %v", len(changes), tt.noop)
			}
			if got := paintOrder(d, els); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}

			if _, err := cmd.Undo(); err != nil {
				t.Fatal(err)
			}
			if got := paintOrder(d, els); !slices.Equal(got, before) {
				t.Errorf("order after undo = %v, want %v", got, before)
			}
			for i, e := range els {
				if e.ZIndex != tt.zs[i] {
					t.Errorf("z[%d] = %d, want %d", i, e.ZIndex, tt.zs[i])
				}
			}
		})
	}
}

func TestDuplicate(t *testing.T) {
	d := newTemplate()
	src := newElement(t, element.KindText)
	src.X, src.Y = 10, 20
	_, _ = d.Add(src)
	h := NewHistory()

	clone, cmd := Duplicate(d, src, 5, 5)
	if err := h.Execute(cmd); err != nil {
		t.Fatal(err)
	}
	if clone.ID == src.ID || d.Find(clone.ID) != clone {
		t.Fatal("clone not added with a fresh id")
	}
	if clone.X != 15 || clone.Y != 25 {
		t.Errorf("clone at (%g,%g), want (15,25)", clone.X, clone.Y)
	}
	if !d.PaintsAbove(clone, src) {
		t.Error("clone should paint above the source")
	}
	if h.UndoLabel() != "Duplicate text" {
		t.Errorf("label = %q", h.UndoLabel())
	}

	_ = h.Undo()
	if d.Len() != 1 {
		t.Errorf("len after undo = %d, want 1", d.Len())
	}
}
