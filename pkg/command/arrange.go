package command

import (
	"slices"

	"github.com/matzehuels/formwork/pkg/element"
	"github.com/matzehuels/formwork/pkg/template"
)

// Duplicate clones src into t, offset by (dx, dy) and stacked on top of
// everything else. It returns the clone so callers can select it.
func Duplicate(t *template.Definition, src *element.Element, dx, dy float64) (*element.Element, Command) {
	clone := src.Clone()
	return clone, Composite("Duplicate "+kindName(src),
		AddElement(t, clone),
		ChangeProperty(clone, "X", clone.X, clone.X+dx),
		ChangeProperty(clone, "Y", clone.Y, clone.Y+dy),
		ChangeProperty(clone, "ZIndex", clone.ZIndex, t.TopZ()+1),
	)
}

// BringToFront raises el above every other element. It is a no-op when el
// already paints on top.
func BringToFront(t *template.Definition, el *element.Element) Command {
	if t.Above(el) == nil {
		return Composite("Bring to Front")
	}
	return Composite("Bring to Front", ChangeProperty(el, "ZIndex", el.ZIndex, t.TopZ()+1))
}

// SendToBack lowers el below every other element. It is a no-op when el
// already paints at the bottom.
func SendToBack(t *template.Definition, el *element.Element) Command {
	if t.Below(el) == nil {
		return Composite("Send to Back")
	}
	return Composite("Send to Back", ChangeProperty(el, "ZIndex", el.ZIndex, t.BottomZ()-1))
}

// BringForward moves el one step up the paint order.
func BringForward(t *template.Definition, el *element.Element) Command {
	return step(t, el, 1, "Bring Forward")
}

// SendBackward moves el one step down the paint order.
func SendBackward(t *template.Definition, el *element.Element) Command {
	return step(t, el, -1, "Send Backward")
}

// step swaps el with its neighbour in paint order and renumbers z-indexes to
// the resulting positions. Renumbering keeps the move exactly one step even
// when several elements share a z-index.
func step(t *template.Definition, el *element.Element, dir int, label string) Command {
	ordered := t.Ordered()
	i := slices.Index(ordered, el)
	j := i + dir
	if i < 0 || j < 0 || j >= len(ordered) {
		return Composite(label)
	}
	ordered[i], ordered[j] = ordered[j], ordered[i]
	return Composite(label, restack(ordered)...)
}

func restack(ordered []*element.Element) []Command {
	var cmds []Command
	for z, e := range ordered {
		if e.ZIndex != z {
			cmds = append(cmds, ChangeProperty(e, "ZIndex", e.ZIndex, z))
		}
	}
	return cmds
}
