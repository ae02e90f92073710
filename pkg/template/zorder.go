package template

import "github.com/matzehuels/formwork/pkg/element"

// TopZ returns the highest z-index in use, or 0 for an empty template.
func (d *Definition) TopZ() int {
	if len(d.Elements) == 0 {
		return 0
	}
	z := d.Elements[0].ZIndex
	for _, e := range d.Elements[1:] {
		z = max(z, e.ZIndex)
	}
	return z
}

// BottomZ returns the lowest z-index in use, or 0 for an empty template.
func (d *Definition) BottomZ() int {
	if len(d.Elements) == 0 {
		return 0
	}
	z := d.Elements[0].ZIndex
	for _, e := range d.Elements[1:] {
		z = min(z, e.ZIndex)
	}
	return z
}

// Above returns the element painted directly above el, or nil if el is on
// top or not part of the template.
func (d *Definition) Above(el *element.Element) *element.Element {
	ordered := d.Ordered()
	for i, e := range ordered {
		if e == el && i+1 < len(ordered) {
			return ordered[i+1]
		}
	}
	return nil
}

// Below returns the element painted directly below el, or nil if el is at
// the bottom or not part of the template.
func (d *Definition) Below(el *element.Element) *element.Element {
	ordered := d.Ordered()
	for i, e := range ordered {
		if e == el && i > 0 {
			return ordered[i-1]
		}
	}
	return nil
}

// PaintsAbove reports whether a is painted above b under the ordering used
// by [Definition.Ordered].
func (d *Definition) PaintsAbove(a, b *element.Element) bool {
	if a.ZIndex != b.ZIndex {
		return a.ZIndex > b.ZIndex
	}
	return d.IndexOf(a) > d.IndexOf(b)
}
