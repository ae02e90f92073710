package template

import (
	"slices"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// Definition is a template: page metadata plus an ordered element list.
// Elements are owned exclusively by the definition that holds them; the list
// order is the insertion order used to break z-index ties.
type Definition struct {
	ID             string             `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	PageWidth      float64            `json:"page_width" bson:"page_width"`
	PageHeight     float64            `json:"page_height" bson:"page_height"`
	Margins        Margins            `json:"margins" bson:"margins"`
	Orientation    Orientation        `json:"orientation" bson:"orientation"`
	Background     string             `json:"background,omitempty" bson:"background,omitempty"`
	GlobalFontSize float64            `json:"global_font_size,omitempty" bson:"global_font_size,omitempty"`
	Elements       []*element.Element `json:"elements" bson:"elements"`

	// Path is where the definition was loaded from. It is not persisted.
	Path string `json:"-" bson:"-"`
}

// New returns an empty definition on the given page.
func New(name string, size PageSize, o Orientation) *Definition {
	if o == "" {
		o = Portrait
	}
	w, h := size.Oriented(o)
	return &Definition{
		ID:          element.NewID(),
		Name:        name,
		PageWidth:   w,
		PageHeight:  h,
		Orientation: o,
		Margins:     UniformMargins(36),
		Elements:    []*element.Element{},
	}
}

// Len returns the number of elements.
func (d *Definition) Len() int { return len(d.Elements) }

// IndexOf returns the list position of el by identity, or -1.
func (d *Definition) IndexOf(el *element.Element) int {
	return slices.Index(d.Elements, el)
}

// Find returns the element with the given ID, or nil.
func (d *Definition) Find(id string) *element.Element {
	for _, e := range d.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Add appends el and returns its index.
func (d *Definition) Add(el *element.Element) (int, error) {
	if err := d.Insert(len(d.Elements), el); err != nil {
		return -1, err
	}
	return len(d.Elements) - 1, nil
}

// Insert places el at list position at (at == Len appends).
func (d *Definition) Insert(at int, el *element.Element) error {
	if el == nil {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "element cannot be nil")
	}
	if at < 0 || at > len(d.Elements) {
		return ferrors.OutOfRange(d.ID, "Elements", at, len(d.Elements)+1)
	}
	if d.Find(el.ID) != nil {
		return &ferrors.Error{
			Code:    ferrors.ErrCodeDuplicateElement,
			Message: "element is already part of the template",
			Subject: d.ID,
			Field:   el.ID,
		}
	}
	d.Elements = slices.Insert(d.Elements, at, el)
	return nil
}

// Remove removes el by identity and returns its former index, or -1 when el
// is not in the list.
func (d *Definition) Remove(el *element.Element) int {
	i := d.IndexOf(el)
	if i >= 0 {
		d.Elements = slices.Delete(d.Elements, i, i+1)
	}
	return i
}

// Ordered returns the elements in paint order: ascending z-index, ties broken
// by insertion order. The returned slice is a copy.
func (d *Definition) Ordered() []*element.Element {
	out := slices.Clone(d.Elements)
	slices.SortStableFunc(out, func(a, b *element.Element) int {
		return a.ZIndex - b.ZIndex
	})
	return out
}

// At returns the topmost visible element containing the point, or nil.
func (d *Definition) At(x, y float64) *element.Element {
	ordered := d.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		if e.Style.Visible && e.Contains(x, y) {
			return e
		}
	}
	return nil
}

// Tables returns the table elements in list order.
func (d *Definition) Tables() []*element.Element {
	var out []*element.Element
	for _, e := range d.Elements {
		if e.Kind == element.KindTable && e.Table != nil {
			out = append(out, e)
		}
	}
	return out
}

// ContentBounds returns the page area inside the margins.
func (d *Definition) ContentBounds() (x, y, w, h float64) {
	m := d.Margins
	return m.Left, m.Top, d.PageWidth - m.Left - m.Right, d.PageHeight - m.Top - m.Bottom
}

// Validate checks the page settings and every element. Page problems are
// returned on their own; element problems are joined so callers see all of
// them at once.
func (d *Definition) Validate() error {
	id := d.ID
	checks := []error{
		ferrors.Positive(id, "PageWidth", d.PageWidth),
		ferrors.Positive(id, "PageHeight", d.PageHeight),
		ferrors.NonNegative(id, "Margins.Top", d.Margins.Top),
		ferrors.NonNegative(id, "Margins.Right", d.Margins.Right),
		ferrors.NonNegative(id, "Margins.Bottom", d.Margins.Bottom),
		ferrors.NonNegative(id, "Margins.Left", d.Margins.Left),
		ferrors.NonNegative(id, "GlobalFontSize", d.GlobalFontSize),
		ferrors.Color(id, "Background", d.Background),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if d.Orientation != Portrait && d.Orientation != Landscape {
		return ferrors.Invalid(id, "Orientation", "unknown orientation %q", d.Orientation)
	}
	if d.Margins.Left+d.Margins.Right >= d.PageWidth || d.Margins.Top+d.Margins.Bottom >= d.PageHeight {
		return ferrors.Invalid(id, "Margins", "margins leave no content area")
	}

	var errs []error
	seen := make(map[string]bool, len(d.Elements))
	for _, e := range d.Elements {
		if e == nil {
			errs = append(errs, ferrors.Invalid(id, "Elements", "nil element"))
			continue
		}
		if seen[e.ID] {
			errs = append(errs, &ferrors.Error{
				Code:    ferrors.ErrCodeDuplicateElement,
				Message: "duplicate element id",
				Subject: id,
				Field:   e.ID,
			})
		}
		seen[e.ID] = true
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return ferrors.Join(errs...)
}

// OutOfBounds returns the elements that do not fit on the page. This is a
// soft check and never fails.
func (d *Definition) OutOfBounds() []*element.Element {
	var out []*element.Element
	for _, e := range d.Elements {
		if !e.ValidateBounds(d.PageWidth, d.PageHeight) {
			out = append(out, e)
		}
	}
	return out
}
