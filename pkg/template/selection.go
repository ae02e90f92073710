package template

import (
	"slices"

	"github.com/matzehuels/formwork/pkg/element"
)

// Selection tracks selected element IDs in the order they were selected.
// The most recently selected element is the primary one.
type Selection struct {
	ids []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select replaces the selection with ids.
func (s *Selection) Select(ids ...string) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		s.Add(id)
	}
}

// Add selects id, making it primary. Adding an already selected id moves it
// to the primary position.
func (s *Selection) Add(id string) {
	s.Remove(id)
	s.ids = append(s.ids, id)
}

// Toggle adds id if unselected and removes it otherwise. It returns whether
// id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id and reports whether it was selected.
func (s *Selection) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool { return slices.Contains(s.ids, id) }

// Len returns the number of selected elements.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected IDs in selection order.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

// Primary returns the most recently selected ID.
func (s *Selection) Primary() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[len(s.ids)-1], true
}

// Resolve returns the selected elements of d in paint order. IDs not found in
// d are skipped.
func (s *Selection) Resolve(d *Definition) []*element.Element {
	var out []*element.Element
	for _, e := range d.Ordered() {
		if s.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Prune drops IDs that are no longer part of d and returns how many were
// dropped.
func (s *Selection) Prune(d *Definition) int {
	n := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		return d.Find(id) == nil
	})
	return n - len(s.ids)
}

// Observe subscribes to n and deselects elements as they are removed.
func (s *Selection) Observe(n *element.Notifier) (cancel func()) {
	return n.Subscribe(func(c element.Change) {
		if c.Type == element.ElementRemoved && c.Element != nil {
			s.Remove(c.Element.ID)
		}
	})
}
