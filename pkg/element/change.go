package element

import "sync"

// ChangeType identifies what a Change describes.
type ChangeType int

const (
	// PropertyChanged reports a property going from Old to New.
	PropertyChanged ChangeType = iota
	// ElementAdded reports Element being inserted into a template at Index.
	ElementAdded
	// ElementRemoved reports Element being removed from a template at Index.
	ElementRemoved
)

func (t ChangeType) String() string {
	switch t {
	case PropertyChanged:
		return "property"
	case ElementAdded:
		return "added"
	case ElementRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is the diff produced by a mutation. Property, Old and New are set
// for PropertyChanged; Index is set for ElementAdded and ElementRemoved.
type Change struct {
	Type     ChangeType
	Element  *Element
	Property string
	Old      any
	New      any
	Index    int
}

// Observer receives changes synchronously, in the order they happened.
type Observer func(Change)

// Notifier fans changes out to observers. Delivery iterates over a snapshot
// of the current subscribers, so an observer may subscribe, cancel, or set
// further properties while being notified. Callers are responsible for not
// creating cycles.
//
// A nil *Notifier is valid and drops every change.
type Notifier struct {
	mu        sync.Mutex
	next      int
	observers []subscription
}

type subscription struct {
	id int
	fn Observer
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn and returns a function that removes it again.
func (n *Notifier) Subscribe(fn Observer) (cancel func()) {
	if n == nil || fn == nil {
		return func() {}
	}
	n.mu.Lock()
	id := n.next
	n.next++
	n.observers = append(n.observers, subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.observers {
				if s.id == id {
					n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers changes to every observer subscribed at call time.
func (n *Notifier) Publish(changes ...Change) {
	if n == nil || len(changes) == 0 {
		return
	}
	n.mu.Lock()
	subs := make([]subscription, len(n.observers))
	copy(subs, n.observers)
	n.mu.Unlock()

	for _, c := range changes {
		for _, s := range subs {
			s.fn(c)
		}
	}
}

// Set assigns a property on e and publishes the change if the value differs.
func (n *Notifier) Set(e *Element, name string, value any) (bool, error) {
	c, changed, err := e.Set(name, value)
	if err != nil || !changed {
		return false, err
	}
	n.Publish(c)
	return true, nil
}

// Len returns the number of subscribed observers.
func (n *Notifier) Len() int {
	if n == nil {
		return 0
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}
