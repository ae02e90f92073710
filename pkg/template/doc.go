// Package template holds the template container and its selection and
// stacking bookkeeping.
//
// A [Definition] owns an ordered list of elements together with page
// metadata. The list order is the insertion order; paint order is given by
// [Definition.Ordered], which sorts by z-index and falls back to insertion
// order so the result is total and deterministic.
//
// [Selection] is independent of the definition and only stores element IDs.
// Hook it to a notifier with [Selection.Observe] so removed elements drop out
// of the selection automatically.
package template
