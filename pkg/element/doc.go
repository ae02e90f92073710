// Package element defines the template scene-graph: the placeable elements a
// designer puts on a page and the uniform contract for changing them.
//
// # Variants
//
// An [Element] is a closed tagged variant. Every element carries the common
// geometry and appearance attributes; the [Kind] tag selects which payload
// pointer is populated:
//
//	text, label     -> Text
//	image           -> Image
//	line            -> Line
//	rectangle       -> (none)
//	ellipse         -> (none)
//	table           -> Table
//	barcode         -> Barcode
//	signature       -> Signature
//	autonumber      -> AutoNumber
//	labelinput      -> LabelInput
//
// Elements are created through a [Registry], an explicitly constructed
// factory table that maps each kind to its defaults. There is no package
// level registry.
//
// # Property changes
//
// Properties are addressed by name so generic callers (the command engine,
// property panels) can work across all variants:
//
//	change, changed, err := el.Set("Opacity", 0.5)
//
// Set compares the old and new value by equality and only mutates when they
// differ, returning the old/new pair as a [Change]. A [Notifier] fans changes
// out to observers synchronously, in the order they were made.
//
// # Validation
//
// Mutations never enforce invariants. [Element.Validate] is a read-only check
// run on demand that fails with a VALIDATION_FAILED error naming the element
// and the violated field. [Element.ValidateBounds] is the soft page-extent
// check and only reports a boolean.
package element
