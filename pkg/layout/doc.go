// Package layout computes table column widths and row heights from cell
// content.
//
// The algorithm is pure: [Compute] reads a table element and returns the
// resolved vectors without touching it, and identical inputs always give
// identical vectors. [Apply] stores a result on the table together with a
// fingerprint of the inputs, and [Stale] compares that fingerprint so a
// [Pass] over a template only recomputes tables whose content, geometry or
// options changed.
//
// Content is measured through a [Measurer] supplied by the caller. Two are
// provided: [FontMeasurer] scales a golang.org/x/image font face, and
// [RuneMeasurer] counts display cells with go-runewidth. How a cell is
// measured depends on its column type:
//
//	textbox   wrapped text
//	combobox  widest choice plus the drop-down chrome
//	checkbox  a fixed square, whatever the content
//
// Widths and heights never fall below [Options.MinColumnWidth] and
// [Options.MinRowHeight], so empty tables still get a usable grid.
package layout
