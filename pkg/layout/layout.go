package layout

import (
	"slices"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

const eps = 1e-9

// Result holds the resolved vectors of one table and the fingerprint of the
// inputs they were computed from.
type Result struct {
	ColumnWidths []float64
	RowHeights   []float64
	Key          string
}

// cell is a matrix position that is laid out: an anchor cell together with
// its resolved style and column configuration.
type cell struct {
	element.TableCell
	style  element.CellStyle
	column element.TableColumn
}

// Compute lays out the table element el without modifying it.
//
// Column widths: each auto column is as wide as its widest single-column
// cell (content plus padding on both sides); columns with a fixed Width keep
// it. A cell spanning several columns widens them evenly when it does not
// fit. If the columns and the spacing around them are narrower than the
// element, the slack is shared out according to opts.Distribution; if they
// are wider, content widths win and the table overflows.
//
// Row heights: each row is as tall as its tallest cell, with text wrapped to
// the resolved width of the columns the cell spans. A cell spanning several
// rows grows them evenly when it does not fit.
//
// Every width and height is floored at the configured minimum. The result
// depends only on el, m and opts.
func Compute(el *element.Element, m Measurer, opts Options) (Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if el == nil || el.Kind != element.KindTable || el.Table == nil {
		return Result{}, ferrors.New(ferrors.ErrCodeUnsupported, "layout needs a table element")
	}
	t := el.Table
	if err := t.Validate(el.ID); err != nil {
		return Result{}, err
	}

	cells := anchors(el, opts)
	widths := columnWidths(el, cells, m, opts)
	heights := rowHeights(t, cells, widths, m, opts)
	return Result{ColumnWidths: widths, RowHeights: heights, Key: Fingerprint(el, opts)}, nil
}

// Apply computes the layout of el and stores the vectors and fingerprint on
// its table. It reports whether anything changed.
func Apply(el *element.Element, m Measurer, opts Options) (bool, error) {
	r, err := Compute(el, m, opts)
	if err != nil {
		return false, err
	}
	t := el.Table
	if t.LayoutKey == r.Key && slices.Equal(t.ColumnWidths, r.ColumnWidths) && slices.Equal(t.RowHeights, r.RowHeights) {
		return false, nil
	}
	t.ColumnWidths = r.ColumnWidths
	t.RowHeights = r.RowHeights
	t.LayoutKey = r.Key
	return true, nil
}

// Stale reports whether the stored vectors of el were computed from
// different inputs, or were never computed.
func Stale(el *element.Element, opts Options) bool {
	t := el.Table
	if t == nil {
		return false
	}
	if t.LayoutKey == "" || len(t.ColumnWidths) != t.Columns || len(t.RowHeights) != t.Rows {
		return true
	}
	opts.SetDefaults()
	return t.LayoutKey != Fingerprint(el, opts)
}

// Pass lays out every stale table of d and returns the tables that changed.
// The template's global font size replaces opts.GlobalFontSize. A table that
// fails does not stop the pass; the failures are joined into the error.
func Pass(d *template.Definition, m Measurer, opts Options) ([]*element.Element, error) {
	opts.GlobalFontSize = d.GlobalFontSize
	var (
		updated []*element.Element
		errs    []error
	)
	for _, el := range d.Tables() {
		if !Stale(el, opts) {
			continue
		}
		changed, err := Apply(el, m, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if changed {
			updated = append(updated, el)
		}
	}
	return updated, ferrors.Join(errs...)
}

// baseStyle is the style every cell inherits from the table element.
func baseStyle(el *element.Element, opts Options) element.CellStyle {
	f := el.Font
	if f == nil {
		return element.CellStyle{FontSize: opts.GlobalFontSize}
	}
	return element.CellStyle{
		FontFamily: f.Family,
		FontSize:   f.EffectiveSize(opts.GlobalFontSize),
		FontWeight: f.Weight,
		FontStyle:  f.Style,
		Foreground: f.Foreground,
		HAlign:     f.HAlign,
		VAlign:     f.VAlign,
	}
}

// anchors returns every position that is laid out, in row-major order.
// Positions covered by another cell's span are skipped.
func anchors(el *element.Element, opts Options) []cell {
	t := el.Table
	covered := make([]bool, t.Rows*t.Columns)
	for _, c := range t.Cells {
		for r := c.Row; r < c.Row+c.Rows(); r++ {
			for col := c.Column; col < c.Column+c.Columns(); col++ {
				if r != c.Row || col != c.Column {
					covered[r*t.Columns+col] = true
				}
			}
		}
	}

	base := baseStyle(el, opts)
	out := make([]cell, 0, t.Rows*t.Columns)
	for r := 0; r < t.Rows; r++ {
		for col := 0; col < t.Columns; col++ {
			if covered[r*t.Columns+col] {
				continue
			}
			tc := t.Resolve(r, col)
			style := base
			style.Merge(tc.Style)
			out = append(out, cell{TableCell: tc, style: style, column: t.ColumnAt(col)})
		}
	}
	return out
}

// measure returns the content size of c, wrapped to maxWidth when positive.
func measure(c cell, m Measurer, opts Options, maxWidth float64) Size {
	switch c.column.Type {
	case element.ColumnCheckBox:
		return Size{opts.CheckBoxSize, opts.CheckBoxSize}
	case element.ColumnComboBox:
		if maxWidth > 0 {
			s := m.Measure(c.Content, c.style, max(maxWidth-opts.ChoiceChrome, eps))
			s.Width += opts.ChoiceChrome
			return s
		}
		// The control must fit the widest choice, not just the current one.
		s := m.Measure(c.Content, c.style, 0)
		for _, opt := range c.column.Options {
			o := m.Measure(opt, c.style, 0)
			s.Width = max(s.Width, o.Width)
			s.Height = max(s.Height, o.Height)
		}
		s.Width += opts.ChoiceChrome
		return s
	default:
		return m.Measure(c.Content, c.style, maxWidth)
	}
}

func columnWidths(el *element.Element, cells []cell, m Measurer, opts Options) []float64 {
	t := el.Table
	pad := 2 * t.CellPadding
	widths := make([]float64, t.Columns)
	fixed := make([]bool, t.Columns)
	for i := range widths {
		col := t.ColumnAt(i)
		if col.Width > 0 {
			widths[i] = max(col.Width, opts.MinColumnWidth)
			fixed[i] = true
			continue
		}
		widths[i] = opts.MinColumnWidth
	}

	var spanning []cell
	for _, c := range cells {
		if c.Columns() > 1 {
			spanning = append(spanning, c)
			continue
		}
		if fixed[c.Column] {
			continue
		}
		widths[c.Column] = max(widths[c.Column], measure(c, m, opts, 0).Width+pad)
	}
	for _, c := range spanning {
		need := measure(c, m, opts, 0).Width + pad
		grow(widths, fixed, c.Column, c.Columns(), need, t.CellSpacing)
	}

	content := slices.Clone(widths)
	avail := el.Width - float64(t.Columns+1)*t.CellSpacing
	distribute(widths, content, fixed, avail, opts.Distribution)
	return widths
}

func rowHeights(t *element.Table, cells []cell, widths []float64, m Measurer, opts Options) []float64 {
	pad := 2 * t.CellPadding
	heights := make([]float64, t.Rows)
	for i := range heights {
		heights[i] = opts.MinRowHeight
	}
	noneFixed := make([]bool, t.Rows)

	var spanning []cell
	for _, c := range cells {
		if c.Rows() > 1 {
			spanning = append(spanning, c)
			continue
		}
		heights[c.Row] = max(heights[c.Row], cellHeight(c, t, widths, m, opts)+pad)
	}
	for _, c := range spanning {
		need := cellHeight(c, t, widths, m, opts) + pad
		grow(heights, noneFixed, c.Row, c.Rows(), need, t.CellSpacing)
	}
	return heights
}

func cellHeight(c cell, t *element.Table, widths []float64, m Measurer, opts Options) float64 {
	span := float64(c.Columns()-1) * t.CellSpacing
	for i := c.Column; i < c.Column+c.Columns(); i++ {
		span += widths[i]
	}
	inner := max(span-2*t.CellPadding, eps)
	return measure(c, m, opts, inner).Height
}

// grow widens the n entries of v starting at from until together with the
// spacing between them they reach need. The excess is split evenly across
// the entries that are not fixed; if every entry is fixed, v is left alone.
func grow(v []float64, fixed []bool, from, n int, need, spacing float64) {
	have := float64(n-1) * spacing
	var free []int
	for i := from; i < from+n; i++ {
		have += v[i]
		if !fixed[i] {
			free = append(free, i)
		}
	}
	excess := need - have
	if excess <= eps || len(free) == 0 {
		return
	}
	share := excess / float64(len(free))
	for _, i := range free {
		v[i] += share
	}
}

// distribute shares out avail - sum(widths) across the auto columns.
func distribute(widths, content []float64, fixed []bool, avail float64, policy Distribution) {
	var sum float64
	var auto []int
	for i, w := range widths {
		sum += w
		if !fixed[i] {
			auto = append(auto, i)
		}
	}
	slack := avail - sum
	if slack <= eps || len(auto) == 0 || policy == None {
		return
	}

	switch policy {
	case Equal:
		remaining := slack
		for _, i := range auto {
			remaining += widths[i]
		}
		// Columns wider than the equal share keep their width; the rest
		// split what is left. Repeat until the share settles.
		open := auto
		for {
			share := remaining / float64(len(open))
			var next []int
			for _, i := range open {
				if widths[i] > share+eps {
					remaining -= widths[i]
				} else {
					next = append(next, i)
				}
			}
			if len(next) == len(open) {
				for _, i := range open {
					widths[i] = share
				}
				return
			}
			open = next
		}
	default:
		var total float64
		for _, i := range auto {
			total += content[i]
		}
		for _, i := range auto {
			widths[i] += slack * content[i] / total
		}
	}
}
