package layout

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/template"
)

// grid measures 5 points per byte and 10 points per line.
var grid = MeasureFunc(func(text string, _ element.CellStyle, maxWidth float64) Size {
	width := func(s string) float64 { return float64(len(s)) * 5 }
	return measureLines(wrap(text, maxWidth, width), width, 10)
})

func tableElement(t *testing.T, rows, cols int, width float64) *element.Element {
	t.Helper()
	el, err := element.NewRegistry().Create(element.KindTable)
	if err != nil {
		t.Fatal(err)
	}
	el.Table = element.NewTable(rows, cols)
	el.Width = width
	return el
}

func setContent(t *testing.T, el *element.Element, row, col int, s string) {
	t.Helper()
	if err := el.Table.SetContent(row, col, s); err != nil {
		t.Fatal(err)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestDefaultTableEqualColumns(t *testing.T) {
	el, err := element.NewRegistry().Create(element.KindTable)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			setContent(t, el, r, c, fmt.Sprintf("%d,%d", r, c))
		}
	}

	changed, err := Apply(el, NewFontMeasurer(nil), DefaultOptions())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("first Apply reported no change")
	}
	w := el.Table.ColumnWidths
	if len(w) != 3 {
		t.Fatalf("widths = %v", w)
	}
	if w[0] != w[1] || w[1] != w[2] {
		t.Errorf("widths not equal: %v", w)
	}
	if w[0] < DefaultMinColumnWidth {
		t.Errorf("width %g below floor", w[0])
	}
	for _, h := range el.Table.RowHeights {
		if h < DefaultMinRowHeight {
			t.Errorf("height %g below floor", h)
		}
	}
}

func TestIdempotence(t *testing.T) {
	el := tableElement(t, 3, 4, 260)
	el.Table.CellPadding = 1.5
	el.Table.CellSpacing = 2
	setContent(t, el, 0, 0, "Description of goods")
	setContent(t, el, 1, 3, "12.50")
	setContent(t, el, 2, 1, "a somewhat longer remark that wraps")
	_ = el.Table.SetColumn(element.TableColumn{Index: 2, Type: element.ColumnComboBox, Options: []string{"kg", "pcs"}})

	a, err := Compute(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.ColumnWidths, b.ColumnWidths) || !slices.Equal(a.RowHeights, b.RowHeights) || a.Key != b.Key {
		t.Errorf("results differ:\n%+v\n%+v", a, b)
	}

	if _, err := Apply(el, grid, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	changed, err := Apply(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second Apply on an unchanged table reported a change")
	}
}

func TestFloor(t *testing.T) {
	zero := MeasureFunc(func(string, element.CellStyle, float64) Size { return Size{} })
	tests := []struct {
		name  string
		rows  int
		cols  int
		width float64
		m     Measurer
	}{
		{"EmptyNarrow", 2, 3, 1, grid},
		{"ZeroMeasure", 4, 4, 400, zero},
		{"ZeroMeasureNoSlack", 1, 5, 0.5, zero},
	}
	opts := DefaultOptions()
	opts.Distribution = None

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := tableElement(t, tt.rows, tt.cols, tt.width)
			r, err := Compute(el, tt.m, opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(r.ColumnWidths) != tt.cols || len(r.RowHeights) != tt.rows {
				t.Fatalf("vector lengths %d/%d", len(r.ColumnWidths), len(r.RowHeights))
			}
			for _, w := range r.ColumnWidths {
				if w < opts.MinColumnWidth {
					t.Errorf("width %g below floor", w)
				}
			}
			for _, h := range r.RowHeights {
				if h < opts.MinRowHeight {
					t.Errorf("height %g below floor", h)
				}
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	tests := []struct {
		name   string
		policy Distribution
		width  float64
		second string
		want   []float64
	}{
		{"None", None, 200, strings.Repeat("a", 10), []float64{8, 50}},
		{"Proportional", Proportional, 200, strings.Repeat("a", 10), []float64{8 + 142*8.0/58, 50 + 142*50.0/58}},
		{"Equal", Equal, 200, strings.Repeat("a", 10), []float64{100, 100}},
		{"EqualWideColumn", Equal, 100, strings.Repeat("a", 16), []float64{20, 80}},
		{"Overflow", Proportional, 20, strings.Repeat("a", 10), []float64{8, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := tableElement(t, 1, 2, tt.width)
			setContent(t, el, 0, 0, "a")
			setContent(t, el, 0, 1, tt.second)
			opts := DefaultOptions()
			opts.Distribution = tt.policy

			r, err := Compute(el, grid, opts)
			if err != nil {
				t.Fatal(err)
			}
			for i := range tt.want {
				if !approx(r.ColumnWidths[i], tt.want[i]) {
					t.Errorf("widths = %v, want %v", r.ColumnWidths, tt.want)
					break
				}
			}
		})
	}
}

func TestSpacingReducesAvailableWidth(t *testing.T) {
	el := tableElement(t, 1, 3, 100)
	el.Table.CellSpacing = 5
	opts := DefaultOptions()
	opts.Distribution = Equal

	r, err := Compute(el, grid, opts)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, w := range r.ColumnWidths {
		sum += w
	}
	if !approx(sum+4*5, 100) {
		t.Errorf("widths %v plus spacing = %g, want 100", r.ColumnWidths, sum+20)
	}
}

func TestColumnTypes(t *testing.T) {
	el := tableElement(t, 1, 3, 0)
	el.Table.CellPadding = 2
	setContent(t, el, 0, 0, "ignored text for a checkbox")
	setContent(t, el, 0, 1, "kg")
	_ = el.Table.SetColumn(element.TableColumn{Index: 0, Type: element.ColumnCheckBox})
	_ = el.Table.SetColumn(element.TableColumn{Index: 1, Type: element.ColumnComboBox, Options: []string{"kg", "pieces"}})
	_ = el.Table.SetColumn(element.TableColumn{Index: 2, Type: element.ColumnTextBox, Width: 30})

	r, err := Compute(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if want := DefaultCheckBoxSize + 4; !approx(r.ColumnWidths[0], want) {
		t.Errorf("checkbox width = %g, want %g", r.ColumnWidths[0], want)
	}
	if want := 30 + DefaultChoiceChrome + 4; !approx(r.ColumnWidths[1], want) {
		t.Errorf("combobox width = %g, want %g", r.ColumnWidths[1], want)
	}
	if r.ColumnWidths[2] != 30 {
		t.Errorf("fixed width = %g, want 30", r.ColumnWidths[2])
	}
}

func TestFixedColumnKeepsWidth(t *testing.T) {
	el := tableElement(t, 1, 2, 300)
	setContent(t, el, 0, 0, strings.Repeat("x", 20))
	_ = el.Table.SetColumn(element.TableColumn{Index: 0, Type: element.ColumnTextBox, Width: 40})

	r, err := Compute(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.ColumnWidths[0] != 40 {
		t.Errorf("fixed column = %g, want 40", r.ColumnWidths[0])
	}
	if !approx(r.ColumnWidths[1], 260) {
		t.Errorf("auto column = %g, want 260", r.ColumnWidths[1])
	}
	// 100 points of text wrapped into 40: "xxxx..." is one word, so one line.
	if r.RowHeights[0] != 10 {
		t.Errorf("row height = %g, want 10", r.RowHeights[0])
	}
}

func TestWrappedRowHeight(t *testing.T) {
	el := tableElement(t, 2, 1, 0)
	_ = el.Table.SetColumn(element.TableColumn{Index: 0, Type: element.ColumnTextBox, Width: 30})
	setContent(t, el, 0, 0, "aaaa bbbb cccc")
	setContent(t, el, 1, 0, "")

	r, err := Compute(el, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.RowHeights[0] != 30 {
		t.Errorf("wrapped row = %g, want 30", r.RowHeights[0])
	}
	if r.RowHeights[1] != 10 {
		t.Errorf("empty row = %g, want 10", r.RowHeights[1])
	}
}

func TestSpans(t *testing.T) {
	t.Run("Columns", func(t *testing.T) {
		el := tableElement(t, 2, 2, 0)
		_ = el.Table.SetCell(element.TableCell{Row: 0, Column: 0, ColumnSpan: 2, Content: strings.Repeat("h", 40)})
		opts := DefaultOptions()
		opts.Distribution = None

		r, err := Compute(el, grid, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !approx(r.ColumnWidths[0], 100) || !approx(r.ColumnWidths[1], 100) {
			t.Errorf("widths = %v, want [100 100]", r.ColumnWidths)
		}
	})

	t.Run("Rows", func(t *testing.T) {
		el := tableElement(t, 2, 1, 0)
		_ = el.Table.SetColumn(element.TableColumn{Index: 0, Type: element.ColumnTextBox, Width: 25})
		_ = el.Table.SetCell(element.TableCell{Row: 0, Column: 0, RowSpan: 2, Content: "aaaa aaaa aaaa aaaa"})

		r, err := Compute(el, grid, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if !approx(r.RowHeights[0], 20) || !approx(r.RowHeights[1], 20) {
			t.Errorf("heights = %v, want [20 20]", r.RowHeights)
		}
	})
}

func TestGlobalFontSize(t *testing.T) {
	el := tableElement(t, 1, 1, 0)
	setContent(t, el, 0, 0, "abc")

	var sizes []float64
	spy := MeasureFunc(func(text string, s element.CellStyle, maxWidth float64) Size {
		sizes = append(sizes, s.FontSize)
		return grid(text, s, maxWidth)
	})

	opts := DefaultOptions()
	opts.GlobalFontSize = 14
	if _, err := Compute(el, spy, opts); err != nil {
		t.Fatal(err)
	}
	if sizes[0] != 14 {
		t.Errorf("font size = %g, want global 14", sizes[0])
	}

	sizes = nil
	el.Font.IgnoreGlobalSize = true
	if _, err := Compute(el, spy, opts); err != nil {
		t.Fatal(err)
	}
	if sizes[0] != el.Font.Size {
		t.Errorf("font size = %g, want element size %g", sizes[0], el.Font.Size)
	}

	sizes = nil
	_ = el.Table.SetCell(element.TableCell{Row: 0, Column: 0, Content: "abc", Style: &element.CellStyle{FontSize: 7}})
	if _, err := Compute(el, spy, opts); err != nil {
		t.Fatal(err)
	}
	if sizes[0] != 7 {
		t.Errorf("font size = %g, want cell override 7", sizes[0])
	}
}

func TestStale(t *testing.T) {
	el := tableElement(t, 2, 2, 120)
	opts := DefaultOptions()

	if !Stale(el, opts) {
		t.Error("never laid out table should be stale")
	}
	if _, err := Apply(el, grid, opts); err != nil {
		t.Fatal(err)
	}
	if Stale(el, opts) {
		t.Error("freshly laid out table is stale")
	}

	el.Width = 200
	if !Stale(el, opts) {
		t.Error("width change not detected")
	}
	_, _ = Apply(el, grid, opts)

	opts.MinRowHeight = 9
	if !Stale(el, opts) {
		t.Error("option change not detected")
	}
	_, _ = Apply(el, grid, opts)

	setContent(t, el, 1, 1, "new")
	if !Stale(el, opts) {
		t.Error("content change not detected")
	}
}

func TestPass(t *testing.T) {
	d := template.New("t", template.A4, template.Portrait)
	reg := element.NewRegistry()
	for _, k := range []element.Kind{element.KindTable, element.KindText, element.KindTable} {
		e, _ := reg.Create(k)
		_, _ = d.Add(e)
	}

	updated, err := Pass(d, grid, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 2 {
		t.Errorf("first pass updated %d tables, want 2", len(updated))
	}
	updated, _ = Pass(d, grid, DefaultOptions())
	if len(updated) != 0 {
		t.Errorf("second pass updated %d tables, want 0", len(updated))
	}

	d.GlobalFontSize = 12
	for _, el := range d.Tables() {
		if !Stale(el, Options{GlobalFontSize: 12}) {
			t.Error("global font size change not detected")
		}
	}

	broken := d.Tables()[0]
	broken.Table.CellPadding = -1
	broken.Table.LayoutKey = ""
	updated, err = Pass(d, grid, DefaultOptions())
	if !ferrors.IsValidation(err) {
		t.Errorf("Pass error = %v, want validation error", err)
	}
	if len(updated) != 1 {
		t.Errorf("pass with one broken table updated %d, want 1", len(updated))
	}
}

func TestComputeErrors(t *testing.T) {
	text, _ := element.NewRegistry().Create(element.KindText)
	if _, err := Compute(text, grid, DefaultOptions()); !ferrors.Is(err, ferrors.ErrCodeUnsupported) {
		t.Errorf("Compute(text) = %v, want unsupported", err)
	}

	el := tableElement(t, 1, 1, 10)
	if _, err := Compute(el, grid, Options{Distribution: "random"}); !ferrors.IsValidation(err) {
		t.Errorf("bad distribution = %v, want validation error", err)
	}
	el.Table.Rows = 0
	if _, err := Compute(el, grid, DefaultOptions()); !ferrors.IsValidation(err) {
		t.Errorf("zero rows = %v, want validation error", err)
	}
}
