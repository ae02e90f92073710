package element

import (
	"slices"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
)

// ColumnType is the declared value type of a table column.
type ColumnType string

const (
	ColumnTextBox  ColumnType = "textbox"
	ColumnComboBox ColumnType = "combobox"
	ColumnCheckBox ColumnType = "checkbox"
)

func (t ColumnType) valid() bool {
	switch t {
	case ColumnTextBox, ColumnComboBox, ColumnCheckBox:
		return true
	}
	return false
}

// CellStyle holds per-cell overrides. Zero values inherit from the table
// element's font and style.
type CellStyle struct {
	FontFamily string    `json:"font_family,omitempty" bson:"font_family,omitempty"`
	FontSize   float64   `json:"font_size,omitempty" bson:"font_size,omitempty"`
	FontWeight string    `json:"font_weight,omitempty" bson:"font_weight,omitempty"`
	FontStyle  string    `json:"font_style,omitempty" bson:"font_style,omitempty"`
	Foreground string    `json:"foreground,omitempty" bson:"foreground,omitempty"`
	Background string    `json:"background,omitempty" bson:"background,omitempty"`
	HAlign     Alignment `json:"h_align,omitempty" bson:"h_align,omitempty"`
	VAlign     Alignment `json:"v_align,omitempty" bson:"v_align,omitempty"`
}

// Merge copies the non-zero fields of src over s.
func (s *CellStyle) Merge(src *CellStyle) {
	if src == nil {
		return
	}
	if src.FontFamily != "" {
		s.FontFamily = src.FontFamily
	}
	if src.FontSize > 0 {
		s.FontSize = src.FontSize
	}
	if src.FontWeight != "" {
		s.FontWeight = src.FontWeight
	}
	if src.FontStyle != "" {
		s.FontStyle = src.FontStyle
	}
	if src.Foreground != "" {
		s.Foreground = src.Foreground
	}
	if src.Background != "" {
		s.Background = src.Background
	}
	if src.HAlign != "" {
		s.HAlign = src.HAlign
	}
	if src.VAlign != "" {
		s.VAlign = src.VAlign
	}
}

// TableCell is one addressed cell of a table. A span of 0 or 1 means the cell
// covers a single row or column.
type TableCell struct {
	Row        int        `json:"row" bson:"row"`
	Column     int        `json:"column" bson:"column"`
	RowSpan    int        `json:"row_span,omitempty" bson:"row_span,omitempty"`
	ColumnSpan int        `json:"column_span,omitempty" bson:"column_span,omitempty"`
	Content    string     `json:"content" bson:"content"`
	Style      *CellStyle `json:"style,omitempty" bson:"style,omitempty"`
	Binding    string     `json:"binding,omitempty" bson:"binding,omitempty"`
	Editable   bool       `json:"editable,omitempty" bson:"editable,omitempty"`
}

// Rows returns the effective row span (at least 1).
func (c TableCell) Rows() int { return max(c.RowSpan, 1) }

// Columns returns the effective column span (at least 1).
func (c TableCell) Columns() int { return max(c.ColumnSpan, 1) }

// Covers reports whether the cell's span includes (row, col).
func (c TableCell) Covers(row, col int) bool {
	return row >= c.Row && row < c.Row+c.Rows() && col >= c.Column && col < c.Column+c.Columns()
}

// TableColumn configures one column of a table.
type TableColumn struct {
	Index    int        `json:"index" bson:"index"`
	Type     ColumnType `json:"type" bson:"type"`
	Header   string     `json:"header,omitempty" bson:"header,omitempty"`
	Editable bool       `json:"editable,omitempty" bson:"editable,omitempty"`
	Default  string     `json:"default,omitempty" bson:"default,omitempty"`
	Options  []string   `json:"options,omitempty" bson:"options,omitempty"`
	Width    float64    `json:"width,omitempty" bson:"width,omitempty"` // fixed width; 0 means auto
}

// DefaultColumn returns the configuration synthesized for a column that has none.
func DefaultColumn(index int) TableColumn {
	return TableColumn{Index: index, Type: ColumnTextBox, Editable: true}
}

// Table is the payload of table elements. Cells and column configurations are
// sparse and kept sorted; ColumnWidths and RowHeights are the vectors resolved
// by the layout pass, and LayoutKey fingerprints the inputs they came from.
type Table struct {
	Rows          int           `json:"rows" bson:"rows"`
	Columns       int           `json:"columns" bson:"columns"`
	Cells         []TableCell   `json:"cells,omitempty" bson:"cells,omitempty"`
	ColumnConfigs []TableColumn `json:"column_configs,omitempty" bson:"column_configs,omitempty"`
	ColumnWidths  []float64     `json:"column_widths,omitempty" bson:"column_widths,omitempty"`
	RowHeights    []float64     `json:"row_heights,omitempty" bson:"row_heights,omitempty"`
	CellSpacing   float64       `json:"cell_spacing" bson:"cell_spacing"`
	CellPadding   float64       `json:"cell_padding" bson:"cell_padding"`
	LayoutKey     string        `json:"layout_key,omitempty" bson:"layout_key,omitempty"`
}

// NewTable creates a rows x cols table with default column configurations.
func NewTable(rows, cols int) *Table {
	t := &Table{}
	_ = t.Resize(max(rows, 0), max(cols, 0))
	return t
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := *t
	c.Cells = make([]TableCell, len(t.Cells))
	for i, cell := range t.Cells {
		if cell.Style != nil {
			s := *cell.Style
			cell.Style = &s
		}
		c.Cells[i] = cell
	}
	c.ColumnConfigs = make([]TableColumn, len(t.ColumnConfigs))
	for i, col := range t.ColumnConfigs {
		col.Options = slices.Clone(col.Options)
		c.ColumnConfigs[i] = col
	}
	c.ColumnWidths = slices.Clone(t.ColumnWidths)
	c.RowHeights = slices.Clone(t.RowHeights)
	return &c
}

// Resize changes the matrix to rows x cols. Cells and column configurations
// outside the new bounds are discarded, spans are clipped, and the resolved
// vectors are truncated. Columns gained by the resize get a default
// configuration.
func (t *Table) Resize(rows, cols int) error {
	if rows < 0 {
		return ferrors.Invalid("table", "Rows", "must not be negative, got %d", rows)
	}
	if cols < 0 {
		return ferrors.Invalid("table", "Columns", "must not be negative, got %d", cols)
	}
	if rows == t.Rows && cols == t.Columns && len(t.ColumnConfigs) == cols {
		return nil
	}

	t.Cells = slices.DeleteFunc(t.Cells, func(c TableCell) bool {
		return c.Row >= rows || c.Column >= cols
	})
	for i := range t.Cells {
		c := &t.Cells[i]
		if c.Row+c.Rows() > rows {
			c.RowSpan = rows - c.Row
		}
		if c.Column+c.Columns() > cols {
			c.ColumnSpan = cols - c.Column
		}
	}
	t.ColumnConfigs = slices.DeleteFunc(t.ColumnConfigs, func(c TableColumn) bool {
		return c.Index >= cols
	})
	if len(t.ColumnWidths) > cols {
		t.ColumnWidths = t.ColumnWidths[:cols]
	}
	if len(t.RowHeights) > rows {
		t.RowHeights = t.RowHeights[:rows]
	}

	t.Rows, t.Columns = rows, cols
	t.ensureColumns()
	t.LayoutKey = ""
	return nil
}

// InsertRow inserts an empty row before index at (at == Rows appends).
func (t *Table) InsertRow(at int) error {
	if at < 0 || at > t.Rows {
		return ferrors.OutOfRange("table", "Row", at, t.Rows+1)
	}
	for i := range t.Cells {
		c := &t.Cells[i]
		switch {
		case c.Row >= at:
			c.Row++
		case c.Row+c.Rows() > at:
			c.RowSpan = c.Rows() + 1
		}
	}
	t.RowHeights = insertCopy(t.RowHeights, at)
	t.Rows++
	t.LayoutKey = ""
	return nil
}

// DeleteRow removes row at, shifting later rows up.
func (t *Table) DeleteRow(at int) error {
	if at < 0 || at >= t.Rows {
		return ferrors.OutOfRange("table", "Row", at, t.Rows)
	}
	// A spanning anchor on the deleted row stays put and shrinks, so a
	// stored cell it covered directly below would land on the same position.
	shrinking := make(map[int]bool)
	for _, c := range t.Cells {
		if c.Row == at && c.Rows() > 1 {
			shrinking[c.Column] = true
		}
	}
	t.Cells = slices.DeleteFunc(t.Cells, func(c TableCell) bool {
		return (c.Row == at && c.Rows() == 1) || (c.Row == at+1 && shrinking[c.Column])
	})
	for i := range t.Cells {
		c := &t.Cells[i]
		switch {
		case c.Row > at:
			c.Row--
		case c.Row == at:
			c.RowSpan = c.Rows() - 1
		case c.Row+c.Rows() > at:
			c.RowSpan = c.Rows() - 1
		}
	}
	if at < len(t.RowHeights) {
		t.RowHeights = slices.Delete(t.RowHeights, at, at+1)
	}
	t.Rows--
	t.sortCells()
	t.LayoutKey = ""
	return nil
}

// InsertColumn inserts a column before index at (at == Columns appends) and
// gives it a default configuration.
func (t *Table) InsertColumn(at int) error {
	if at < 0 || at > t.Columns {
		return ferrors.OutOfRange("table", "Column", at, t.Columns+1)
	}
	for i := range t.Cells {
		c := &t.Cells[i]
		switch {
		case c.Column >= at:
			c.Column++
		case c.Column+c.Columns() > at:
			c.ColumnSpan = c.Columns() + 1
		}
	}
	for i := range t.ColumnConfigs {
		if t.ColumnConfigs[i].Index >= at {
			t.ColumnConfigs[i].Index++
		}
	}
	t.ColumnWidths = insertCopy(t.ColumnWidths, at)
	t.Columns++
	t.ensureColumns()
	t.sortCells()
	t.LayoutKey = ""
	return nil
}

// DeleteColumn removes column at, shifting later columns left.
func (t *Table) DeleteColumn(at int) error {
	if at < 0 || at >= t.Columns {
		return ferrors.OutOfRange("table", "Column", at, t.Columns)
	}
	shrinking := make(map[int]bool)
	for _, c := range t.Cells {
		if c.Column == at && c.Columns() > 1 {
			shrinking[c.Row] = true
		}
	}
	t.Cells = slices.DeleteFunc(t.Cells, func(c TableCell) bool {
		return (c.Column == at && c.Columns() == 1) || (c.Column == at+1 && shrinking[c.Row])
	})
	for i := range t.Cells {
		c := &t.Cells[i]
		switch {
		case c.Column > at:
			c.Column--
		case c.Column == at, c.Column+c.Columns() > at:
			c.ColumnSpan = c.Columns() - 1
		}
	}
	t.ColumnConfigs = slices.DeleteFunc(t.ColumnConfigs, func(c TableColumn) bool {
		return c.Index == at
	})
	for i := range t.ColumnConfigs {
		if t.ColumnConfigs[i].Index > at {
			t.ColumnConfigs[i].Index--
		}
	}
	if at < len(t.ColumnWidths) {
		t.ColumnWidths = slices.Delete(t.ColumnWidths, at, at+1)
	}
	t.Columns--
	t.sortCells()
	t.LayoutKey = ""
	return nil
}

// Column returns the configuration of column i, synthesizing and storing a
// default one if the column has none.
func (t *Table) Column(i int) (*TableColumn, error) {
	if i < 0 || i >= t.Columns {
		return nil, ferrors.OutOfRange("table", "Column", i, t.Columns)
	}
	if idx := t.columnIndex(i); idx >= 0 {
		return &t.ColumnConfigs[idx], nil
	}
	t.ColumnConfigs = append(t.ColumnConfigs, DefaultColumn(i))
	t.sortColumns()
	return &t.ColumnConfigs[t.columnIndex(i)], nil
}

// ColumnAt returns the configuration of column i without storing a
// synthesized default.
func (t *Table) ColumnAt(i int) TableColumn {
	if idx := t.columnIndex(i); idx >= 0 {
		return t.ColumnConfigs[idx]
	}
	return DefaultColumn(i)
}

// SetColumn stores a column configuration, replacing any existing one.
func (t *Table) SetColumn(col TableColumn) error {
	if col.Index < 0 || col.Index >= t.Columns {
		return ferrors.OutOfRange("table", "Column", col.Index, t.Columns)
	}
	if idx := t.columnIndex(col.Index); idx >= 0 {
		t.ColumnConfigs[idx] = col
	} else {
		t.ColumnConfigs = append(t.ColumnConfigs, col)
		t.sortColumns()
	}
	t.LayoutKey = ""
	return nil
}

// Cell returns the stored cell at (row, col), synthesizing it from the column
// default when missing.
func (t *Table) Cell(row, col int) (*TableCell, error) {
	if err := t.checkBounds(row, col); err != nil {
		return nil, err
	}
	if idx := t.cellIndex(row, col); idx >= 0 {
		return &t.Cells[idx], nil
	}
	t.Cells = append(t.Cells, t.defaultCell(row, col))
	t.sortCells()
	return &t.Cells[t.cellIndex(row, col)], nil
}

// Resolve returns the cell at (row, col) or the synthesized default, without
// storing anything. The position must be within bounds.
func (t *Table) Resolve(row, col int) TableCell {
	if idx := t.cellIndex(row, col); idx >= 0 {
		return t.Cells[idx]
	}
	return t.defaultCell(row, col)
}

// SetCell stores cell at its (Row, Column), replacing any existing cell.
func (t *Table) SetCell(cell TableCell) error {
	if err := t.checkBounds(cell.Row, cell.Column); err != nil {
		return err
	}
	if idx := t.cellIndex(cell.Row, cell.Column); idx >= 0 {
		t.Cells[idx] = cell
	} else {
		t.Cells = append(t.Cells, cell)
		t.sortCells()
	}
	t.LayoutKey = ""
	return nil
}

// SetContent sets the content of the cell at (row, col).
func (t *Table) SetContent(row, col int, content string) error {
	c, err := t.Cell(row, col)
	if err != nil {
		return err
	}
	c.Content = content
	t.LayoutKey = ""
	return nil
}

// Anchor returns the cell whose span covers (row, col). Positions not covered
// by a stored spanning cell anchor themselves.
func (t *Table) Anchor(row, col int) TableCell {
	for _, c := range t.Cells {
		if c.Covers(row, col) {
			return c
		}
	}
	return t.defaultCell(row, col)
}

func (t *Table) defaultCell(row, col int) TableCell {
	column := t.ColumnAt(col)
	return TableCell{Row: row, Column: col, Content: column.Default, Editable: column.Editable}
}

func (t *Table) checkBounds(row, col int) error {
	if row < 0 || row >= t.Rows {
		return ferrors.OutOfRange("table", "Row", row, t.Rows)
	}
	if col < 0 || col >= t.Columns {
		return ferrors.OutOfRange("table", "Column", col, t.Columns)
	}
	return nil
}

func (t *Table) cellIndex(row, col int) int {
	return slices.IndexFunc(t.Cells, func(c TableCell) bool {
		return c.Row == row && c.Column == col
	})
}

func (t *Table) columnIndex(i int) int {
	return slices.IndexFunc(t.ColumnConfigs, func(c TableColumn) bool {
		return c.Index == i
	})
}

func (t *Table) ensureColumns() {
	for i := 0; i < t.Columns; i++ {
		if t.columnIndex(i) < 0 {
			t.ColumnConfigs = append(t.ColumnConfigs, DefaultColumn(i))
		}
	}
	t.sortColumns()
}

func (t *Table) sortCells() {
	slices.SortStableFunc(t.Cells, func(a, b TableCell) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Column - b.Column
	})
}

func (t *Table) sortColumns() {
	slices.SortStableFunc(t.ColumnConfigs, func(a, b TableColumn) int {
		return a.Index - b.Index
	})
}

// insertCopy inserts a copy of the neighbouring value at index at so a
// resolved vector stays aligned with the matrix. Empty vectors stay empty.
func insertCopy(v []float64, at int) []float64 {
	if len(v) == 0 || at > len(v) {
		return v
	}
	src := at
	if src == len(v) {
		src = at - 1
	}
	return slices.Insert(v, at, v[src])
}

// Validate checks the matrix invariants, naming subject in errors.
func (t *Table) Validate(subject string) error {
	if t.Rows < 1 {
		return ferrors.Invalid(subject, "Rows", "table needs at least one row, got %d", t.Rows)
	}
	if t.Columns < 1 {
		return ferrors.Invalid(subject, "Columns", "table needs at least one column, got %d", t.Columns)
	}
	if err := ferrors.NonNegative(subject, "CellSpacing", t.CellSpacing); err != nil {
		return err
	}
	if err := ferrors.NonNegative(subject, "CellPadding", t.CellPadding); err != nil {
		return err
	}
	seen := make(map[[2]int]bool, len(t.Cells))
	for _, c := range t.Cells {
		pos := [2]int{c.Row, c.Column}
		if seen[pos] {
			return ferrors.Invalid(subject, "Cells", "two cells stored at (%d,%d)", c.Row, c.Column)
		}
		seen[pos] = true
		if c.Row < 0 || c.Row >= t.Rows {
			return ferrors.OutOfRange(subject, "Cell.Row", c.Row, t.Rows)
		}
		if c.Column < 0 || c.Column >= t.Columns {
			return ferrors.OutOfRange(subject, "Cell.Column", c.Column, t.Columns)
		}
		if c.RowSpan < 0 || c.ColumnSpan < 0 {
			return ferrors.Invalid(subject, "Cell.Span", "negative span at (%d,%d)", c.Row, c.Column)
		}
		if c.Row+c.Rows() > t.Rows || c.Column+c.Columns() > t.Columns {
			return ferrors.Invalid(subject, "Cell.Span", "span at (%d,%d) exceeds the table", c.Row, c.Column)
		}
	}
	for _, col := range t.ColumnConfigs {
		if col.Index < 0 || col.Index >= t.Columns {
			return ferrors.OutOfRange(subject, "Column.Index", col.Index, t.Columns)
		}
		if !col.Type.valid() {
			return ferrors.Invalid(subject, "Column.Type", "unknown column type %q", col.Type)
		}
		if err := ferrors.NonNegative(subject, "Column.Width", col.Width); err != nil {
			return err
		}
	}
	return nil
}
