package frame

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrColumnNotFound is returned when an operation names an absent column
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when a column name is added twice
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrRowWidth is returned when a row does not match the column count
	ErrRowWidth = errors.New("row width does not match column count")
)

// Frame is an ordered set of named columns with row-major storage
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// Row is a read-only view of one frame row
type Row struct {
	frame *Frame
	cells []Value
}

// Get returns the cell for the named column, or null if the column is absent
func (r Row) Get(column string) Value {
	i, ok := r.frame.index[column]
	if !ok {
		return Null()
	}
	return r.cells[i]
}

// ColumnInfo summarises one column of a frame
type ColumnInfo struct {
	Name    string
	Kind    Kind
	NonNull int
}

// New creates an empty frame with the given columns
func New(columns ...string) *Frame {
	f := &Frame{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, exists := f.index[c]; exists {
			continue
		}
		f.index[c] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	return f
}

// FromRecords builds a frame from a header and raw text rows. Each column is
// typed as a whole: numeric when every present cell parses as a number,
// text otherwise. Empty cells and missing-value tokens become null.
func FromRecords(header []string, records [][]string) (*Frame, error) {
	f := New(header...)
	if len(f.columns) != len(header) {
		return nil, fmt.Errorf("%w in header", ErrDuplicateColumn)
	}

	for r, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("record %d: %w (got %d, want %d)", r+1, ErrRowWidth, len(rec), len(header))
		}
	}

	numeric := make([]bool, len(header))
	for c := range header {
		numeric[c] = true
		for _, rec := range records {
			if IsMissingToken(rec[c]) {
				continue
			}
			if _, err := strconv.ParseFloat(rec[c], 64); err != nil {
				numeric[c] = false
				break
			}
		}
	}

	f.rows = make([][]Value, 0, len(records))
	for _, rec := range records {
		row := make([]Value, len(header))
		for c, raw := range rec {
			switch {
			case IsMissingToken(raw):
				row[c] = Null()
			case numeric[c]:
				n, _ := strconv.ParseFloat(raw, 64)
				row[c] = Float(n)
			default:
				row[c] = String(raw)
			}
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// Columns returns a copy of the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of rows
func (f *Frame) Len() int { return len(f.rows) }

// HasColumn reports whether the frame has the named column
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// AppendRow adds a row. The number of cells must match the column count.
func (f *Frame) AppendRow(cells ...Value) error {
	if len(cells) != len(f.columns) {
		return fmt.Errorf("%w (got %d, want %d)", ErrRowWidth, len(cells), len(f.columns))
	}
	row := make([]Value, len(cells))
	copy(row, cells)
	f.rows = append(f.rows, row)
	return nil
}

// Row returns a view of row i
func (f *Frame) Row(i int) Row {
	return Row{frame: f, cells: f.rows[i]}
}

// Get returns the cell at row i of the named column
func (f *Frame) Get(i int, column string) (Value, error) {
	c, ok := f.index[column]
	if !ok {
		return Null(), fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	return f.rows[i][c], nil
}

// Column returns a copy of all cells of the named column
func (f *Frame) Column(name string) ([]Value, error) {
	c, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	out := make([]Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[c]
	}
	return out, nil
}

// ColumnKind returns the kind of the first non-null cell of a column, or
// KindNull when the column is empty or entirely null.
func (f *Frame) ColumnKind(name string) (Kind, error) {
	c, ok := f.index[name]
	if !ok {
		return KindNull, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	for _, row := range f.rows {
		if !row[c].IsNull() {
			return row[c].Kind(), nil
		}
	}
	return KindNull, nil
}

// Filter returns a new frame holding the rows for which keep returns true.
// Rows are shared with the receiver; neither frame is mutated in place.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := New(f.columns...)
	for _, row := range f.rows {
		if keep(Row{frame: f, cells: row}) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// AddColumn appends a column whose cells are computed from each row
func (f *Frame) AddColumn(name string, compute func(Row) Value) error {
	if f.HasColumn(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	values := make([]Value, len(f.rows))
	for i, row := range f.rows {
		values[i] = compute(Row{frame: f, cells: row})
	}

	f.index[name] = len(f.columns)
	f.columns = append(f.columns, name)
	for i := range f.rows {
		// copy so frames sharing this row through Filter keep their width
		row := make([]Value, len(f.columns))
		copy(row, f.rows[i])
		row[len(row)-1] = values[i]
		f.rows[i] = row
	}
	return nil
}

// MapColumn replaces every cell of a column with transform(cell)
func (f *Frame) MapColumn(name string, transform func(Value) Value) error {
	c, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	for i, row := range f.rows {
		updated := make([]Value, len(row))
		copy(updated, row)
		updated[c] = transform(row[c])
		f.rows[i] = updated
	}
	return nil
}

// Distinct counts the distinct non-null cells of a column
func (f *Frame) Distinct(name string) (int, error) {
	c, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	seen := make(map[key]struct{}, len(f.rows))
	for _, row := range f.rows {
		if row[c].IsNull() {
			continue
		}
		seen[row[c].key()] = struct{}{}
	}
	return len(seen), nil
}

// Sum adds the numeric cells of a column; null cells contribute nothing
func (f *Frame) Sum(name string) (float64, error) {
	c, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	var total float64
	for _, row := range f.rows {
		if n, ok := row[c].Num(); ok {
			total += n
		}
	}
	return total, nil
}

// Describe reports each column's kind and non-null count
func (f *Frame) Describe() []ColumnInfo {
	info := make([]ColumnInfo, len(f.columns))
	for c, name := range f.columns {
		info[c] = ColumnInfo{Name: name, Kind: KindNull}
		for _, row := range f.rows {
			if row[c].IsNull() {
				continue
			}
			if info[c].Kind == KindNull {
				info[c].Kind = row[c].Kind()
			}
			info[c].NonNull++
		}
	}
	return info
}

// Records renders every row as text cells in column order
func (f *Frame) Records() [][]string {
	out := make([][]string, len(f.rows))
	for i, row := range f.rows {
		rec := make([]string, len(row))
		for c, v := range row {
			rec[c] = v.Text()
		}
		out[i] = rec
	}
	return out
}
