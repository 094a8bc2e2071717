package dataloader

import (
	"fmt"
	"math"
	"sort"
)

// Table is a row-major numeric table. All rows have len(Columns) entries.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// NewTable returns an empty table with a copy of the given columns.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx := t.Index(name)
	if idx == -1 {
		return nil, &MissingFieldError{Field: name, Column: name}
	}
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col, nil
}

// Append adds a row. The row is not copied.
func (t *Table) Append(row []float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("dataloader: row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// AddColumn appends a derived column computed from existing ones.
func (t *Table) AddColumn(name string, ft *FieldTransformer) error {
	if t.Index(name) != -1 {
		return fmt.Errorf("dataloader: column %q already exists", name)
	}
	cols := make([]int, len(ft.InternalNames))
	for i, n := range ft.InternalNames {
		cols[i] = t.Index(n)
		if cols[i] == -1 {
			return &MissingFieldError{Field: name, Column: n}
		}
	}
	tmp := make([]float64, len(cols))
	rows := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		for k, c := range cols {
			tmp[k] = row[c]
		}
		v, err := ft.Transformer(tmp)
		if err != nil {
			return fmt.Errorf("dataloader: column %s, row %d: %w", name, i, err)
		}
		newRow := make([]float64, len(row)+1)
		copy(newRow, row)
		newRow[len(row)] = v
		rows[i] = newRow
	}
	t.Columns = append(t.Columns, name)
	t.Rows = rows
	return nil
}

// Unique returns the sorted distinct values of a column. NaN values are
// skipped.
func (t *Table) Unique(name string) ([]float64, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[float64]struct{}, len(col))
	vals := make([]float64, 0)
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	return vals, nil
}

// Slice returns the rows whose named column equals value exactly, in table
// order. The rows are shared with t.
func (t *Table) Slice(name string, value float64) (*Table, error) {
	idx := t.Index(name)
	if idx == -1 {
		return nil, &MissingFieldError{Field: name, Column: name}
	}
	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		if row[idx] == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// SameColumnSet reports whether a and b hold the same column names,
// regardless of order.
func SameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	m := make(map[string]int, len(a))
	for _, s := range a {
		m[s]++
	}
	for _, s := range b {
		m[s]--
		if m[s] < 0 {
			return false
		}
	}
	return true
}

// permutation returns, for each column of want, its index in got.
func permutation(want, got []string) []int {
	idx := make(map[string]int, len(got))
	for i, c := range got {
		idx[c] = i
	}
	perm := make([]int, len(want))
	for i, c := range want {
		perm[i] = idx[c]
	}
	return perm
}

func isIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}
