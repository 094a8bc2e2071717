// Package average computes the temporal mean of sample tables from several
// timesteps, grouped by spatial location.
package average

import (
	"fmt"
	"math"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/grid"
)

// DefaultStepColumn is the column rows are tagged with when no StepColumn is
// given.
const DefaultStepColumn = "time"

// StepTable is the merged table of one timestep.
type StepTable struct {
	Step  int
	Table *dataloader.Table
}

// Averager groups rows by location and averages every other column.
type Averager struct {
	Coordinates [3]string // Grouping columns in x, y, z order
	StepColumn  string    // Column holding the step index, defaults to DefaultStepColumn
	DropStep    bool      // Remove the step column from the output
	Quantum     float64   // If positive, group by boxes of this size instead of exact equality
	Stages      []Stage   // Applied in order to the tagged rows before grouping
}

func (a *Averager) stepColumn() string {
	if a.StepColumn == "" {
		return DefaultStepColumn
	}
	return a.StepColumn
}

// CoordinateError is returned for a row whose location is not finite. Such a
// row cannot be grouped with any other.
type CoordinateError struct {
	Step   int
	Row    int
	Column string
	Value  float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("average: step %d, row %d: coordinate %s is %g", e.Step, e.Row, e.Column, e.Value)
}

type group struct {
	sums   []float64
	counts []int
}

// Average tags each table's rows with its step, applies the stages and
// returns one row per distinct location holding the means of the other
// columns. Coordinates must be finite, a *CoordinateError is returned
// otherwise. NaN values do not contribute to a mean; a column that is NaN in
// every row of a group averages to NaN. Rows are sorted by x, then y, then z.
// Empty tables are skipped, and no tables at all yield an empty table.
func (a *Averager) Average(tables []StepTable) (*dataloader.Table, error) {
	stepCol := a.stepColumn()

	var columns []string
	for _, st := range tables {
		if st.Table.Empty() {
			continue
		}
		if columns == nil {
			columns = st.Table.Columns
			for _, c := range a.Coordinates {
				if st.Table.Index(c) == -1 {
					return nil, &dataloader.MissingFieldError{Field: c, Column: c}
				}
			}
			if st.Table.Index(stepCol) != -1 {
				return nil, fmt.Errorf("average: step %d already has a %q column", st.Step, stepCol)
			}
			continue
		}
		if !dataloader.SameColumnSet(columns, st.Table.Columns) {
			return nil, &dataloader.SchemaMismatchError{
				Path: fmt.Sprintf("step %d", st.Step),
				Want: columns,
				Got:  st.Table.Columns,
			}
		}
	}
	if columns == nil {
		return &dataloader.Table{}, nil
	}

	tagged := dataloader.NewTable(append(append([]string(nil), columns...), stepCol))
	for _, st := range tables {
		if st.Table.Empty() {
			continue
		}
		perm := make([]int, len(columns))
		for i, c := range columns {
			perm[i] = st.Table.Index(c)
		}
		var coord [3]int
		for i, c := range a.Coordinates {
			coord[i] = st.Table.Index(c)
		}
		for r, row := range st.Table.Rows {
			for i, c := range coord {
				if v := row[c]; math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, &CoordinateError{Step: st.Step, Row: r, Column: a.Coordinates[i], Value: v}
				}
			}
			newRow := make([]float64, len(columns)+1)
			for i, p := range perm {
				newRow[i] = row[p]
			}
			newRow[len(columns)] = float64(st.Step)
			tagged.Rows = append(tagged.Rows, newRow)
		}
	}

	for _, stage := range a.Stages {
		if err := stage.Apply(tagged); err != nil {
			return nil, err
		}
	}
	return a.group(tagged)
}

func (a *Averager) group(t *dataloader.Table) (*dataloader.Table, error) {
	var coord [3]int
	isCoord := make([]bool, len(t.Columns))
	for i, c := range a.Coordinates {
		coord[i] = t.Index(c)
		if coord[i] == -1 {
			return nil, &dataloader.MissingFieldError{Field: c, Column: c}
		}
		isCoord[coord[i]] = true
	}

	groups := make(map[grid.Key]*group)
	var keys []grid.Key
	for _, row := range t.Rows {
		x, y, z := row[coord[0]], row[coord[1]], row[coord[2]]
		var key grid.Key
		if a.Quantum > 0 {
			key = grid.QuantizedKey(x, y, z, a.Quantum)
		} else {
			key = grid.ExactKey(x, y, z)
		}
		g, ok := groups[key]
		if !ok {
			g = &group{
				sums:   make([]float64, len(row)),
				counts: make([]int, len(row)),
			}
			groups[key] = g
			keys = append(keys, key)
		}
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			g.sums[j] += v
			g.counts[j]++
		}
	}
	grid.SortKeys(keys)

	stepIdx := len(t.Columns) - 1
	outCols := t.Columns
	if a.DropStep {
		outCols = t.Columns[:stepIdx]
	}
	out := dataloader.NewTable(outCols)
	out.Rows = make([][]float64, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		row := make([]float64, len(outCols))
		for j := range row {
			if isCoord[j] && a.Quantum <= 0 {
				continue
			}
			if g.counts[j] == 0 {
				row[j] = math.NaN()
				continue
			}
			row[j] = g.sums[j] / float64(g.counts[j])
		}
		if a.Quantum <= 0 {
			for i, c := range coord {
				row[c] = key[i]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if a.Quantum > 0 {
		sortRows(out, coord)
	}
	return out, nil
}
