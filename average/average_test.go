package average

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marchdf/mcwing/dataloader"
)

var xyz = [3]string{"x", "y", "z"}

func table(cols []string, rows ...[]float64) *dataloader.Table {
	return &dataloader.Table{Columns: cols, Rows: rows}
}

func TestAverageTwoSteps(t *testing.T) {
	cols := []string{"x", "y", "z", "p"}
	tables := []StepTable{
		{Step: 10, Table: table(cols, []float64{0, 0, 0, 1}, []float64{1, 0, 0, 4})},
		{Step: 20, Table: table(cols, []float64{1, 0, 0, 6}, []float64{0, 0, 0, 3})},
	}
	a := &Averager{Coordinates: xyz}
	got, err := a.Average(tables)
	require.NoError(t, err)

	want := table([]string{"x", "y", "z", "p", "time"},
		[]float64{0, 0, 0, 2, 15},
		[]float64{1, 0, 0, 5, 15},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
	// inputs are untouched
	assert.Equal(t, []string{"x", "y", "z", "p"}, tables[0].Table.Columns)
}

func TestAverageLocationInOneStep(t *testing.T) {
	cols := []string{"x", "y", "z", "p"}
	tables := []StepTable{
		{Step: 1, Table: table(cols, []float64{0, 0, 0, 1})},
		{Step: 2, Table: table(cols, []float64{0, 0, 0, 3}, []float64{0, 0, 1, 7})},
	}
	got, err := (&Averager{Coordinates: xyz, DropStep: true}).Average(tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "p"}, got.Columns)
	assert.Equal(t, [][]float64{{0, 0, 0, 2}, {0, 0, 1, 7}}, got.Rows)
}

func TestAverageGrouping(t *testing.T) {
	cols := []string{"y", "x", "z", "p"}
	var tables []StepTable
	for s := 0; s < 5; s++ {
		tbl := dataloader.NewTable(cols)
		for i := 0; i < 4; i++ {
			for j := 0; j < 3; j++ {
				tbl.Rows = append(tbl.Rows, []float64{float64(j), float64(i % 2), float64(i), float64(s + i + j)})
			}
		}
		tables = append(tables, StepTable{Step: s, Table: tbl})
	}
	got, err := (&Averager{Coordinates: xyz}).Average(tables)
	require.NoError(t, err)
	require.Equal(t, 12, got.Len())

	seen := map[[3]float64]bool{}
	xi, yi, zi := got.Index("x"), got.Index("y"), got.Index("z")
	for k, row := range got.Rows {
		key := [3]float64{row[xi], row[yi], row[zi]}
		assert.False(t, seen[key], "duplicate location %v", key)
		seen[key] = true
		if k > 0 {
			prev := got.Rows[k-1]
			assert.True(t, prev[xi] < row[xi] || (prev[xi] == row[xi] && (prev[yi] < row[yi] || prev[yi] == row[yi] && prev[zi] < row[zi])))
		}
		assert.Equal(t, 2.0, row[got.Index("time")])
	}
}

func TestAverageDeterministic(t *testing.T) {
	cols := []string{"x", "y", "z", "p"}
	tables := []StepTable{
		{Step: 3, Table: table(cols, []float64{2, 1, 0, 0.1}, []float64{0, 1, 0, 0.2}, []float64{1, 1, 0, 0.3})},
		{Step: 4, Table: table(cols, []float64{1, 1, 0, 0.7}, []float64{2, 1, 0, 0.5})},
	}
	a := &Averager{Coordinates: xyz}
	var first []byte
	for i := 0; i < 5; i++ {
		got, err := a.Average(tables)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, dataloader.WriteCSV(&buf, got))
		if i == 0 {
			first = buf.Bytes()
			continue
		}
		assert.Equal(t, first, buf.Bytes())
	}
}

func TestAverageNaN(t *testing.T) {
	cols := []string{"x", "y", "z", "p", "q"}
	tables := []StepTable{
		{Step: 1, Table: table(cols, []float64{0, 0, 0, math.NaN(), math.NaN()})},
		{Step: 3, Table: table(cols, []float64{0, 0, 0, 4, math.NaN()})},
	}
	got, err := (&Averager{Coordinates: xyz}).Average(tables)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, 4.0, got.Rows[0][3])
	assert.True(t, math.IsNaN(got.Rows[0][4]))
	assert.Equal(t, 2.0, got.Rows[0][5])
}

func TestAverageNonFiniteCoordinate(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		tables := []StepTable{
			{Step: 1, Table: table(xyz[:], []float64{0, 0, 0})},
			{Step: 2, Table: table(xyz[:], []float64{0, 0, 0}, []float64{1, bad, 0}, []float64{1, bad, 0})},
		}
		for _, q := range []float64{0, 0.5} {
			_, err := (&Averager{Coordinates: xyz, Quantum: q}).Average(tables)
			var cerr *CoordinateError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, 2, cerr.Step)
			assert.Equal(t, 1, cerr.Row)
			assert.Equal(t, "y", cerr.Column)
		}
	}
}

func TestAverageEmpty(t *testing.T) {
	got, err := (&Averager{Coordinates: xyz}).Average(nil)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	got, err = (&Averager{Coordinates: xyz}).Average([]StepTable{{Step: 1, Table: &dataloader.Table{}}})
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestAverageErrors(t *testing.T) {
	_, err := (&Averager{Coordinates: xyz}).Average([]StepTable{
		{Step: 1, Table: table([]string{"x", "y", "p"}, []float64{0, 0, 1})},
	})
	var merr *dataloader.MissingFieldError
	assert.True(t, errors.As(err, &merr))

	_, err = (&Averager{Coordinates: xyz}).Average([]StepTable{
		{Step: 1, Table: table([]string{"x", "y", "z", "p"}, []float64{0, 0, 0, 1})},
		{Step: 2, Table: table([]string{"x", "y", "z", "q"}, []float64{0, 0, 0, 1})},
	})
	var serr *dataloader.SchemaMismatchError
	assert.True(t, errors.As(err, &serr))

	_, err = (&Averager{Coordinates: xyz}).Average([]StepTable{
		{Step: 1, Table: table([]string{"x", "y", "z", "time"}, []float64{0, 0, 0, 1})},
	})
	assert.Error(t, err)
}

func TestAverageReorderedColumns(t *testing.T) {
	tables := []StepTable{
		{Step: 0, Table: table([]string{"x", "y", "z", "p"}, []float64{0, 0, 0, 1})},
		{Step: 2, Table: table([]string{"p", "z", "y", "x"}, []float64{3, 0, 0, 0})},
	}
	got, err := (&Averager{Coordinates: xyz}).Average(tables)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 0, 2, 1}}, got.Rows)
}

func TestMirrorStage(t *testing.T) {
	cols := []string{"x", "y", "z", "p"}
	tables := []StepTable{
		{Step: 1, Table: table(cols, []float64{0, -0.5, 0, 1}, []float64{0, 1e-17, 0, 2})},
		{Step: 2, Table: table(cols, []float64{0, 0.5, 0, 3}, []float64{0, -1e-18, 0, 4})},
	}
	a := &Averager{Coordinates: xyz, DropStep: true, Stages: []Stage{Mirror{Column: "y", Tolerance: 1e-16}}}
	got, err := a.Average(tables)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 0, 3}, {0, 0.5, 0, 2}}, got.Rows)
}

func TestSnapStage(t *testing.T) {
	tbl := table([]string{"y"}, []float64{-2}, []float64{1e-17}, []float64{0.3})
	require.NoError(t, Snap{Column: "y", Threshold: 1e-16}.Apply(tbl))
	assert.Equal(t, [][]float64{{0}, {0}, {0.3}}, tbl.Rows)

	err := Snap{Column: "nope"}.Apply(tbl)
	var merr *dataloader.MissingFieldError
	assert.True(t, errors.As(err, &merr))
}

func TestQuantizedGrouping(t *testing.T) {
	cols := []string{"x", "y", "z", "p"}
	tables := []StepTable{
		{Step: 1, Table: table(cols, []float64{1, 2, 3, 1}, []float64{0, 0, 0, 5})},
		{Step: 2, Table: table(cols, []float64{1 + 1e-12, 2, 3, 3})},
	}
	got, err := (&Averager{Coordinates: xyz, DropStep: true, Quantum: 1e-9}).Average(tables)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []float64{0, 0, 0, 5}, got.Rows[0])
	assert.InDelta(t, 1, got.Rows[1][0], 1e-11)
	assert.Equal(t, 2.0, got.Rows[1][3])
}
