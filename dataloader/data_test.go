package dataloader

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vortexHeader = "Points:0,Points:1,Points:2,pressure,velocity_:0,velocity_:1,velocity_:2,time\n"

func TestNaluVortexSchema(t *testing.T) {
	raw := &Table{
		Columns: []string{"Points:0", "Points:1", "Points:2", "pressure", "velocity_:0", "velocity_:1", "velocity_:2", "time"},
		Rows:    [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	got, err := NaluVortex().Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "p", "ux", "uy", "uz", "avg_time"}, got.Columns)
	assert.Equal(t, raw.Rows, got.Rows)

	// time is optional
	raw = &Table{
		Columns: raw.Columns[:7],
		Rows:    [][]float64{{1, 2, 3, 4, 5, 6, 7}},
	}
	got, err = NaluVortex().Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "p", "ux", "uy", "uz"}, got.Columns)
}

func TestSchemaStrict(t *testing.T) {
	columns := []string{"Points:0", "Points:1", "Points:2", "pressure", "velocity_:0", "velocity_:1", "velocity_:2", "extra"}
	_, err := NaluVortex().Apply(NewTable(columns))
	var uerr *UnmappedColumnError
	require.True(t, errors.As(err, &uerr), "got %v", err)
	assert.Equal(t, "extra", uerr.Column)

	s := NaluVortex()
	s.Strict = false
	_, err = s.Apply(NewTable(columns))
	assert.NoError(t, err)
}

func TestSchemaMissing(t *testing.T) {
	_, err := NaluWing().Apply(NewTable([]string{"Points:0", "Points:1", "Points:2", "pressure", "velocity_:0", "velocity_:1", "velocity_:2"}))
	var merr *MissingFieldError
	require.True(t, errors.As(err, &merr), "got %v", err)
	assert.Equal(t, "fpx", merr.Field)
	assert.Equal(t, "pressure_force_:0", merr.Column)
}

func TestSchemaTransformer(t *testing.T) {
	s := Schema{Fields: []Field{
		Rename("x", "a"),
		{
			Name: "sum",
			FieldTransformer: &FieldTransformer{
				InternalNames: []string{"a", "b"},
				Transformer: func(d []float64) (float64, error) {
					return d[0] + d[1], nil
				},
			},
		},
	}}
	got, err := s.Apply(&Table{Columns: []string{"b", "a"}, Rows: [][]float64{{1, 2}, {3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "sum"}, got.Columns)
	assert.Equal(t, [][]float64{{2, 3}, {4, 7}}, got.Rows)
}

func TestLoadFromDataset(t *testing.T) {
	dir := t.TempDir()
	good := writeShard(t, dir, "avg_slice.csv", vortexHeader+"1,2,3,4,5,6,7,8\n")
	bad := writeShard(t, dir, "bad.csv", "Points:0\n1\n")

	got, err := LoadFromDataset(NaluVortex(), &Dataset{Name: "good", Filename: good, Format: &NaiveCSV{}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}}, got.Rows)

	_, err = LoadFromDataset(NaluVortex(), &Dataset{Name: "bad", Filename: bad, Format: &NaiveCSV{}})
	var merr *MissingFieldError
	require.True(t, errors.As(err, &merr), "got %v", err)
	assert.Contains(t, err.Error(), "dataset bad")

	_, err = LoadFromDataset(NaluVortex(), &Dataset{Name: "missing", Filename: filepath.Join(dir, "nope.csv"), Format: &NaiveCSV{}})
	assert.Error(t, err)
}

func TestTableOps(t *testing.T) {
	tbl := &Table{
		Columns: []string{"x", "y"},
		Rows:    [][]float64{{1, 3}, {0, 2}, {1, math.NaN()}, {1, 2}},
	}
	xs, err := tbl.Unique("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, xs)

	ys, err := tbl.Unique("y")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, ys)

	sl, err := tbl.Slice("x", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, sl.Len())
	assert.Equal(t, float64(3), sl.Rows[0][1])

	_, err = tbl.Column("z")
	var merr *MissingFieldError
	assert.True(t, errors.As(err, &merr))

	err = tbl.AddColumn("s", &FieldTransformer{
		InternalNames: []string{"x", "y"},
		Transformer:   func(d []float64) (float64, error) { return d[0] * d[1], nil },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "s"}, tbl.Columns)
	assert.Equal(t, float64(3), tbl.Rows[0][2])
	assert.Error(t, tbl.AddColumn("s", &FieldTransformer{InternalNames: []string{"x"}, Transformer: identityFunc}))

	assert.Error(t, tbl.Append([]float64{1}))
	assert.NoError(t, tbl.Append([]float64{1, 2, 3}))

	var nilTable *Table
	assert.True(t, nilTable.Empty())
}

func TestSameColumnSet(t *testing.T) {
	assert.True(t, SameColumnSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, SameColumnSet([]string{"a", "b"}, []string{"a", "c"}))
	assert.False(t, SameColumnSet([]string{"a"}, []string{"a", "a"}))
	assert.Equal(t, []int{2, 0, 1}, permutation([]string{"x", "y", "p"}, []string{"y", "p", "x"}))
}
