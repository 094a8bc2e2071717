package wing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/nalu"
)

var constants = nalu.Constants{Velocity: 2, Density: 0.5, Viscosity: 1e-5}

// surface returns two spanwise cuts of a diamond airfoil; the root cut has
// sign noise in y.
func surface() *dataloader.Table {
	t := dataloader.NewTable([]string{"x", "y", "z", "p"})
	diamond := [][2]float64{{1, 0}, {0, 0.1}, {-1, 0}, {0, -0.1}}
	for _, y := range []float64{-1e-18, 0.5} {
		for i, pt := range diamond {
			t.Rows = append(t.Rows, []float64{pt[0] + 0.5, y, pt[1], float64(i)})
		}
	}
	t.Rows[1][1] = 1e-17
	return t
}

func TestPrepare(t *testing.T) {
	tbl := surface()
	require.NoError(t, Prepare(tbl, constants))
	assert.Equal(t, []string{"x", "y", "z", "p", "neg_cp"}, tbl.Columns)
	ys, err := tbl.Unique("y")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5}, ys)
	// q = 0.5 * 0.5 * 2^2 = 1
	for _, row := range tbl.Rows {
		assert.Equal(t, -row[3], row[4])
	}
}

func TestNegativeCpZero(t *testing.T) {
	_, err := NegativeCp(nalu.Constants{Density: 1})
	assert.Error(t, err)
	assert.Error(t, Prepare(surface(), nalu.Constants{}))
}

func TestSections(t *testing.T) {
	tbl := surface()
	require.NoError(t, Prepare(tbl, constants))
	sections, err := Sections(tbl)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, 0.0, sections[0].Y)
	assert.Equal(t, 0.5, sections[1].Y)
	for _, s := range sections {
		require.Equal(t, 5, s.Len())
		assert.Equal(t, s.X[0], s.X[4])
		assert.Equal(t, s.Z[0], s.Z[4])
		prev := math.Inf(-1)
		x0 := (s.X[0] + s.X[1] + s.X[2] + s.X[3]) / 4
		for i := 0; i < 4; i++ {
			a := math.Atan2(s.Z[i], s.X[i]-x0)
			assert.Greater(t, a, prev)
			prev = a
		}
	}

	out := Table(sections)
	assert.Equal(t, []string{"y", "x", "z", "neg_cp"}, out.Columns)
	assert.Equal(t, 10, out.Len())
}

func TestSectionsMissingColumn(t *testing.T) {
	_, err := Sections(surface())
	assert.Error(t, err)
}
