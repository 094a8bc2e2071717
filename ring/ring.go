// Package ring orders the points of a closed surface cut by angle about
// their centroid.
package ring

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Ring is a set of points in the (x, z) plane with one value each, ordered
// by angle about their centroid.
type Ring struct {
	X, Z, V []float64
}

// Len returns the number of points.
func (r Ring) Len() int { return len(r.X) }

// Sort returns the points ordered by increasing angle about their
// arithmetic mean. The sort is stable, so points at the same angle keep
// their input order. The inputs are not modified.
func Sort(x, z, v []float64) (Ring, error) {
	if len(x) != len(z) || len(x) != len(v) {
		return Ring{}, fmt.Errorf("ring: unequal lengths x=%d z=%d v=%d", len(x), len(z), len(v))
	}
	if len(x) == 0 {
		return Ring{X: []float64{}, Z: []float64{}, V: []float64{}}, nil
	}
	x0, z0 := stat.Mean(x, nil), stat.Mean(z, nil)
	angle := make([]float64, len(x))
	idx := make([]int, len(x))
	for i := range x {
		angle[i] = math.Atan2(z[i]-z0, x[i]-x0)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return angle[idx[a]] < angle[idx[b]] })

	r := Ring{
		X: make([]float64, len(x)),
		Z: make([]float64, len(x)),
		V: make([]float64, len(x)),
	}
	for k, i := range idx {
		r.X[k], r.Z[k], r.V[k] = x[i], z[i], v[i]
	}
	return r, nil
}

// SortClosed is Sort with the first point repeated at the end.
func SortClosed(x, z, v []float64) (Ring, error) {
	r, err := Sort(x, z, v)
	if err != nil || r.Len() == 0 {
		return r, err
	}
	r.X = append(r.X, r.X[0])
	r.Z = append(r.Z, r.Z[0])
	r.V = append(r.V, r.V[0])
	return r, nil
}
