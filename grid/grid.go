// Package grid provides the spatial keys used to group samples by location
// and the regular grids that scattered data is resampled onto.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Key identifies a sample location. Points with equal keys are the same
// location.
type Key [3]float64

// ExactKey keys a location by its exact coordinates. Negative zero is folded
// into zero.
func ExactKey(x, y, z float64) Key {
	return Key{x + 0, y + 0, z + 0}
}

// QuantizedKey keys a location by the box of side quantum it falls in, so
// coordinates that differ by round-off share a key. The key holds the box
// indices, not coordinates.
func QuantizedKey(x, y, z, quantum float64) Key {
	return Key{
		math.Round(x/quantum) + 0,
		math.Round(y/quantum) + 0,
		math.Round(z/quantum) + 0,
	}
}

// String formats the key for logs.
func (k Key) String() string {
	str := strconv.FormatFloat(k[0], 'g', -1, 64)
	for i := 1; i < len(k); i++ {
		str += "_" + strconv.FormatFloat(k[i], 'g', -1, 64)
	}
	return str
}

// Less orders keys lexicographically.
func (k Key) Less(o Key) bool {
	for i := range k {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return false
}

// SortKeys sorts keys ascending in place.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("grid: linspace needs at least 2 points, got %d", n)
	}
	v := floats.Span(make([]float64, n), min, max)
	v[n-1] = max
	return v, nil
}

// Extent returns the smallest and largest finite value.
func Extent(v []float64) (min, max float64, err error) {
	finite := make([]float64, 0, len(v))
	for _, f := range v {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			finite = append(finite, f)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN(), errors.New("grid: no finite values")
	}
	return floats.Min(finite), floats.Max(finite), nil
}

// Regular is a rectangular grid of values. Values are stored row-major with
// Y varying along rows and X along columns, so Value(c, r) is at
// (X[c], Y[r]). It satisfies gonum plot's GridXYZ.
type Regular struct {
	Xs     []float64
	Ys     []float64
	Values []float64
}

// NewRegular returns a grid of NaN values over the given axes.
func NewRegular(xs, ys []float64) *Regular {
	vals := make([]float64, len(xs)*len(ys))
	for i := range vals {
		vals[i] = math.NaN()
	}
	return &Regular{Xs: xs, Ys: ys, Values: vals}
}

// Dims returns the number of columns and rows.
func (g *Regular) Dims() (c, r int) { return len(g.Xs), len(g.Ys) }

// Z returns the value at column c, row r.
func (g *Regular) Z(c, r int) float64 { return g.Values[r*len(g.Xs)+c] }

// Set stores the value at column c, row r.
func (g *Regular) Set(c, r int, v float64) { g.Values[r*len(g.Xs)+c] = v }

// X returns the coordinate of column c.
func (g *Regular) X(c int) float64 { return g.Xs[c] }

// Y returns the coordinate of row r.
func (g *Regular) Y(r int) float64 { return g.Ys[r] }

// Bounds returns the value range of the grid between the lo and hi
// quantiles, ignoring NaN. It is used to pick a color range that is not
// dominated by a few extreme cells.
func (g *Regular) Bounds(lo, hi float64) (min, max float64, err error) {
	vals := make([]float64, 0, len(g.Values))
	for _, v := range g.Values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN(), math.NaN(), errors.New("grid: no values")
	}
	sort.Float64s(vals)
	if lo <= 0 {
		min = vals[0]
	} else {
		min = stat.Quantile(lo, stat.Empirical, vals, nil)
	}
	if hi >= 1 {
		max = vals[len(vals)-1]
	} else {
		max = stat.Quantile(hi, stat.Empirical, vals, nil)
	}
	return min, max, nil
}
