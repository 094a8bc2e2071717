// Package interp implements piecewise cubic, C1 continuous interpolation of
// scattered two dimensional data on a Delaunay triangulation, in the manner
// of the Clough-Tocher scheme.
package interp

import (
	"fmt"
	"math"
)

// InterpolationError is returned when the points do not span an area.
type InterpolationError struct {
	Points int // distinct points
	Reason string
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("interp: %s (%d distinct points)", e.Reason, e.Points)
}

const (
	minPoints = 4
	// Relative tolerance for collinearity and hull membership, in units of
	// the normalized domain.
	eps = 1e-12
)

type point [2]float64

func orient(a, b, c point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// Triangulation is a Delaunay triangulation of a set of scattered points.
// Coordinates are mapped onto the unit box before triangulating so
// tolerances do not depend on the units of the data.
type Triangulation struct {
	offset point
	scale  float64

	inputs int
	pts    []point
	source []int // index of each point in the input
	tris   []triangle
	hint   int
}

// Triangulate builds the Delaunay triangulation of the points (xs[i], ys[i]).
// Repeated points are kept once, the first occurrence wins. Fewer than four
// distinct points, or points that all lie on one line, give an
// *InterpolationError.
func Triangulate(xs, ys []float64) (*Triangulation, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: %d x coordinates but %d y coordinates", len(xs), len(ys))
	}
	t := &Triangulation{inputs: len(xs)}
	if err := t.normalize(xs, ys); err != nil {
		return nil, err
	}
	if len(t.pts) < minPoints {
		return nil, &InterpolationError{Points: len(t.pts), Reason: "too few points"}
	}
	if collinear(t.pts) {
		return nil, &InterpolationError{Points: len(t.pts), Reason: "points are collinear"}
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Triangulation) normalize(xs, ys []float64) error {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return fmt.Errorf("interp: point %d is not finite", i)
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if len(xs) == 0 {
		return &InterpolationError{Reason: "no points"}
	}
	t.offset = point{minX, minY}
	t.scale = math.Max(maxX-minX, maxY-minY)
	if t.scale == 0 {
		t.scale = 1
	}

	seen := make(map[point]bool, len(xs))
	for i := range xs {
		p := t.local(xs[i], ys[i])
		if seen[p] {
			continue
		}
		seen[p] = true
		t.pts = append(t.pts, p)
		t.source = append(t.source, i)
	}
	return nil
}

func (t *Triangulation) local(x, y float64) point {
	return point{(x - t.offset[0]) / t.scale, (y - t.offset[1]) / t.scale}
}

func collinear(pts []point) bool {
	a := pts[0]
	far, dist := 0, 0.0
	for i, p := range pts {
		d := math.Hypot(p[0]-a[0], p[1]-a[1])
		if d > dist {
			far, dist = i, d
		}
	}
	b := pts[far]
	for _, p := range pts {
		if math.Abs(orient(a, b, p)) > eps*dist {
			return false
		}
	}
	return true
}

// Len returns the number of distinct points.
func (t *Triangulation) Len() int { return len(t.pts) }

// Locate returns the triangle containing (x, y) and the barycentric
// coordinates of the point in it. The triangle is -1 outside the convex hull.
// Locate is safe for concurrent use.
func (t *Triangulation) Locate(x, y float64) (int, [3]float64) {
	p := t.local(x, y)
	tri := t.locate(p, t.hint, eps)
	if tri == -1 {
		return -1, [3]float64{}
	}
	return tri, t.barycentric(tri, p)
}

func (t *Triangulation) barycentric(tri int, p point) [3]float64 {
	v := t.tris[tri].v
	a, b, c := t.pts[v[0]], t.pts[v[1]], t.pts[v[2]]
	area := orient(a, b, c)
	return [3]float64{
		orient(b, c, p) / area,
		orient(c, a, p) / area,
		orient(a, b, p) / area,
	}
}
