package interp

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CloughTocher is a C1 piecewise cubic interpolant. Each Delaunay triangle is
// split at its centroid into three cubic patches whose Bezier coefficients
// follow from the values and estimated gradients at the vertices. Linear
// data is reproduced exactly.
type CloughTocher struct {
	tri    *Triangulation
	values []float64
	grads  [][2]float64
}

// New triangulates the points and returns the interpolant of values over
// them.
func New(xs, ys, values []float64) (*CloughTocher, error) {
	tri, err := Triangulate(xs, ys)
	if err != nil {
		return nil, err
	}
	return tri.CloughTocher(values)
}

// CloughTocher returns the interpolant of values given at the points the
// triangulation was built from. Several fields sampled at the same points can
// share one triangulation.
func (t *Triangulation) CloughTocher(values []float64) (*CloughTocher, error) {
	if len(values) != t.inputs {
		return nil, fmt.Errorf("interp: %d values for triangulation of %d input points", len(values), t.inputs)
	}
	f := make([]float64, len(t.pts))
	for i, src := range t.source {
		f[i] = values[src]
	}
	return &CloughTocher{
		tri:    t,
		values: f,
		grads:  t.gradients(f),
	}, nil
}

// neighbors returns the sorted vertex neighbors of every point.
func (t *Triangulation) neighbors() [][]int {
	sets := make([]map[int]struct{}, len(t.pts))
	for _, tr := range t.tris {
		for k, v := range tr.v {
			if sets[v] == nil {
				sets[v] = make(map[int]struct{})
			}
			sets[v][tr.v[(k+1)%3]] = struct{}{}
			sets[v][tr.v[(k+2)%3]] = struct{}{}
		}
	}
	nbs := make([][]int, len(t.pts))
	for i, s := range sets {
		for v := range s {
			nbs[i] = append(nbs[i], v)
		}
		sort.Ints(nbs[i])
	}
	return nbs
}

// gradients estimates the gradient at each point by a least squares fit of a
// quadratic polynomial to the values of its neighbors. Points with few
// neighbors also use the neighbors of their neighbors, and fall back to a
// linear fit when that is still not enough.
func (t *Triangulation) gradients(f []float64) [][2]float64 {
	ring := t.neighbors()
	grads := make([][2]float64, len(t.pts))
	for i := range ring {
		nb := ring[i]
		if len(nb) < 6 {
			nb = secondRing(ring, i)
		}
		if len(nb) < 2 {
			continue
		}
		var h float64
		for _, j := range nb {
			h = math.Max(h, math.Hypot(t.pts[j][0]-t.pts[i][0], t.pts[j][1]-t.pts[i][1]))
		}
		g, ok := fitGradient(t.pts, f, i, nb, h, len(nb) >= 5)
		if !ok && len(nb) >= 5 {
			g, ok = fitGradient(t.pts, f, i, nb, h, false)
		}
		if ok {
			grads[i] = g
		}
	}
	return grads
}

func secondRing(ring [][]int, i int) []int {
	set := make(map[int]struct{})
	for _, j := range ring[i] {
		set[j] = struct{}{}
		for _, k := range ring[j] {
			set[k] = struct{}{}
		}
	}
	delete(set, i)
	nb := make([]int, 0, len(set))
	for j := range set {
		nb = append(nb, j)
	}
	sort.Ints(nb)
	return nb
}

func fitGradient(pts []point, f []float64, i int, nb []int, h float64, quadratic bool) ([2]float64, bool) {
	cols := 2
	if quadratic {
		cols = 5
	}
	a := mat.NewDense(len(nb), cols, nil)
	b := mat.NewVecDense(len(nb), nil)
	for r, j := range nb {
		dx := (pts[j][0] - pts[i][0]) / h
		dy := (pts[j][1] - pts[i][1]) / h
		a.Set(r, 0, dx)
		a.Set(r, 1, dy)
		if quadratic {
			a.Set(r, 2, dx*dx/2)
			a.Set(r, 3, dx*dy)
			a.Set(r, 4, dy*dy/2)
		}
		b.SetVec(r, f[j]-f[i])
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return [2]float64{}, false
	}
	g := [2]float64{x.AtVec(0) / h, x.AtVec(1) / h}
	if math.IsNaN(g[0]) || math.IsNaN(g[1]) || math.IsInf(g[0], 0) || math.IsInf(g[1], 0) {
		return [2]float64{}, false
	}
	return g, true
}

// At returns the interpolated value at (x, y), or NaN if the point is outside
// the convex hull of the data.
func (c *CloughTocher) At(x, y float64) float64 {
	tri, l := c.tri.Locate(x, y)
	if tri == -1 {
		return math.NaN()
	}
	return c.eval(tri, l)
}

func (c *CloughTocher) eval(tri int, l [3]float64) float64 {
	v := c.tri.tris[tri].v
	var (
		p [3]point
		f [3]float64
		g [3][2]float64
		m point // centroid
	)
	for i, vi := range v {
		p[i] = c.tri.pts[vi]
		f[i] = c.values[vi]
		g[i] = c.grads[vi]
		m[0] += p[i][0] / 3
		m[1] += p[i][1] / 3
	}
	dot := func(i int, q point) float64 {
		return g[i][0]*(q[0]-p[i][0]) + g[i][1]*(q[1]-p[i][1])
	}
	// Coefficients next to the vertices, along the edges and towards the
	// centroid.
	edgeCoef := func(i, j int) float64 { return f[i] + dot(i, p[j])/3 }
	var inner [3]float64
	for i := range inner {
		inner[i] = f[i] + dot(i, m)/3
	}
	// Middle coefficient of the patch on the edge opposite vertex k, chosen
	// so the derivative across that edge is linear along it.
	var mid [3]float64
	for k := range mid {
		i, j := (k+1)%3, (k+2)%3
		e := point{p[j][0] - p[i][0], p[j][1] - p[i][1]}
		d := point{m[0] - p[i][0], m[1] - p[i][1]}
		nrm := point{-e[1], e[0]}
		det := e[0]*d[1] - e[1]*d[0]
		a2 := (nrm[0]*d[1] - nrm[1]*d[0]) / det
		a4 := (e[0]*nrm[1] - e[1]*nrm[0]) / det
		a1 := -(a2 + a4)
		b300, b030 := f[i], f[j]
		b210, b120 := edgeCoef(i, j), edgeCoef(j, i)
		b201, b021 := inner[i], inner[j]
		q0 := a1*b300 + a2*b210 + a4*b201
		q2 := a1*b120 + a2*b030 + a4*b021
		mid[k] = ((q0+q2)/2 - a1*b210 - a2*b120) / a4
	}
	var ring [3]float64
	for i := range ring {
		ring[i] = (inner[i] + mid[(i+1)%3] + mid[(i+2)%3]) / 3
	}
	center := (ring[0] + ring[1] + ring[2]) / 3

	// The patch holding the point is the one opposite the smallest
	// barycentric coordinate.
	k := 0
	for i := 1; i < 3; i++ {
		if l[i] < l[k] {
			k = i
		}
	}
	i, j := (k+1)%3, (k+2)%3
	u, w, s := l[i]-l[k], l[j]-l[k], 3*l[k]
	return f[i]*u*u*u + f[j]*w*w*w + center*s*s*s +
		3*edgeCoef(i, j)*u*u*w + 3*edgeCoef(j, i)*u*w*w +
		3*inner[i]*u*u*s + 3*inner[j]*w*w*s +
		3*ring[i]*u*s*s + 3*ring[j]*w*s*s +
		6*mid[k]*u*w*s
}

// Triangulation returns the triangulation the interpolant is built on.
func (c *CloughTocher) Triangulation() *Triangulation { return c.tri }
