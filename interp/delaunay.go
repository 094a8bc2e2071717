package interp

import (
	"math"

	"github.com/fogleman/delaunay"
)

// triangle is stored counterclockwise. n[i] is the neighbor across the edge
// opposite v[i], or -1 on the convex hull.
type triangle struct {
	v [3]int
	n [3]int
}

// build triangulates the normalized points. The triangulation covers their
// whole convex hull.
func (t *Triangulation) build() error {
	in := make([]delaunay.Point, len(t.pts))
	for i, p := range t.pts {
		in[i] = delaunay.Point{X: p[0], Y: p[1]}
	}
	d, err := delaunay.Triangulate(in)
	if err != nil {
		return &InterpolationError{Points: len(t.pts), Reason: err.Error()}
	}

	t.tris = make([]triangle, 0, len(d.Triangles)/3)
	for i := 0; i+2 < len(d.Triangles); i += 3 {
		v := [3]int{d.Triangles[i], d.Triangles[i+1], d.Triangles[i+2]}
		if orient(t.pts[v[0]], t.pts[v[1]], t.pts[v[2]]) < 0 {
			v[1], v[2] = v[2], v[1]
		}
		t.tris = append(t.tris, triangle{v: v, n: [3]int{-1, -1, -1}})
	}
	if len(t.tris) == 0 {
		return &InterpolationError{Points: len(t.pts), Reason: "no triangles"}
	}
	t.link()
	t.hint = t.center()
	return nil
}

// link sets the neighbors of every triangle from their shared edges.
func (t *Triangulation) link() {
	type half struct{ tri, k int }
	open := make(map[[2]int]half, 3*len(t.tris)/2)
	for i := range t.tris {
		v := t.tris[i].v
		for k := 0; k < 3; k++ {
			a, b := v[(k+1)%3], v[(k+2)%3]
			key := [2]int{min(a, b), max(a, b)}
			if o, ok := open[key]; ok {
				t.tris[i].n[k] = o.tri
				t.tris[o.tri].n[o.k] = i
				delete(open, key)
				continue
			}
			open[key] = half{i, k}
		}
	}
}

// center returns a triangle near the middle of the domain to start walks from.
func (t *Triangulation) center() int {
	best, dist := 0, math.Inf(1)
	for i, tr := range t.tris {
		var cx, cy float64
		for _, v := range tr.v {
			cx += t.pts[v][0] / 3
			cy += t.pts[v][1] / 3
		}
		if d := math.Hypot(cx-0.5, cy-0.5); d < dist {
			best, dist = i, d
		}
	}
	return best
}

// locate walks from start towards p. It returns -1 if p is outside the
// convex hull. A point within tol of an edge counts as inside.
func (t *Triangulation) locate(p point, start int, tol float64) int {
	cur := start
	limit := 4*len(t.tris) + 16
	for step := 0; step < limit; step++ {
		tr := &t.tris[cur]
		next := -2
		for k := 0; k < 3; k++ {
			i := (k + step) % 3
			a, b := t.pts[tr.v[(i+1)%3]], t.pts[tr.v[(i+2)%3]]
			if orient(a, b, p) < -tol {
				next = tr.n[i]
				break
			}
		}
		switch next {
		case -2:
			if t.area(cur) > 0 {
				return cur
			}
			return t.scan(p, tol)
		case -1:
			return -1
		}
		cur = next
	}
	// Round-off made the walk cycle.
	return t.scan(p, tol)
}

func (t *Triangulation) scan(p point, tol float64) int {
	for i, tr := range t.tris {
		if t.area(i) <= 0 {
			continue
		}
		a, b, c := t.pts[tr.v[0]], t.pts[tr.v[1]], t.pts[tr.v[2]]
		if orient(b, c, p) >= -tol && orient(c, a, p) >= -tol && orient(a, b, p) >= -tol {
			return i
		}
	}
	return -1
}

func (t *Triangulation) area(tri int) float64 {
	v := t.tris[tri].v
	return orient(t.pts[v[0]], t.pts[v[1]], t.pts[v[2]])
}
