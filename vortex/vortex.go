// Package vortex locates the tip vortex core in a cross-section of the flow
// and samples the velocity along a line through it.
package vortex

import (
	"errors"
	"fmt"
	"math"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/grid"
	"github.com/marchdf/mcwing/interp"
)

// Columns names the fields of a cross-section table.
type Columns struct {
	Y, Z     string    // In-plane coordinates
	Pressure string    // Field minimized to find the core
	Velocity [2]string // Components sampled along the lineout
}

// DefaultColumns returns the semantic names produced by the Nalu schemas.
func DefaultColumns() Columns {
	return Columns{
		Y:        "y",
		Z:        "z",
		Pressure: "p",
		Velocity: [2]string{"ux", "uz"},
	}
}

// ErrNoCore is returned when a cross-section has no finite pressure value.
var ErrNoCore = errors.New("vortex: no finite pressure in cross-section")

// Core is the location of minimum pressure in a cross-section.
type Core struct {
	Row  int // Row of the table holding the minimum
	Y, Z float64
	P    float64
}

// LocateCore returns the row with the smallest pressure. NaN pressures are
// ignored and ties resolve to the first row.
func LocateCore(t *dataloader.Table, cols Columns) (Core, error) {
	yi, zi, pi := t.Index(cols.Y), t.Index(cols.Z), t.Index(cols.Pressure)
	for _, c := range []struct {
		name string
		idx  int
	}{{cols.Y, yi}, {cols.Z, zi}, {cols.Pressure, pi}} {
		if c.idx == -1 {
			return Core{}, &dataloader.MissingFieldError{Field: c.name, Column: c.name}
		}
	}
	core := Core{Row: -1, P: math.Inf(1)}
	for i, row := range t.Rows {
		p := row[pi]
		if math.IsNaN(p) {
			continue
		}
		if core.Row == -1 || p < core.P {
			core = Core{Row: i, Y: row[yi], Z: row[zi], P: p}
		}
	}
	if core.Row == -1 {
		return Core{}, ErrNoCore
	}
	return core, nil
}

// Profile is the velocity sampled along the line z = Core.Z. Samples outside
// the convex hull of the cross-section are NaN.
type Profile struct {
	Core Core
	Y    []float64
	U, W []float64 // The two velocity components
}

// Lineout samples the velocity at ninterp evenly spaced points spanning the
// y extent of the cross-section, at the height of the core.
func Lineout(t *dataloader.Table, cols Columns, ninterp int) (*Profile, error) {
	if ninterp < 2 {
		return nil, fmt.Errorf("vortex: lineout needs at least 2 points, got %d", ninterp)
	}
	core, err := LocateCore(t, cols)
	if err != nil {
		return nil, err
	}
	ys, zs, err := coordinates(t, cols)
	if err != nil {
		return nil, err
	}
	tri, err := interp.Triangulate(ys, zs)
	if err != nil {
		return nil, err
	}
	var fields [2]*interp.CloughTocher
	for k, name := range cols.Velocity {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if fields[k], err = tri.CloughTocher(vals); err != nil {
			return nil, err
		}
	}

	ymin, ymax, err := grid.Extent(ys)
	if err != nil {
		return nil, err
	}
	line, err := grid.Linspace(ymin, ymax, ninterp)
	if err != nil {
		return nil, err
	}
	prof := &Profile{
		Core: core,
		Y:    line,
		U:    make([]float64, ninterp),
		W:    make([]float64, ninterp),
	}
	for i, y := range prof.Y {
		prof.U[i] = fields[0].At(y, core.Z)
		prof.W[i] = fields[1].At(y, core.Z)
	}
	return prof, nil
}

// CoreSuffix is appended to the z column name on lineout tables, whose z is
// the height of the core.
const CoreSuffix = "_core"

// Table returns the profile as a table with columns y, z_core and the two
// velocity component names.
func (p *Profile) Table(cols Columns) *dataloader.Table {
	t := dataloader.NewTable([]string{cols.Y, cols.Z + CoreSuffix, cols.Velocity[0], cols.Velocity[1]})
	for i, y := range p.Y {
		t.Rows = append(t.Rows, []float64{y, p.Core.Z, p.U[i], p.W[i]})
	}
	return t
}

// Contour resamples the pressure of the cross-section onto an n by n grid
// spanning its y and z extent. Grid nodes outside the convex hull are NaN.
func Contour(t *dataloader.Table, cols Columns, n int) (*grid.Regular, error) {
	if n < 2 {
		return nil, fmt.Errorf("vortex: contour needs at least 2 points per side, got %d", n)
	}
	ys, zs, err := coordinates(t, cols)
	if err != nil {
		return nil, err
	}
	ps, err := t.Column(cols.Pressure)
	if err != nil {
		return nil, err
	}
	ct, err := interp.New(ys, zs, ps)
	if err != nil {
		return nil, err
	}
	ymin, ymax, err := grid.Extent(ys)
	if err != nil {
		return nil, err
	}
	zmin, zmax, err := grid.Extent(zs)
	if err != nil {
		return nil, err
	}
	gy, err := grid.Linspace(ymin, ymax, n)
	if err != nil {
		return nil, err
	}
	gz, err := grid.Linspace(zmin, zmax, n)
	if err != nil {
		return nil, err
	}
	g := grid.NewRegular(gy, gz)
	for r, z := range g.Ys {
		for c, y := range g.Xs {
			g.Set(c, r, ct.At(y, z))
		}
	}
	return g, nil
}

func coordinates(t *dataloader.Table, cols Columns) (ys, zs []float64, err error) {
	if ys, err = t.Column(cols.Y); err != nil {
		return nil, nil, err
	}
	if zs, err = t.Column(cols.Z); err != nil {
		return nil, nil, err
	}
	return ys, zs, nil
}
