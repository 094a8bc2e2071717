// Package wing computes the surface pressure coefficient on spanwise cuts
// of the wing and orders each cut around the airfoil.
package wing

import (
	"errors"
	"fmt"

	"github.com/marchdf/mcwing/average"
	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/nalu"
	"github.com/marchdf/mcwing/ring"
)

// SnapThreshold is the spanwise coordinate below which samples are moved
// onto the symmetry plane.
const SnapThreshold = 1e-16

// Column names used on wing tables.
const (
	X        = "x"
	Y        = "y"
	Z        = "z"
	Pressure = "p"
	NegCp    = "neg_cp"
)

// Section is one spanwise cut, ordered around the airfoil and closed.
type Section struct {
	Y float64
	ring.Ring
}

// NegativeCp returns the transformer computing -cp = -p / (0.5 rho u^2) from
// the pressure column.
func NegativeCp(c nalu.Constants) (*dataloader.FieldTransformer, error) {
	q := c.DynamicPressure()
	if q == 0 {
		return nil, errors.New("wing: zero dynamic pressure")
	}
	return &dataloader.FieldTransformer{
		InternalNames: []string{Pressure},
		Transformer: func(d []float64) (float64, error) {
			return -d[0] / q, nil
		},
	}, nil
}

// Prepare snaps the spanwise coordinate onto the symmetry plane and adds the
// neg_cp column. The table is modified in place.
func Prepare(t *dataloader.Table, c nalu.Constants) error {
	if err := (average.Snap{Column: Y, Threshold: SnapThreshold}).Apply(t); err != nil {
		return err
	}
	ft, err := NegativeCp(c)
	if err != nil {
		return err
	}
	return t.AddColumn(NegCp, ft)
}

// Sections splits a prepared table into spanwise cuts, in increasing y, and
// orders each one around its centroid in the (x, z) plane.
func Sections(t *dataloader.Table) ([]Section, error) {
	ys, err := t.Unique(Y)
	if err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(ys))
	for _, y := range ys {
		cut, err := t.Slice(Y, y)
		if err != nil {
			return nil, err
		}
		var cols [3][]float64
		for k, name := range []string{X, Z, NegCp} {
			if cols[k], err = cut.Column(name); err != nil {
				return nil, err
			}
		}
		r, err := ring.SortClosed(cols[0], cols[1], cols[2])
		if err != nil {
			return nil, fmt.Errorf("wing: section y=%g: %w", y, err)
		}
		sections = append(sections, Section{Y: y, Ring: r})
	}
	return sections, nil
}

// Table flattens the sections into one table with columns y, x, z, neg_cp.
func Table(sections []Section) *dataloader.Table {
	t := dataloader.NewTable([]string{Y, X, Z, NegCp})
	for _, s := range sections {
		for i := range s.X {
			t.Rows = append(t.Rows, []float64{s.Y, s.X[i], s.Z[i], s.V[i]})
		}
	}
	return t
}
