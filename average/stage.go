package average

import (
	"math"
	"sort"

	"github.com/marchdf/mcwing/dataloader"
)

// A Stage rewrites the tagged rows before they are grouped.
type Stage interface {
	Apply(t *dataloader.Table) error
}

// Mirror folds a coordinate onto its non-negative half: v becomes |v| and
// magnitudes below Tolerance become exactly zero. Samples of a half-plane
// slice taken on either side of the symmetry plane then share a location.
type Mirror struct {
	Column    string
	Tolerance float64
}

func (m Mirror) Apply(t *dataloader.Table) error {
	idx := t.Index(m.Column)
	if idx == -1 {
		return &dataloader.MissingFieldError{Field: "mirror", Column: m.Column}
	}
	for _, row := range t.Rows {
		v := math.Abs(row[idx])
		if v < m.Tolerance {
			v = 0
		}
		row[idx] = v
	}
	return nil
}

// Snap sets values below Threshold to exactly zero. Negative values are
// snapped too.
type Snap struct {
	Column    string
	Threshold float64
}

func (s Snap) Apply(t *dataloader.Table) error {
	idx := t.Index(s.Column)
	if idx == -1 {
		return &dataloader.MissingFieldError{Field: "snap", Column: s.Column}
	}
	for _, row := range t.Rows {
		if row[idx] < s.Threshold {
			row[idx] = 0
		}
	}
	return nil
}

func sortRows(t *dataloader.Table, coord [3]int) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		for _, c := range coord {
			if a[c] != b[c] {
				return a[c] < b[c]
			}
		}
		return false
	})
}
