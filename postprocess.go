package mcwing

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/grid"
	"github.com/marchdf/mcwing/nalu"
	"github.com/marchdf/mcwing/render"
	"github.com/marchdf/mcwing/vortex"
	"github.com/marchdf/mcwing/wing"
)

// Column holding the streamwise position of the vortex slices.
const sliceColumn = "x"

// Suffixes of the normalized lineout columns.
const (
	ChordSuffix    = "_c"
	VelocitySuffix = "_u0"
)

// ExperimentLabel is the legend of measured series without a label.
const ExperimentLabel = "Exp."

// Output file names.
const (
	LineoutsFile = "lineouts.csv"
	CoresFile    = "cores.csv"
	WingFile     = "neg_cp.csv"
)

func outName(dir, name string) string {
	return filepath.Join(dir, name)
}

func sliceName(prefix string, v float64, ext string) string {
	return prefix + "_" + strconv.FormatFloat(v, 'g', -1, 64) + ext
}

func readTable(path string, format dataloader.Format, schema dataloader.Schema) (*dataloader.Table, error) {
	if format == nil {
		format = &dataloader.NaiveCSV{}
	}
	return dataloader.LoadFromDataset(schema, &dataloader.Dataset{
		Name:     filepath.Base(path),
		Filename: path,
		Format:   format,
	})
}

// VortexSlice is the post-processed data of one x-normal slice.
type VortexSlice struct {
	X       float64
	Profile *vortex.Profile
	Contour *grid.Regular // nil unless contours were requested
}

// VortexResult holds the slices that were processed successfully, in
// increasing x.
type VortexResult struct {
	Slices   []VortexSlice
	Lineouts *dataloader.Table // x, y, z_core, the velocity components and, when normalized, y_c, ux_u0, uz_u0
	Cores    *dataloader.Table // x, y, z, p of each core

	Constants  *nalu.Constants   // nil unless the lineouts are normalized
	Experiment [2]*render.Series // Measured ux/u0 and uz/u0, nil when absent
}

func (set *VortexSettings) chord() float64 {
	if set.Chord <= 0 {
		return 1
	}
	return set.Chord
}

// PostprocessVortex locates the vortex core in every slice of the averaged
// table and samples the velocity through it. Slices are processed
// concurrently. A failing slice does not stop the others: the result holds
// every successful slice and the error is an ErrorList with one entry per
// requested slice.
func PostprocessVortex(set *VortexSettings, logger *zap.Logger) (*VortexResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := &VortexResult{}
	if set.NaluInput != "" {
		c, err := nalu.ReadConstants(set.NaluInput)
		if err != nil {
			return nil, err
		}
		if c.Velocity == 0 {
			return nil, fmt.Errorf("%s: inflow velocity is zero", set.NaluInput)
		}
		res.Constants = &c
		logger.Debug("reference conditions",
			zap.Float64("u0", c.Velocity),
			zap.Float64("chord", set.chord()),
			zap.Float64("reynolds", c.Reynolds(set.chord())),
		)
	}
	if set.Experiment != nil {
		if res.Constants == nil {
			return nil, errors.New("measured lineouts need the nalu input to normalize the results")
		}
		var err error
		if res.Experiment, err = readExperiment(set.Experiment, set.chord()); err != nil {
			return nil, err
		}
	}

	t, err := readTable(set.Input, set.Format, set.Schema)
	if err != nil {
		return nil, err
	}
	xs := set.Slices
	if len(xs) == 0 {
		if xs, err = t.Unique(sliceColumn); err != nil {
			return nil, err
		}
	}

	slices := make([]VortexSlice, len(xs))
	errs := make(ErrorList, len(xs))
	wg := &sync.WaitGroup{}
	for i, x := range xs {
		wg.Add(1)
		go func(i int, x float64) {
			defer wg.Done()
			s, err := vortexSlice(t, x, set)
			if err != nil {
				errs[i] = &SliceError{Column: sliceColumn, Value: x, Err: err}
				logger.Warn("slice failed", zap.Float64("x", x), zap.Error(err))
				return
			}
			slices[i] = s
			logger.Debug("slice processed",
				zap.Float64("x", x),
				zap.Float64("y_core", s.Profile.Core.Y),
				zap.Float64("z_core", s.Profile.Core.Z),
			)
		}(i, x)
	}
	wg.Wait()

	cols := set.Columns
	header := (&vortex.Profile{}).Table(cols).Columns
	res.Lineouts = dataloader.NewTable(append([]string{sliceColumn}, header...))
	res.Cores = dataloader.NewTable([]string{sliceColumn, cols.Y, cols.Z, cols.Pressure})
	for i, s := range slices {
		if errs[i] != nil {
			continue
		}
		res.Slices = append(res.Slices, s)
		for _, row := range s.Profile.Table(cols).Rows {
			res.Lineouts.Rows = append(res.Lineouts.Rows, append([]float64{s.X}, row...))
		}
		p := s.Profile
		res.Cores.Rows = append(res.Cores.Rows, []float64{s.X, p.Core.Y, p.Core.Z, p.Core.P})
	}
	if res.Constants != nil {
		if err := normalize(res.Lineouts, cols, set.chord(), res.Constants.Velocity); err != nil {
			return nil, err
		}
	}

	if set.OutputDir != "" {
		if err := writeVortex(set, res); err != nil {
			return nil, err
		}
	}
	if errs.AllNil() {
		return res, nil
	}
	return res, errs
}

// normalize appends y/chord and the velocity components over u0.
func normalize(t *dataloader.Table, cols vortex.Columns, chord, u0 float64) error {
	scaled := func(name string, by float64) (string, *dataloader.FieldTransformer) {
		return name, &dataloader.FieldTransformer{
			InternalNames: []string{name},
			Transformer:   func(v []float64) (float64, error) { return v[0] / by, nil },
		}
	}
	for _, add := range []struct {
		suffix string
		name   string
		by     float64
	}{
		{ChordSuffix, cols.Y, chord},
		{VelocitySuffix, cols.Velocity[0], u0},
		{VelocitySuffix, cols.Velocity[1], u0},
	} {
		name, ft := scaled(add.name, add.by)
		if err := t.AddColumn(name+add.suffix, ft); err != nil {
			return err
		}
	}
	return nil
}

// readExperiment reads the measured lineouts. Columns are taken by position,
// the header names are ignored.
func readExperiment(e *Experiment, chord float64) ([2]*render.Series, error) {
	var out [2]*render.Series
	label := e.Label
	if label == "" {
		label = ExperimentLabel
	}
	for k, path := range []string{e.UX, e.UZ} {
		if path == "" {
			continue
		}
		t, err := (&dataloader.NaiveCSV{}).ReadTable(path)
		if err != nil {
			return out, err
		}
		if len(t.Columns) < 2 {
			return out, fmt.Errorf("%s: measured lineout needs y and velocity columns, got %d columns", path, len(t.Columns))
		}
		s := &render.Series{Label: label, Reference: true}
		for _, row := range t.Rows {
			s.X = append(s.X, (row[0]*e.Scale-e.Shift)/chord)
			s.Y = append(s.Y, row[1])
		}
		out[k] = s
	}
	return out, nil
}

func vortexSlice(t *dataloader.Table, x float64, set *VortexSettings) (VortexSlice, error) {
	sub, err := t.Slice(sliceColumn, x)
	if err != nil {
		return VortexSlice{}, err
	}
	if sub.Empty() {
		return VortexSlice{}, errors.New("no samples")
	}
	s := VortexSlice{X: x}
	if s.Profile, err = vortex.Lineout(sub, set.Columns, set.Ninterp); err != nil {
		return VortexSlice{}, err
	}
	if set.Contour > 0 {
		if s.Contour, err = vortex.Contour(sub, set.Columns, set.Contour); err != nil {
			return VortexSlice{}, err
		}
	}
	return s, nil
}

// contourTable flattens a grid into y, z, p rows.
func contourTable(g *grid.Regular, cols vortex.Columns) *dataloader.Table {
	t := dataloader.NewTable([]string{cols.Y, cols.Z, cols.Pressure})
	nc, nr := g.Dims()
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			t.Rows = append(t.Rows, []float64{g.X(c), g.Y(r), g.Z(c, r)})
		}
	}
	return t
}

func writeVortex(set *VortexSettings, res *VortexResult) error {
	dir := set.OutputDir
	if err := dataloader.WriteFile(outName(dir, LineoutsFile), res.Lineouts); err != nil {
		return err
	}
	if err := dataloader.WriteFile(outName(dir, CoresFile), res.Cores); err != nil {
		return err
	}
	for _, s := range res.Slices {
		if s.Contour == nil {
			continue
		}
		name := outName(dir, sliceName("contour_x", s.X, ".csv"))
		if err := dataloader.WriteFile(name, contourTable(s.Contour, set.Columns)); err != nil {
			return err
		}
	}
	if set.Style == nil {
		return nil
	}
	return plotVortex(set, res)
}

func saveLines(path, title, xlabel, ylabel string, series []render.Series, style render.Style) error {
	fig, err := render.Lines(title, xlabel, ylabel, series, style)
	if err != nil {
		return err
	}
	return fig.Save(path)
}

func plotVortex(set *VortexSettings, res *VortexResult) error {
	style := *set.Style
	cols := set.Columns
	for k, name := range cols.Velocity {
		series := make([]render.Series, len(res.Slices))
		for i, s := range res.Slices {
			v := s.Profile.U
			if k == 1 {
				v = s.Profile.W
			}
			series[i] = render.Series{
				Label: sliceName(sliceColumn, s.X, ""),
				X:     s.Profile.Y,
				Y:     v,
			}
		}
		if err := saveLines(outName(set.OutputDir, name+".png"), name, cols.Y, name, series, style); err != nil {
			return err
		}
		if res.Constants == nil {
			continue
		}

		norm := make([]render.Series, len(series), len(series)+1)
		for i, s := range series {
			norm[i] = render.Series{
				Label: s.Label,
				X:     floats.ScaleTo(make([]float64, len(s.X)), 1/set.chord(), s.X),
				Y:     floats.ScaleTo(make([]float64, len(s.Y)), 1/res.Constants.Velocity, s.Y),
			}
		}
		if m := res.Experiment[k]; m != nil {
			norm = append(norm, *m)
		}
		path := outName(set.OutputDir, name+VelocitySuffix+".png")
		if err := saveLines(path, "", cols.Y+"/c", name+"/u0", norm, style); err != nil {
			return err
		}
	}
	for _, s := range res.Slices {
		if s.Contour == nil {
			continue
		}
		title := sliceName(cols.Pressure+" at "+sliceColumn, s.X, "")
		fig, err := render.HeatMap(title, cols.Y, cols.Z, s.Contour, style)
		if err != nil {
			return err
		}
		if err := fig.Save(outName(set.OutputDir, sliceName("p_x", s.X, ".png"))); err != nil {
			return err
		}
	}
	return nil
}

// WingResult holds the spanwise cuts of the wing, in increasing y.
type WingResult struct {
	Constants nalu.Constants
	Sections  []wing.Section
	Table     *dataloader.Table // y, x, z, neg_cp
}

// PostprocessWing computes the negative pressure coefficient on the averaged
// wing surface samples and orders each spanwise cut around the airfoil.
func PostprocessWing(set *WingSettings, logger *zap.Logger) (*WingResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := nalu.ReadConstants(set.NaluInput)
	if err != nil {
		return nil, err
	}
	logger.Debug("reference conditions",
		zap.Float64("u0", c.Velocity),
		zap.Float64("rho", c.Density),
		zap.Float64("mu", c.Viscosity),
		zap.Float64("reynolds", c.Reynolds(1)), // per unit chord
	)
	t, err := readTable(set.Input, set.Format, set.Schema)
	if err != nil {
		return nil, err
	}
	if err := wing.Prepare(t, c); err != nil {
		return nil, err
	}
	sections, err := wing.Sections(t)
	if err != nil {
		return nil, err
	}
	res := &WingResult{Constants: c, Sections: sections, Table: wing.Table(sections)}
	logger.Info("wing sections", zap.Int("sections", len(sections)), zap.Int("rows", res.Table.Len()))

	if set.OutputDir == "" {
		return res, nil
	}
	if err := dataloader.WriteFile(outName(set.OutputDir, WingFile), res.Table); err != nil {
		return nil, err
	}
	if set.Style == nil {
		return res, nil
	}
	series := make([]render.Series, len(sections))
	for i, s := range sections {
		series[i] = render.Series{Label: sliceName(wing.Y, s.Y, ""), X: s.X, Y: s.V}
	}
	if err := saveLines(outName(set.OutputDir, "neg_cp.png"), "", wing.X, "-cp", series, *set.Style); err != nil {
		return nil, err
	}
	return res, nil
}
