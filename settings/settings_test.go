package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/marchdf/mcwing/average"
	"github.com/marchdf/mcwing/dataloader"
)

func TestGetAverage(t *testing.T) {
	set, err := GetAverage(VortexSlices, "slices")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("slices", "output*.csv"), set.Source.Pattern())
	assert.Equal(t, 20, set.Window)
	assert.Equal(t, filepath.Join("slices", AverageOutput), set.Output)
	assert.Equal(t, dataloader.NaluCoordinates, set.Averager.Coordinates)
	assert.Equal(t, "time", set.Averager.StepColumn)
	assert.Empty(t, set.Averager.Stages)

	set, err = GetAverage(WingSlices, "wing")
	require.NoError(t, err)
	require.Len(t, set.Averager.Stages, 1)
	assert.Equal(t, average.Mirror{Column: "Points:1", Tolerance: 1e-16}, set.Averager.Stages[0])

	_, err = GetAverage("plane_slices", "")
	var missing Missing
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{VortexSlices, WingSlices}, missing.Options)
}

func TestGetSchema(t *testing.T) {
	s, err := GetSchema(NaluWing)
	require.NoError(t, err)
	assert.True(t, s.Strict)
	_, err = s.Apply(dataloader.NewTable([]string{
		"Points:0", "Points:1", "Points:2", "pressure",
		"velocity_:0", "velocity_:1", "velocity_:2",
		"pressure_force_:0", "pressure_force_:1", "pressure_force_:2", "tau_wall",
	}))
	assert.NoError(t, err)

	_, err = GetSchema("su2")
	assert.ErrorAs(t, err, &Missing{})
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "mcwing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcwing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 4
average:
  preset: wing_slices
  dir: wing_slices68M
  window: 5
  quantum: 1.0e-6
vortex:
  slices: [1, 5]
  contour: 50
render:
  enabled: true
  width: 4
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultNinterp, cfg.Vortex.Ninterp)
	assert.Equal(t, NaluVortex, cfg.Vortex.Schema)

	avg, err := cfg.AverageSettings()
	require.NoError(t, err)
	assert.Equal(t, 5, avg.Window)
	assert.Equal(t, 4, avg.Workers)
	assert.Equal(t, 1e-6, avg.Averager.Quantum)
	assert.Equal(t, filepath.Join("wing_slices68M", AverageOutput), avg.Output)
	assert.Len(t, avg.Averager.Stages, 1)

	vs, err := cfg.VortexSettings()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 5}, vs.Slices)
	assert.Equal(t, 50, vs.Contour)
	require.NotNil(t, vs.Style)
	assert.Equal(t, 4*vg.Inch, vs.Style.Width)
	assert.Equal(t, 5*vg.Inch, vs.Style.Height)

	ws, err := cfg.WingSettings()
	require.NoError(t, err)
	assert.Equal(t, "mcalisterWing.i", ws.NaluInput)
	assert.NotNil(t, ws.Style)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"syntax":   "workers: [",
		"workers":  "workers: -1",
		"ninterp":  "vortex:\n  ninterp: 1",
		"levels":   "render:\n  levels: [0.9, 0.1]",
		"chord":    "vortex:\n  chord: -1",
		"measured": "vortex:\n  experiment:\n    ux: exp_data/ux_x4.txt",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			cfg, err := Load(path)
			assert.Error(t, err)
			assert.Equal(t, DefaultConfig(), cfg)
		})
	}
}

func TestLoadExperiment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcwing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vortex:
  nalu_input: DES/mcalisterWing64M.i
  chord: 2
  experiment:
    ux: exp_data/ux_x4.txt
    uz: exp_data/uz_x4.txt
`), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	vs, err := cfg.VortexSettings()
	require.NoError(t, err)
	assert.Equal(t, "DES/mcalisterWing64M.i", vs.NaluInput)
	assert.Equal(t, 2.0, vs.Chord)
	require.NotNil(t, vs.Experiment)
	assert.Equal(t, "exp_data/ux_x4.txt", vs.Experiment.UX)
	assert.Equal(t, "exp_data/uz_x4.txt", vs.Experiment.UZ)
	assert.Equal(t, ExperimentScale, vs.Experiment.Scale)
	assert.Equal(t, ExperimentShift, vs.Experiment.Shift)

	vs, err = DefaultConfig().VortexSettings()
	require.NoError(t, err)
	assert.Nil(t, vs.Experiment)
	assert.Empty(t, vs.NaluInput)
	assert.Equal(t, 1.0, vs.Chord)
}

func TestStyleDisabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Style())

	cfg.Vortex.Schema = "unknown"
	_, err := cfg.VortexSettings()
	assert.Error(t, err)
}
