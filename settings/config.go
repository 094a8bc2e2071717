package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/marchdf/mcwing"
	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/render"
	"github.com/marchdf/mcwing/vortex"
)

// DefaultNinterp is the number of points on a vortex lineout.
const DefaultNinterp = 200

// Config is the YAML run configuration.
type Config struct {
	Workers int           `yaml:"workers"`
	Average AverageConfig `yaml:"average"`
	Vortex  VortexConfig  `yaml:"vortex"`
	Wing    WingConfig    `yaml:"wing"`
	Render  RenderConfig  `yaml:"render"`
}

// AverageConfig selects an averaging preset and overrides parts of it.
type AverageConfig struct {
	Preset       string  `yaml:"preset"`
	Dir          string  `yaml:"dir"`
	Window       int     `yaml:"window"`
	Output       string  `yaml:"output"` // Defaults to avg_slice.csv in Dir
	Quantum      float64 `yaml:"quantum"`
	DropStep     bool    `yaml:"drop_step"`
	RequireSteps bool    `yaml:"require_steps"`
}

// VortexConfig configures the vortex slice post-processing.
type VortexConfig struct {
	Input     string    `yaml:"input"`
	Schema    string    `yaml:"schema"`
	Slices    []float64 `yaml:"slices"`
	Ninterp   int       `yaml:"ninterp"`
	Contour   int       `yaml:"contour"`
	OutputDir string    `yaml:"output_dir"`

	NaluInput  string            `yaml:"nalu_input"` // Normalizes the lineouts when set
	Chord      float64           `yaml:"chord"`
	Experiment *ExperimentConfig `yaml:"experiment"`
}

// ExperimentConfig points at the measured lineouts through the core. Scale
// and Shift default to the millimeter to feet conversion and the offset
// that aligns the measurements with the mesh.
type ExperimentConfig struct {
	Label string  `yaml:"label"`
	UX    string  `yaml:"ux"`
	UZ    string  `yaml:"uz"`
	Scale float64 `yaml:"scale"`
	Shift float64 `yaml:"shift"`
}

// WingConfig configures the wing surface post-processing.
type WingConfig struct {
	Input     string `yaml:"input"`
	NaluInput string `yaml:"nalu_input"`
	Schema    string `yaml:"schema"`
	OutputDir string `yaml:"output_dir"`
}

// RenderConfig controls the figures. Sizes are in inches.
type RenderConfig struct {
	Enabled bool       `yaml:"enabled"`
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	Levels  [2]float64 `yaml:"levels"` // Quantiles bounding the contour colors
}

// DefaultConfig returns the configuration of the 68M vortex runs.
func DefaultConfig() Config {
	return Config{
		Average: AverageConfig{
			Preset: VortexSlices,
			Dir:    "vortex_slices",
			Window: 20,
		},
		Vortex: VortexConfig{
			Input:     filepath.Join("vortex_slices", AverageOutput),
			Schema:    NaluVortex,
			Ninterp:   DefaultNinterp,
			OutputDir: "vortex_pp",
			Chord:     1,
		},
		Wing: WingConfig{
			Input:     filepath.Join("wing_slices", AverageOutput),
			NaluInput: "mcalisterWing.i",
			Schema:    NaluWing,
			OutputDir: "wing_pp",
		},
		Render: RenderConfig{
			Width:  6,
			Height: 5,
			Levels: [2]float64{0, 1},
		},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return DefaultConfig(), err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the presets cannot fix up.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Average.Quantum < 0 {
		errs = append(errs, fmt.Errorf("average.quantum must not be negative, got %g", c.Average.Quantum))
	}
	if c.Vortex.Ninterp != 0 && c.Vortex.Ninterp < 2 {
		errs = append(errs, fmt.Errorf("vortex.ninterp must be at least 2, got %d", c.Vortex.Ninterp))
	}
	if c.Vortex.Contour < 0 {
		errs = append(errs, fmt.Errorf("vortex.contour must not be negative, got %d", c.Vortex.Contour))
	}
	if c.Vortex.Chord < 0 {
		errs = append(errs, fmt.Errorf("vortex.chord must not be negative, got %g", c.Vortex.Chord))
	}
	if c.Vortex.Experiment != nil && c.Vortex.NaluInput == "" {
		errs = append(errs, errors.New("vortex.experiment needs vortex.nalu_input"))
	}
	lo, hi := c.Render.Levels[0], c.Render.Levels[1]
	if lo < 0 || hi > 1 || lo >= hi {
		errs = append(errs, fmt.Errorf("render.levels must satisfy 0 <= lo < hi <= 1, got [%g, %g]", lo, hi))
	}
	return errors.Join(errs...)
}

// AverageSettings builds the averaging run of the configuration.
func (c Config) AverageSettings() (*mcwing.AverageSettings, error) {
	set, err := GetAverage(c.Average.Preset, c.Average.Dir)
	if err != nil {
		return nil, err
	}
	if c.Average.Window > 0 {
		set.Window = c.Average.Window
	}
	if c.Average.Output != "" {
		set.Output = c.Average.Output
	}
	set.Averager.Quantum = c.Average.Quantum
	set.Averager.DropStep = c.Average.DropStep
	set.RequireSteps = c.Average.RequireSteps
	set.Workers = c.Workers
	return set, nil
}

// VortexSettings builds the vortex post-processing run of the configuration.
func (c Config) VortexSettings() (*mcwing.VortexSettings, error) {
	schema, err := GetSchema(c.Vortex.Schema)
	if err != nil {
		return nil, err
	}
	ninterp := c.Vortex.Ninterp
	if ninterp == 0 {
		ninterp = DefaultNinterp
	}
	set := &mcwing.VortexSettings{
		Input:     c.Vortex.Input,
		Format:    &dataloader.NaiveCSV{},
		Schema:    schema,
		Columns:   vortex.DefaultColumns(),
		Slices:    c.Vortex.Slices,
		Ninterp:   ninterp,
		Contour:   c.Vortex.Contour,
		NaluInput: c.Vortex.NaluInput,
		Chord:     c.Vortex.Chord,
		OutputDir: c.Vortex.OutputDir,
		Style:     c.Style(),
	}
	if e := c.Vortex.Experiment; e != nil {
		set.Experiment = &mcwing.Experiment{
			Label: e.Label,
			UX:    e.UX,
			UZ:    e.UZ,
			Scale: e.Scale,
			Shift: e.Shift,
		}
		if set.Experiment.Scale == 0 {
			set.Experiment.Scale = ExperimentScale
		}
		if set.Experiment.Shift == 0 {
			set.Experiment.Shift = ExperimentShift
		}
	}
	return set, nil
}

// WingSettings builds the wing post-processing run of the configuration.
func (c Config) WingSettings() (*mcwing.WingSettings, error) {
	schema, err := GetSchema(c.Wing.Schema)
	if err != nil {
		return nil, err
	}
	return &mcwing.WingSettings{
		Input:     c.Wing.Input,
		NaluInput: c.Wing.NaluInput,
		Format:    &dataloader.NaiveCSV{},
		Schema:    schema,
		OutputDir: c.Wing.OutputDir,
		Style:     c.Style(),
	}, nil
}

// Style returns the figure style, or nil when rendering is disabled.
func (c Config) Style() *render.Style {
	if !c.Render.Enabled {
		return nil
	}
	s := render.DefaultStyle()
	if c.Render.Width > 0 {
		s.Width = vg.Length(c.Render.Width) * vg.Inch
	}
	if c.Render.Height > 0 {
		s.Height = vg.Length(c.Render.Height) * vg.Inch
	}
	s.Levels = c.Render.Levels
	return &s
}
