package mcwing

import (
	"github.com/marchdf/mcwing/average"
	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/render"
	"github.com/marchdf/mcwing/steps"
	"github.com/marchdf/mcwing/vortex"
)

// AverageSettings describes one temporal averaging run over a directory of
// sharded slice files.
type AverageSettings struct {
	Source   steps.Source
	Window   int               // Number of trailing steps, DefaultWindow if <= 0
	Format   dataloader.Format // Shard format, NaiveCSV if nil
	Averager *average.Averager
	Output   string // Path of the averaged table, not written if empty
	Workers  int    // Maximum concurrent shard reads, GOMAXPROCS if <= 0

	// RequireSteps turns an empty directory into ErrEmptyResult instead of
	// an empty result.
	RequireSteps bool
}

// VortexSettings describes the post-processing of averaged x-normal slices.
type VortexSettings struct {
	Input   string // Averaged slice table
	Format  dataloader.Format
	Schema  dataloader.Schema
	Columns vortex.Columns
	Slices  []float64 // x locations to process, all of them if empty
	Ninterp int       // Points per lineout
	Contour int       // Contour grid resolution, no contours if zero

	// NaluInput holds the inflow velocity u0. When set, the lineouts are
	// also written and drawn as u/u0 against y/Chord.
	NaluInput  string
	Chord      float64     // 1 if <= 0
	Experiment *Experiment // Drawn on the normalized figures, needs NaluInput

	OutputDir string
	Style     *render.Style // Figures are drawn when non-nil
}

// Experiment points at measured lineouts through the vortex core. Each file
// has a header line, then y and the velocity over u0 in the first two
// columns. Measured y is mapped onto the mesh by (y*Scale - Shift) / chord.
type Experiment struct {
	Label  string // "Exp." if empty
	UX, UZ string // Either may be empty
	Scale  float64
	Shift  float64
}

// WingSettings describes the post-processing of averaged wing surface slices.
type WingSettings struct {
	Input     string // Averaged slice table
	NaluInput string // Nalu input file holding the reference conditions
	Format    dataloader.Format
	Schema    dataloader.Schema

	OutputDir string
	Style     *render.Style
}
