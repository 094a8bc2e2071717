// Package settings holds the named presets of the McAlister wing runs and
// the YAML configuration that selects and overrides them.
package settings

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/marchdf/mcwing"
	"github.com/marchdf/mcwing/average"
	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/steps"
)

// Missing is returned when a preset name is unknown.
type Missing struct {
	Prefix  string
	Options []string
}

func (m Missing) Error() string {
	return fmt.Sprintf("%s: acceptable options: %v", m.Prefix, m.Options)
}

func init() {
	sortedAverages = append(sortedAverages, VortexSlices)
	sortedAverages = append(sortedAverages, WingSlices)
	sort.Strings(sortedAverages)

	sortedSchemas = append(sortedSchemas, NaluVortex)
	sortedSchemas = append(sortedSchemas, NaluWing)
	sort.Strings(sortedSchemas)
}

// Averaging presets.
const (
	VortexSlices = "vortex_slices"
	WingSlices   = "wing_slices"
)

// Schema presets.
const (
	NaluVortex = "nalu_vortex"
	NaluWing   = "nalu_wing"
)

// Shard naming and output of the slice runs.
const (
	ShardPrefix   = "output"
	ShardSuffix   = ".csv"
	AverageOutput = "avg_slice.csv"
)

// MirrorTolerance is the spanwise distance below which mirrored wing samples
// are put on the symmetry plane.
const MirrorTolerance = 1e-16

// Mapping of the measured vortex lineouts onto the mesh: millimeters to feet,
// then the offset of the measurement origin in feet.
const (
	ExperimentScale = 0.003281
	ExperimentShift = 0.0749174
)

var sortedAverages []string
var sortedSchemas []string

// GetAverage returns the averaging settings of a preset for the slices
// written in dir. The averaged table is written next to the shards.
func GetAverage(name, dir string) (*mcwing.AverageSettings, error) {
	a := &average.Averager{
		Coordinates: dataloader.NaluCoordinates,
		StepColumn:  dataloader.NaluStepColumn,
	}
	switch name {
	default:
		return nil, Missing{
			Prefix:  "average setting not found",
			Options: sortedAverages,
		}
	case VortexSlices:
	case WingSlices:
		// The wing slices are sampled on both sides of the symmetry plane.
		a.Stages = []average.Stage{
			average.Mirror{Column: dataloader.NaluCoordinates[1], Tolerance: MirrorTolerance},
		}
	}
	return &mcwing.AverageSettings{
		Source:   steps.Source{Dir: dir, Prefix: ShardPrefix, Suffix: ShardSuffix},
		Window:   steps.DefaultWindow,
		Format:   &dataloader.NaiveCSV{},
		Averager: a,
		Output:   filepath.Join(dir, AverageOutput),
	}, nil
}

// GetSchema returns the column mapping of a preset.
func GetSchema(name string) (dataloader.Schema, error) {
	switch name {
	default:
		return dataloader.Schema{}, Missing{
			Prefix:  "schema setting not found",
			Options: sortedSchemas,
		}
	case NaluVortex:
		return dataloader.NaluVortex(), nil
	case NaluWing:
		return dataloader.NaluWing(), nil
	}
}
