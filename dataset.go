package mcwing

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/steps"
)

// Dataset is a table that can be loaded from disk.
type Dataset interface {
	Load(ctx context.Context, logger *zap.Logger) (*dataloader.Table, error)
	ID() string
}

// StepDataset is the set of shards written for one time step.
type StepDataset struct {
	Step   int
	Shards []string // Paths in discovery order
	Format dataloader.Format
}

// ID returns the step index as a string.
func (s *StepDataset) ID() string { return "step " + strconv.Itoa(s.Step) }

// Load merges the shards of the step. Shard reads run sequentially here;
// steps are loaded concurrently by LoadSteps.
func (s *StepDataset) Load(ctx context.Context, logger *zap.Logger) (*dataloader.Table, error) {
	m := &dataloader.Merger{Format: s.Format, Workers: 1, Logger: logger}
	return m.Merge(ctx, s.Shards)
}

// StepDatasets returns one dataset per selected step, in step order.
func StepDatasets(c *steps.Catalog, selected []int, format dataloader.Format) []*StepDataset {
	sets := make([]*StepDataset, len(selected))
	for i, step := range selected {
		sets[i] = &StepDataset{
			Step:   step,
			Shards: c.Shards(step),
			Format: format,
		}
	}
	return sets
}
