// Package mcwing post-processes sampled CFD output of the McAlister wing
// simulations. It averages sharded slice files over the trailing time steps,
// extracts lineouts through the tip vortex core and computes the surface
// pressure coefficient around spanwise cuts of the wing.
package mcwing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marchdf/mcwing/dataloader"
	"github.com/marchdf/mcwing/steps"
)

// Result is the outcome of an averaging run.
type Result struct {
	RunID string
	Steps []int             // Steps that were averaged, ascending
	Table *dataloader.Table // Empty if no steps were found
}

// Average selects the trailing steps of the source, merges the shards of each
// step and averages them by location. The averaged table is written to
// set.Output when it is set.
func Average(ctx context.Context, set *AverageSettings, logger *zap.Logger) (*Result, error) {
	if set.Averager == nil {
		return nil, errors.New("mcwing: no averager")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	res := &Result{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run", res.RunID))

	catalog, selected, err := steps.Select(set.Source, set.Window)
	if err != nil {
		return nil, err
	}
	logger.Info("steps selected",
		zap.String("pattern", set.Source.Pattern()),
		zap.Int("available", catalog.Len()),
		zap.Ints("steps", selected),
	)
	if len(selected) == 0 {
		if set.RequireSteps {
			return nil, fmt.Errorf("%s: %w", set.Source.Pattern(), ErrEmptyResult)
		}
		logger.Warn("no steps to average")
		res.Table = &dataloader.Table{}
		return res, nil
	}
	res.Steps = selected

	tables, err := LoadSteps(ctx, StepDatasets(catalog, selected, set.Format), set.Workers, logger)
	if err != nil {
		return nil, err
	}
	res.Table, err = set.Averager.Average(tables)
	if err != nil {
		return nil, err
	}
	logger.Info("averaged", zap.Int("locations", res.Table.Len()))

	if set.Output != "" {
		if err := dataloader.WriteFile(set.Output, res.Table); err != nil {
			return nil, err
		}
		logger.Info("averaged table written", zap.String("path", set.Output))
	}
	return res, nil
}
