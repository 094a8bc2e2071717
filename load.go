package mcwing

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marchdf/mcwing/average"
)

// LoadSteps loads the step datasets concurrently, with at most workers
// running at once. The tables are returned in dataset order. The first
// failure cancels the remaining loads.
func LoadSteps(ctx context.Context, sets []*StepDataset, workers int, logger *zap.Logger) ([]average.StepTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tables := make([]average.StepTable, len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, set := range sets {
		i, set := i, set
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := set.Load(ctx, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", set.ID(), err)
			}
			logger.Debug("step loaded",
				zap.Int("step", set.Step),
				zap.Int("shards", len(set.Shards)),
				zap.Int("rows", t.Len()),
			)
			tables[i] = average.StepTable{Step: set.Step, Table: t}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
