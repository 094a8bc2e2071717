package dataloader

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Merger concatenates sharded tables.
type Merger struct {
	Format  Format      // Defaults to a comma separated NaiveCSV
	Workers int         // Maximum concurrent reads, defaults to GOMAXPROCS
	Logger  *zap.Logger // May be nil
}

func (m *Merger) format() Format {
	if m.Format == nil {
		return &NaiveCSV{}
	}
	return m.Format
}

func (m *Merger) workers() int {
	if m.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return m.Workers
}

func (m *Merger) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}

// Merge reads the shards concurrently and concatenates them in path order.
// Shards without data rows are skipped. A shard whose column set differs from
// the first non-empty shard fails the merge with a *SchemaMismatchError;
// shards with the same set in another order are reordered to match. If no
// shard holds data the result is an empty table with no columns.
func (m *Merger) Merge(ctx context.Context, paths []string) (*Table, error) {
	logger := m.logger()
	format := m.format()

	tables := make([]*Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := format.ReadTable(path)
			if errors.Is(err, ErrEmpty) {
				logger.Debug("skipping empty shard", zap.String("path", path))
				return nil
			}
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := concat(paths, tables)
	if err != nil {
		return nil, err
	}
	logger.Debug("merged shards",
		zap.Int("shards", len(paths)),
		zap.Int("rows", merged.Len()),
	)
	return merged, nil
}

// concat concatenates tables with the same column set, in order, into a new
// table with the columns of the first non-nil table. Nil tables are skipped.
func concat(names []string, tables []*Table) (*Table, error) {
	var out *Table
	total := 0
	for _, t := range tables {
		total += t.Len()
	}
	for i, t := range tables {
		if t == nil {
			continue
		}
		if out == nil {
			out = NewTable(t.Columns)
			out.Rows = make([][]float64, 0, total)
			out.Rows = append(out.Rows, t.Rows...)
			continue
		}
		if !SameColumnSet(out.Columns, t.Columns) {
			name := ""
			if i < len(names) {
				name = names[i]
			}
			return nil, &SchemaMismatchError{Path: name, Want: out.Columns, Got: t.Columns}
		}
		perm := permutation(out.Columns, t.Columns)
		if isIdentity(perm) {
			out.Rows = append(out.Rows, t.Rows...)
			continue
		}
		for _, row := range t.Rows {
			newRow := make([]float64, len(perm))
			for j, p := range perm {
				newRow[j] = row[p]
			}
			out.Rows = append(out.Rows, newRow)
		}
	}
	if out == nil {
		return &Table{}, nil
	}
	return out, nil
}

// Merge is a convenience wrapper around Merger with default concurrency.
func Merge(ctx context.Context, paths []string, format Format, logger *zap.Logger) (*Table, error) {
	m := &Merger{Format: format, Logger: logger}
	return m.Merge(ctx, paths)
}
