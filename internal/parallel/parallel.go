// Package parallel provides bounded fan-out helpers for batch requests.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinBatchSize int  // Batches smaller than this run sequentially.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinBatchSize: 4,
	}
}

func (c Config) sequential(n int) bool {
	return !c.Enabled || c.NumWorkers < 2 || n < c.MinBatchSize
}

// Map applies f to every item and returns the results in input order.
//
// The first error cancels the context passed to the remaining calls and is
// returned; no partial results are returned with it.
func Map[T, R any](ctx context.Context, items []T, f func(ctx context.Context, item T) (R, error), cfg Config) ([]R, error) {
	out := make([]R, len(items))

	if cfg.sequential(len(items)) {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := f(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumWorkers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := f(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
