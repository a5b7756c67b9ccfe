package cli

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxParallel bounds the requests a bulk command has in flight
const maxParallel = 4

// fanOut calls fn for every arg, at most maxParallel at a time, and returns
// the results in argument order. The first error cancels the rest.
func fanOut[T any](ctx context.Context, args []string, fn func(context.Context, string) (T, error)) ([]T, error) {
	results := make([]T, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, arg := range args {
		g.Go(func() error {
			v, err := fn(ctx, arg)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
