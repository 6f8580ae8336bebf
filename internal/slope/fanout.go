package slope

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Result is one column's computed profile, ready to be folded into a chunk
// map by the caller.
type Result struct {
	Column  ColumnKey
	Height  int32
	Profile []RadiusStats
}

// ComputeAll fans out Profile over every column in columns using up to
// workers goroutines (runtime.NumCPU() when workers <= 0). The column map
// must not be mutated by any goroutine: it is treated as frozen for the
// duration of the call, per spec.md's concurrency model (C3 fan-out point).
func ComputeAll(ctx context.Context, columns map[ColumnKey]int32, maxRadius, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	keys := make([]ColumnKey, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}

	results := make([]Result, len(keys))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			height := columns[key]
			results[i] = Result{
				Column:  key,
				Height:  height,
				Profile: Profile(key.X, key.Z, height, columns, maxRadius),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
