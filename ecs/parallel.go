package ecs

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the batch size used when ChunkOptions leaves it unset.
const DefaultChunkSize = 256

// ChunkOptions controls how ParallelChunks partitions a query snapshot.
type ChunkOptions struct {
	// Workers bounds the number of chunks processed at once. Zero means GOMAXPROCS.
	Workers int
	// ChunkSize is the number of entities per chunk. Zero means DefaultChunkSize.
	ChunkSize int
}

func (o ChunkOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o ChunkOptions) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return DefaultChunkSize
}

// ChunkFunc processes one contiguous slice of a query snapshot. ids[i] is the
// entity whose components are items[i]. Implementations must only write to
// components reachable from their own items.
type ChunkFunc[T any] func(ctx context.Context, ids []EntityId, items []T) error

// ParallelChunks splits the query's current snapshot into chunks and runs fn
// over them on a bounded worker group. It returns once every chunk has
// finished, so callers can treat the return as a barrier. The first error
// cancels the context handed to the remaining chunks and is returned.
func ParallelChunks[T any](ctx context.Context, q *Query[T], opts ChunkOptions, fn ChunkFunc[T]) error {
	ids, items := q.snapshot()
	if len(ids) == 0 {
		return nil
	}

	size := opts.chunkSize()
	if len(ids) <= size || opts.workers() == 1 {
		for start := 0; start < len(ids); start += size {
			end := min(start+size, len(ids))
			if err := fn(ctx, ids[start:end], items[start:end]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunkIds, chunkItems := ids[start:end], items[start:end]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, chunkIds, chunkItems)
		})
	}

	return g.Wait()
}
