package grab

import (
	"context"

	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/spatial"
)

type propagateItem = struct {
	*FocusTarget
	*spatial.Transform
}

// TransformPropagatorSystem copies the focus position of every focused target
// into its Transform. FocusTarget is only read here. Targets are independent,
// so the pass is split into chunks that run in parallel; the system returns
// only after all chunks have.
type TransformPropagatorSystem struct {
	Targets ecs.Query[propagateItem]

	Workers   int
	ChunkSize int
}

// NewTransformPropagator returns a propagator using the given parallelism.
func NewTransformPropagator(workers, chunkSize int) *TransformPropagatorSystem {
	return &TransformPropagatorSystem{
		Workers:   workers,
		ChunkSize: chunkSize,
	}
}

func (s *TransformPropagatorSystem) Execute(frame *ecs.UpdateFrame) {
	ctx := frame.Context
	if ctx == nil {
		ctx = context.Background()
	}

	opts := ecs.ChunkOptions{Workers: s.Workers, ChunkSize: s.ChunkSize}
	err := ecs.ParallelChunks(ctx, &s.Targets, opts, func(ctx context.Context, _ []ecs.EntityId, items []propagateItem) error {
		for _, item := range items {
			if item.FocusTarget.IsFocused() {
				item.Transform.Position = item.FocusTarget.Position
			}
		}
		return ctx.Err()
	})
	if err != nil {
		frame.Fail(err)
	}
}
