package spatial

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/rotisserie/eris"
)

// BoundedOracle limits how long a single cast may take. The wrapped oracle
// runs on its own goroutine under a deadline context. When the budget runs
// out the context is cancelled, the goroutine is drained and the cast returns
// ErrOracleTimeout. Wrapped oracles must stop promptly once ctx is done; the
// cast never outlives the call, so it cannot overlap later phases of the tick.
// A zero Timeout passes casts straight through.
type BoundedOracle struct {
	Oracle  Oracle
	Timeout time.Duration
}

type castResult struct {
	id  ecs.EntityId
	err error
}

func (b BoundedOracle) Cast(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error) {
	if b.Timeout <= 0 {
		return b.Oracle.Cast(ctx, origin, direction, maxDistance)
	}

	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	done := make(chan castResult, 1)
	go func() {
		id, err := b.Oracle.Cast(ctx, origin, direction, maxDistance)
		done <- castResult{id: id, err: err}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			return ecs.NullEntity, b.mapErr(ctx, result.err)
		}
		return result.id, nil
	case <-ctx.Done():
		cancel()
		<-done
		return ecs.NullEntity, b.mapErr(ctx, ctx.Err())
	}
}

func (b BoundedOracle) mapErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return eris.Wrapf(ErrOracleTimeout, "after %s", b.Timeout)
	}
	return err
}
