package spatial

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
)

// Oracle answers ray-cast queries against the world. Cast returns the nearest
// entity hit by the ray within maxDistance, or ecs.NullEntity on a miss. A
// non-nil error means the query could not be answered at all.
type Oracle interface {
	Cast(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error)

func (f OracleFunc) Cast(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error) {
	return f(ctx, origin, direction, maxDistance)
}

// CastRay is a convenience wrapper for casting a Ray.
func CastRay(ctx context.Context, oracle Oracle, ray Ray, maxDistance float64) (ecs.EntityId, error) {
	return oracle.Cast(ctx, ray.Origin, ray.Direction, maxDistance)
}
