package grab_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/grab"
	"github.com/plus3/grabfocus/spatial"
	"github.com/stretchr/testify/require"
)

var (
	centre = mgl64.Vec2{400, 300}
	corner = mgl64.Vec2{20, 20}
)

func testCamera() spatial.Camera {
	return spatial.Camera{
		Forward: mgl64.Vec3{0, 0, 1},
		Up:      mgl64.Vec3{0, 1, 0},
		FOV:     90,
		Width:   800,
		Height:  600,
		Near:    0.1,
		FarClip: 100,
	}
}

// countingOracle counts casts before delegating.
type countingOracle struct {
	next  spatial.Oracle
	casts atomic.Int64
}

func (o *countingOracle) Cast(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error) {
	o.casts.Add(1)
	return o.next.Cast(ctx, origin, direction, maxDistance)
}

type fixture struct {
	world  *grab.World
	oracle *countingOracle
	camera spatial.Camera
	view   ecs.EntityId
}

func newFixture(t *testing.T, opts ...grab.Option) *fixture {
	t.Helper()
	f := &fixture{oracle: &countingOracle{}, camera: testCamera()}

	opts = append([]grab.Option{grab.WithOracle(f.oracle)}, opts...)
	f.world = grab.NewWorld(opts...)
	f.oracle.next = spatial.NewColliderOracle(f.world.Storage)

	view, err := grab.SpawnCamera(f.world.Storage, f.camera)
	require.NoError(t, err)
	f.view = view
	return f
}

func (f *fixture) owner(t *testing.T) ecs.EntityId {
	t.Helper()
	id, err := grab.SpawnPointerOwner(f.world.Storage, f.view)
	require.NoError(t, err)
	return id
}

// targetAt spawns a sphere target under the given screen point, depth units
// away from the camera.
func (f *fixture) targetAt(screen mgl64.Vec2, depth float64) ecs.EntityId {
	return grab.SpawnFocusTarget(f.world.Storage,
		spatial.Transform{Position: f.camera.ScreenToWorld(screen, depth)},
		spatial.SphereCollider{Radius: 1},
	)
}

func (f *fixture) touch(screen mgl64.Vec2) mgl64.Vec3 {
	return f.camera.ScreenToWorld(screen, grab.DefaultTouchDepth)
}

func (f *fixture) point(t *testing.T, owner ecs.EntityId, screen mgl64.Vec2, pressed bool) {
	t.Helper()
	require.True(t, grab.SetPointer(f.world.Storage, owner, screen, pressed))
}

func (f *fixture) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, f.world.Tick(1.0/60))
	require.NoError(t, grab.CheckConsistency(f.world.Storage))
}

func (f *fixture) ownerState(owner ecs.EntityId) *grab.PointerOwner {
	return ecs.ReadComponent[grab.PointerOwner](f.world.Storage, owner)
}

func (f *fixture) focus(target ecs.EntityId) *grab.FocusTarget {
	return ecs.ReadComponent[grab.FocusTarget](f.world.Storage, target)
}

func (f *fixture) position(target ecs.EntityId) mgl64.Vec3 {
	return ecs.ReadComponent[spatial.Transform](f.world.Storage, target).Position
}
