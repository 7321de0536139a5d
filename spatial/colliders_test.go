package spatial_test

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expiringContext reports cancellation after a fixed number of Err checks.
type expiringContext struct {
	context.Context
	checks int
}

func (c *expiringContext) Err() error {
	if c.checks <= 0 {
		return context.DeadlineExceeded
	}
	c.checks--
	return nil
}

func newColliderWorld() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	spatial.RegisterColliders(registry)
	return ecs.NewStorage(registry)
}

func TestColliderOracle(t *testing.T) {
	ctx := context.Background()
	forward := mgl64.Vec3{0, 0, 1}

	t.Run("miss on empty world", func(t *testing.T) {
		oracle := spatial.NewColliderOracle(newColliderWorld())
		hit, err := oracle.Cast(ctx, mgl64.Vec3{}, forward, 100)
		require.NoError(t, err)
		assert.True(t, hit.IsNull())
	})

	t.Run("nearest sphere wins", func(t *testing.T) {
		storage := newColliderWorld()
		far := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 20}}, spatial.SphereCollider{Radius: 1})
		near := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 10}}, spatial.SphereCollider{Radius: 1})
		storage.Spawn(spatial.Transform{Position: mgl64.Vec3{5, 0, 5}}, spatial.SphereCollider{Radius: 1})

		oracle := spatial.NewColliderOracle(storage)
		hit, err := oracle.Cast(ctx, mgl64.Vec3{}, forward, 100)
		require.NoError(t, err)
		assert.Equal(t, near, hit)

		storage.Delete(near)
		hit, err = oracle.Cast(ctx, mgl64.Vec3{}, forward, 100)
		require.NoError(t, err)
		assert.Equal(t, far, hit)
	})

	t.Run("box slab test", func(t *testing.T) {
		storage := newColliderWorld()
		box := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 8}}, spatial.BoxCollider{HalfExtents: mgl64.Vec3{1, 1, 1}})

		oracle := spatial.NewColliderOracle(storage)
		hit, err := oracle.Cast(ctx, mgl64.Vec3{0.5, -0.5, 0}, forward, 100)
		require.NoError(t, err)
		assert.Equal(t, box, hit)

		hit, err = oracle.Cast(ctx, mgl64.Vec3{2, 0, 0}, forward, 100)
		require.NoError(t, err)
		assert.True(t, hit.IsNull())
	})

	t.Run("max distance bounds the cast", func(t *testing.T) {
		storage := newColliderWorld()
		storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 10}}, spatial.SphereCollider{Radius: 1})

		oracle := spatial.NewColliderOracle(storage)
		hit, err := oracle.Cast(ctx, mgl64.Vec3{}, forward, 8)
		require.NoError(t, err)
		assert.True(t, hit.IsNull())

		hit, err = oracle.Cast(ctx, mgl64.Vec3{}, forward, 9)
		require.NoError(t, err)
		assert.False(t, hit.IsNull())
	})

	t.Run("objects behind the origin are ignored", func(t *testing.T) {
		storage := newColliderWorld()
		storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, -10}}, spatial.SphereCollider{Radius: 1})
		storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, -10}}, spatial.BoxCollider{HalfExtents: mgl64.Vec3{1, 1, 1}})

		hit, err := spatial.NewColliderOracle(storage).Cast(ctx, mgl64.Vec3{}, forward, 100)
		require.NoError(t, err)
		assert.True(t, hit.IsNull())
	})

	t.Run("equal distances go to the lower id", func(t *testing.T) {
		storage := newColliderWorld()
		a := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 10}}, spatial.SphereCollider{Radius: 1})
		b := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 10}}, spatial.SphereCollider{Radius: 1})
		lower := min(a, b)

		hit, err := spatial.NewColliderOracle(storage).Cast(ctx, mgl64.Vec3{}, forward, 100)
		require.NoError(t, err)
		assert.Equal(t, lower, hit)
	})

	t.Run("unnormalized direction", func(t *testing.T) {
		storage := newColliderWorld()
		target := storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, 10}}, spatial.SphereCollider{Radius: 1})

		hit, err := spatial.NewColliderOracle(storage).Cast(ctx, mgl64.Vec3{}, mgl64.Vec3{0, 0, 25}, 9.5)
		require.NoError(t, err)
		assert.Equal(t, target, hit)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := spatial.NewColliderOracle(newColliderWorld()).Cast(cancelled, mgl64.Vec3{}, forward, 100)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancellation stops the scan", func(t *testing.T) {
		storage := newColliderWorld()
		for i := range 10 {
			storage.Spawn(spatial.Transform{Position: mgl64.Vec3{0, 0, float64(10 + i)}}, spatial.SphereCollider{Radius: 1})
		}

		expiring := &expiringContext{Context: ctx, checks: 3}
		hit, err := spatial.NewColliderOracle(storage).Cast(expiring, mgl64.Vec3{}, forward, 100)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, hit.IsNull())
		assert.Zero(t, expiring.checks)
	})
}

func TestCameraRayHitsScreenTarget(t *testing.T) {
	storage := newColliderWorld()
	camera := testCamera()

	screen := mgl64.Vec2{600, 150}
	target := storage.Spawn(
		spatial.Transform{Position: camera.ScreenToWorld(screen, 30)},
		spatial.SphereCollider{Radius: 0.5},
	)

	ray := spatial.RayThrough(camera, camera.ScreenToWorld(screen, 15))
	hit, err := spatial.CastRay(context.Background(), spatial.NewColliderOracle(storage), ray, camera.Far())
	require.NoError(t, err)
	assert.Equal(t, target, hit)
}
