package spatial

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
)

// SphereCollider makes an entity hittable as a sphere around its Transform.
type SphereCollider struct {
	Offset mgl64.Vec3
	Radius float64
}

// BoxCollider makes an entity hittable as an axis-aligned box around its Transform.
type BoxCollider struct {
	Offset      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// RegisterColliders registers the components ColliderOracle reads.
func RegisterColliders(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[SphereCollider](registry)
	ecs.RegisterComponent[BoxCollider](registry)
}

type colliderView struct {
	Id ecs.EntityId
	*Transform
	Sphere *SphereCollider `ecs:"optional"`
	Box    *BoxCollider    `ecs:"optional"`
}

// ColliderOracle ray-tests every entity carrying a Transform and a
// SphereCollider or BoxCollider. The nearest hit wins; equal distances go to
// the lower entity id. Casts only read the storage, so concurrent casts are
// safe as long as nothing changes the world's structure meanwhile.
type ColliderOracle struct {
	view *ecs.View[colliderView]
}

// NewColliderOracle creates an oracle over storage.
func NewColliderOracle(storage *ecs.Storage) *ColliderOracle {
	return &ColliderOracle{view: ecs.NewView[colliderView](storage)}
}

func (o *ColliderOracle) Cast(ctx context.Context, origin, direction mgl64.Vec3, maxDistance float64) (ecs.EntityId, error) {
	if err := ctx.Err(); err != nil {
		return ecs.NullEntity, err
	}

	ray := NewRay(origin, direction)
	if ray.Direction.Len() == 0 || maxDistance <= 0 {
		return ecs.NullEntity, nil
	}

	best := ecs.NullEntity
	bestDistance := math.Inf(1)

	for id, item := range o.view.Iter() {
		if err := ctx.Err(); err != nil {
			return ecs.NullEntity, err
		}
		distance, ok := math.Inf(1), false
		if item.Sphere != nil {
			if t, hit := intersectSphere(ray, item.Position.Add(item.Sphere.Offset), item.Sphere.Radius); hit {
				distance, ok = t, true
			}
		}
		if item.Box != nil {
			if t, hit := intersectBox(ray, item.Position.Add(item.Box.Offset), item.Box.HalfExtents); hit && t < distance {
				distance, ok = t, true
			}
		}
		if !ok || distance > maxDistance {
			continue
		}
		if distance < bestDistance || (distance == bestDistance && id < best) {
			best, bestDistance = id, distance
		}
	}

	return best, nil
}

// intersectSphere returns the distance along the ray to the first surface
// crossing, or zero when the origin is inside the sphere.
func intersectSphere(ray Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// intersectBox is the slab test against an axis-aligned box.
func intersectBox(ray Ray, center, halfExtents mgl64.Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		lo := center[axis] - halfExtents[axis]
		hi := center[axis] + halfExtents[axis]
		o, d := ray.Origin[axis], ray.Direction[axis]

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
