package spatial

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half line with a unit-length direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay normalizes direction. A zero direction yields a zero ray direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	if direction.Len() == 0 {
		return Ray{Origin: origin}
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// RayThrough builds the ray the camera sees through a world point. A
// perspective ray starts at the camera position; an orthographic ray starts
// on the camera plane under the point and runs along the view direction.
func RayThrough(camera Camera, point mgl64.Vec3) Ray {
	if camera.OrthoSize > 0 {
		forward := camera.Forward.Normalize()
		depth := point.Sub(camera.Position).Dot(forward)
		return NewRay(point.Sub(forward.Mul(depth)), forward)
	}
	return NewRay(camera.Position, point.Sub(camera.Position))
}

// At returns the point t units along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
