package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
)

// Camera is a view that maps screen pixels into world space. Screen
// coordinates have their origin at the top-left corner of the viewport with
// y growing downwards.
type Camera struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Up       mgl64.Vec3

	// FOV is the vertical field of view in degrees. Ignored when OrthoSize > 0.
	FOV float64
	// OrthoSize is half the vertical extent of an orthographic view. Zero
	// selects a perspective projection.
	OrthoSize float64

	Width, Height float64
	Near, FarClip float64
}

// NewPerspectiveCamera returns a camera at position looking at target.
func NewPerspectiveCamera(position, target mgl64.Vec3, fov, width, height float64) Camera {
	return Camera{
		Position: position,
		Forward:  target.Sub(position).Normalize(),
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      fov,
		Width:    width,
		Height:   height,
		Near:     0.3,
		FarClip:  1000,
	}
}

// Validate reports whether the camera can be used for screen/world mapping.
func (c Camera) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return eris.Wrapf(ErrInvalidCamera, "viewport %vx%v", c.Width, c.Height)
	case c.Forward.Len() == 0:
		return eris.Wrap(ErrInvalidCamera, "zero forward vector")
	case c.Forward.Cross(c.Up).Len() == 0:
		return eris.Wrap(ErrInvalidCamera, "up vector is parallel to forward")
	case c.FarClip <= c.Near || c.Near < 0:
		return eris.Wrapf(ErrInvalidCamera, "clip range [%v, %v]", c.Near, c.FarClip)
	case c.OrthoSize == 0 && (c.FOV <= 0 || c.FOV >= 180):
		return eris.Wrapf(ErrInvalidCamera, "field of view %v", c.FOV)
	case c.OrthoSize < 0:
		return eris.Wrapf(ErrInvalidCamera, "orthographic size %v", c.OrthoSize)
	}
	return nil
}

// Far is the maximum distance a ray cast from this camera should travel.
func (c Camera) Far() float64 {
	return c.FarClip
}

// Aspect is the viewport width over height.
func (c Camera) Aspect() float64 {
	return c.Width / c.Height
}

// basis returns the orthonormal forward, right and up vectors of the camera.
func (c Camera) basis() (forward, right, up mgl64.Vec3) {
	forward = c.Forward.Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// ScreenToWorld maps a screen pixel to the world point depth units in front
// of the camera plane.
func (c Camera) ScreenToWorld(screen mgl64.Vec2, depth float64) mgl64.Vec3 {
	forward, right, up := c.basis()

	ndcX := 2*screen.X()/c.Width - 1
	ndcY := 1 - 2*screen.Y()/c.Height

	var halfHeight, halfWidth float64
	if c.OrthoSize > 0 {
		halfHeight = c.OrthoSize
		halfWidth = halfHeight * c.Aspect()
		return c.Position.
			Add(forward.Mul(depth)).
			Add(right.Mul(ndcX * halfWidth)).
			Add(up.Mul(ndcY * halfHeight))
	}

	halfHeight = math.Tan(mgl64.DegToRad(c.FOV) / 2)
	halfWidth = halfHeight * c.Aspect()
	offset := forward.
		Add(right.Mul(ndcX * halfWidth)).
		Add(up.Mul(ndcY * halfHeight))
	return c.Position.Add(offset.Mul(depth))
}

// ViewMatrix is the world-to-camera transform.
func (c Camera) ViewMatrix() mgl64.Mat4 {
	forward, _, up := c.basis()
	return mgl64.LookAtV(c.Position, c.Position.Add(forward), up)
}

// Projection is the camera-to-clip transform.
func (c Camera) Projection() mgl64.Mat4 {
	if c.OrthoSize > 0 {
		halfWidth := c.OrthoSize * c.Aspect()
		return mgl64.Ortho(-halfWidth, halfWidth, -c.OrthoSize, c.OrthoSize, c.Near, c.FarClip)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect(), c.Near, c.FarClip)
}

// WorldToScreen projects a world point to a top-left-origin screen pixel.
// The returned bool is false for points behind the camera.
func (c Camera) WorldToScreen(world mgl64.Vec3) (mgl64.Vec2, bool) {
	forward, _, _ := c.basis()
	if c.OrthoSize == 0 && world.Sub(c.Position).Dot(forward) <= 0 {
		return mgl64.Vec2{}, false
	}
	win := mgl64.Project(world, c.ViewMatrix(), c.Projection(), 0, 0, int(c.Width), int(c.Height))
	return mgl64.Vec2{win.X(), c.Height - win.Y()}, true
}
