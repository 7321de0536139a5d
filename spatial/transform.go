package spatial

import "github.com/go-gl/mathgl/mgl64"

// Transform is the world pose of a movable entity. Only translation is tracked.
type Transform struct {
	Position mgl64.Vec3
}
