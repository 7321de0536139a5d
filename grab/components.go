package grab

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/rotisserie/eris"
)

// Bool is a one byte boolean with a fixed binary layout.
type Bool uint8

const (
	False Bool = 0
	True  Bool = 1
)

// BoolOf converts a bool.
func BoolOf(b bool) Bool {
	if b {
		return True
	}
	return False
}

// Bool reports whether b is set. Any non-zero byte is true.
func (b Bool) Bool() bool {
	return b != False
}

func (b Bool) String() string {
	if b.Bool() {
		return "true"
	}
	return "false"
}

func (b Bool) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bool) UnmarshalText(text []byte) error {
	switch string(text) {
	case "true", "1":
		*b = True
	case "false", "0", "":
		*b = False
	default:
		return eris.Errorf("invalid bool %q", text)
	}
	return nil
}

// FocusTarget marks an entity that pointer owners can grab. Owner is the
// pointer owner holding the lock, or ecs.NullEntity when the target is free.
// Position is the last position the owner dragged the target to.
type FocusTarget struct {
	Position mgl64.Vec3
	Owner    ecs.EntityId
}

// Touch is the pointer sample resolved for an owner during the current tick.
type Touch struct {
	Position  mgl64.Vec3
	Active    Bool
	HitTarget ecs.EntityId
}

// PointerOwner is one user or pointer source. FocusTarget mirrors the Owner
// field of the target it holds. View is the camera entity used to turn screen
// coordinates into world rays.
type PointerOwner struct {
	FocusTarget ecs.EntityId
	View        ecs.EntityId
	Touch       Touch
}

// Holding reports whether the owner currently holds a focus lock.
func (p *PointerOwner) Holding() bool {
	return !p.FocusTarget.IsNull()
}

// PointerInput is the raw pointer state for an owner, written by the input
// layer before each tick. Screen has its origin at the top-left of the view.
type PointerInput struct {
	Screen  mgl64.Vec2
	Pressed bool
}
