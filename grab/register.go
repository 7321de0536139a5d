package grab

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/spatial"
	"github.com/rotisserie/eris"
)

// RegisterComponents registers every component the grab systems touch,
// including the spatial components read by the collider oracle.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[FocusTarget](registry)
	ecs.RegisterComponent[PointerOwner](registry)
	ecs.RegisterComponent[PointerInput](registry)
	ecs.RegisterComponent[spatial.Camera](registry)
	spatial.RegisterColliders(registry)
}

// SpawnFocusTarget creates a grabbable entity. The target starts unfocused.
// Extra components, such as a collider, are attached alongside.
func SpawnFocusTarget(storage *ecs.Storage, transform spatial.Transform, extra ...any) ecs.EntityId {
	components := make([]any, 0, len(extra)+2)
	components = append(components, FocusTarget{}, transform)
	components = append(components, extra...)
	return storage.Spawn(components...)
}

// SpawnCamera creates a view entity after validating the camera.
func SpawnCamera(storage *ecs.Storage, camera spatial.Camera) (ecs.EntityId, error) {
	if err := camera.Validate(); err != nil {
		return ecs.NullEntity, err
	}
	return storage.Spawn(camera), nil
}

// SpawnPointerOwner creates an owner bound to view, which must be a live
// entity carrying a spatial.Camera.
func SpawnPointerOwner(storage *ecs.Storage, view ecs.EntityId) (ecs.EntityId, error) {
	if _, err := lookupView(storage, view); err != nil {
		return ecs.NullEntity, err
	}
	return storage.Spawn(PointerOwner{View: view}, PointerInput{}), nil
}

func lookupView(reader ecs.ComponentReader, view ecs.EntityId) (*spatial.Camera, error) {
	if view.IsNull() {
		return nil, eris.Wrap(ErrMissingView, "view is null")
	}
	camera, ok := ecs.ReadComponentOk[spatial.Camera](reader, view)
	if !ok {
		return nil, eris.Wrapf(ErrMissingView, "view %s has no camera", view)
	}
	return camera, nil
}

// SetPointer writes the pointer state the resolver reads on the next tick.
// It returns false if owner is not a live pointer owner.
func SetPointer(storage *ecs.Storage, owner ecs.EntityId, screen mgl64.Vec2, pressed bool) bool {
	input, ok := ecs.ReadComponentOk[PointerInput](storage, owner)
	if !ok {
		return false
	}
	input.Screen = screen
	input.Pressed = pressed
	return true
}
