package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query fields
// for accessing entities, as well as custom state fields that persist between frames.
// A system that cannot complete part of its work reports it with frame.Fail.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
