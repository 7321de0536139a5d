package ecs

// iComponentStorage is an interface for a type-erased component column.
// Slot allocation and liveness belong to the owning Archetype; a column only
// stores values at the indices it is given.
type iComponentStorage interface {
	Set(index int, item any) bool
	Clear(index int)
	Get(index int) any
}
