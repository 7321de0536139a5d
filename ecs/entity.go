package ecs

import "fmt"

// EntityId is a stable entity handle: the slot generation in the upper 32 bits
// and the entity index in the lower 32 bits. Adding or removing components
// moves the entity between archetypes but never changes its id.
type EntityId uint64

// NullEntity is the absent entity. No live entity ever has this id because
// slot generations start at 1.
const NullEntity EntityId = 0

// NewEntityId creates an EntityId from a slot generation and entity index
func NewEntityId(generation, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation the id was issued for
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index
func (e EntityId) Index() uint32 {
	return uint32(e)
}

func (e EntityId) IsNull() bool {
	return e == NullEntity
}

func (e EntityId) String() string {
	if e.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d@%d", e.Index(), e.Generation())
}

// entityLocation is where a live entity's components currently sit.
type entityLocation struct {
	archetype  *Archetype
	row        uint32
	generation uint32
	alive      bool
}

// nextGeneration advances a slot generation, skipping zero on wrap-around
func nextGeneration(g uint32) uint32 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}
