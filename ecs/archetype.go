package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types.
// Every column shares the same row for a given entity. Rows are recycled
// through a free list; the entity living in a row is recorded so iteration
// can hand out stable ids.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	entities []EntityId
	freeRows []uint32
	count    int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// insert places the entity's components in a free row and returns it.
func (a *Archetype) insert(id EntityId, components []any) uint32 {
	var row uint32
	if n := len(a.freeRows); n > 0 {
		row = a.freeRows[n-1]
		a.freeRows = a.freeRows[:n-1]
	} else {
		row = uint32(len(a.entities))
		a.entities = append(a.entities, NullEntity)
	}

	for _, comp := range components {
		idx := a.columnOf(componentType(comp))
		if idx == -1 {
			panic("component type " + componentType(comp).String() + " not in archetype " + a.String())
		}
		a.storages[idx].Set(int(row), comp)
	}

	a.entities[row] = id
	a.count++
	return row
}

// remove clears a row and returns it to the free list.
func (a *Archetype) remove(row uint32) {
	for _, storage := range a.storages {
		storage.Clear(int(row))
	}
	a.entities[row] = NullEntity
	a.freeRows = append(a.freeRows, row)
	a.count--
}

func (a *Archetype) component(row uint32, compType reflect.Type) any {
	idx := a.columnOf(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(row))
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	return a.count
}

func (a *Archetype) String() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, id := range a.rows() {
			if !yield(id) {
				return
			}
		}
	}
}

// rows yields every occupied row with the entity living in it
func (a *Archetype) rows() iter.Seq2[uint32, EntityId] {
	return func(yield func(uint32, EntityId) bool) {
		for row, id := range a.entities {
			if id.IsNull() {
				continue
			}
			if !yield(uint32(row), id) {
				return
			}
		}
	}
}

func (a *Archetype) columnOf(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}
