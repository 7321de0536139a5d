package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes   *intmap.Map[uint32, *Archetype]
	entities     []entityLocation
	freeEntities []uint32
	registry     *ComponentRegistry
	singletons   map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](64),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) archetype(id uint32) *Archetype {
	archetype, _ := s.archetypes.Get(id)
	return archetype
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := hashTypesToUint32(types)
	archetype, exists := s.archetypes.Get(archetypeId)
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes.Put(archetypeId, archetype)
	}
	return archetype
}

// newEntity allocates an entity index, reusing freed ones under a new generation
func (s *Storage) newEntity() EntityId {
	var index uint32
	if n := len(s.freeEntities); n > 0 {
		index = s.freeEntities[n-1]
		s.freeEntities = s.freeEntities[:n-1]
	} else {
		index = uint32(len(s.entities))
		s.entities = append(s.entities, entityLocation{})
	}

	loc := &s.entities[index]
	loc.generation = nextGeneration(loc.generation)
	loc.alive = true
	return NewEntityId(loc.generation, index)
}

// locate returns the location of a live entity, or nil for null and stale ids.
// The pointer is only valid until the next entity is allocated.
func (s *Storage) locate(id EntityId) *entityLocation {
	if id.IsNull() {
		return nil
	}
	index := id.Index()
	if int(index) >= len(s.entities) {
		return nil
	}
	loc := &s.entities[index]
	if !loc.alive || loc.generation != id.Generation() {
		return nil
	}
	return loc
}

// Archetypes returns an iterator over every archetype created so far
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return s.archetypes.Values()
}

// ArchetypeCount returns the number of archetypes created so far
func (s *Storage) ArchetypeCount() int {
	return s.archetypes.Len()
}

// ArchetypeOf returns the archetype a live entity currently belongs to
func (s *Storage) ArchetypeOf(id EntityId) *Archetype {
	loc := s.locate(id)
	if loc == nil {
		return nil
	}
	return loc.archetype
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	return s.archetype(hashTypesToUint32(types))
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	return s.archetype(hashTypesToUint32(sorted))
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)
	id := s.newEntity()
	row := archetype.insert(id, components)

	loc := &s.entities[id.Index()]
	loc.archetype = archetype
	loc.row = row
	return id
}

// Alive reports whether id refers to a live entity
func (s *Storage) Alive(id EntityId) bool {
	return s.locate(id) != nil
}

// Delete removes all data related to the entity ID. Returns false when the id
// was already stale.
func (s *Storage) Delete(id EntityId) bool {
	loc := s.locate(id)
	if loc == nil {
		return false
	}
	loc.archetype.remove(loc.row)
	loc.archetype = nil
	loc.alive = false
	s.freeEntities = append(s.freeEntities, id.Index())
	return true
}

// move copies a live entity's components into the archetype for types, taking
// added from the argument instead of the old row, and frees the old row.
func (s *Storage) move(id EntityId, types []reflect.Type, added any) {
	loc := s.locate(id)
	from := loc.archetype

	var addedType reflect.Type
	if added != nil {
		addedType = componentType(added)
	}

	components := make([]any, 0, len(types))
	for _, typ := range types {
		if typ == addedType {
			components = append(components, added)
		} else {
			components = append(components, from.component(loc.row, typ))
		}
	}

	to := s.archetypeFor(types)
	row := to.insert(id, components)
	from.remove(loc.row)
	loc.archetype = to
	loc.row = row
}

// AddComponent attaches a component, moving the entity to a new archetype.
// The id stays valid and is returned; a stale id returns NullEntity. If the
// entity already carries the component type its value is overwritten in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	loc := s.locate(id)
	if loc == nil {
		return NullEntity
	}

	compType := componentType(component)
	if idx := loc.archetype.columnOf(compType); idx != -1 {
		loc.archetype.storages[idx].Set(int(loc.row), component)
		return id
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)+1)
	newTypes = append(newTypes, loc.archetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	s.move(id, newTypes, component)
	return id
}

// RemoveComponent detaches a component, moving the entity to a new archetype.
// Removing the last component deletes the entity and returns NullEntity.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	loc := s.locate(id)
	if loc == nil {
		return NullEntity
	}
	if !loc.archetype.HasComponent(compType) {
		return id
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)-1)
	for _, typ := range loc.archetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		s.Delete(id)
		return NullEntity
	}

	s.move(id, newTypes, nil)
	return id
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc := s.locate(id)
	if loc == nil {
		return nil
	}
	return loc.archetype.component(loc.row, compType)
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc := s.locate(id)
	if loc == nil {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// componentType returns the value type of a component, dereferencing pointers
func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		// Mix in all 4 bytes if on 64-bit system
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a pointer to the entity's T component, or nil when the
// entity is dead or does not carry T.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := ReadComponentOk[T](reader, entityId)
	return comp
}

// ReadComponentOk is ReadComponent with an explicit presence flag.
func ReadComponentOk[T any](reader ComponentReader, entityId EntityId) (*T, bool) {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil, false
	}
	typed, ok := comp.(*T)
	return typed, ok
}
