package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry holds the heap copy of a singleton value
type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// AddSingleton stores a component that is not attached to any entity. Adding a
// value for a type that already exists overwrites it in place, so existing
// Singleton accessors keep pointing at live data.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	if entry, ok := s.singletons[t]; ok {
		reflect.NewAt(t, entry.dataPtr).Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	s.singletons[t] = &singletonEntry{
		typ:     t,
		dataPtr: ptr.UnsafePointer(),
	}
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// Returns false if no singleton of that type exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	t := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(t)
	if entry == nil {
		return false
	}
	rv.Elem().Set(reflect.NewAt(t, entry.dataPtr))
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// Singleton provides efficient access to a single component instance
// that is not associated with any entity. Use this for global game state,
// configuration, or other singleton data.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If initializer is provided and the singleton doesn't exist in storage,
// it will be created with the initializer value. Otherwise, a zero value is used.
// This guarantees the singleton exists in storage after the call.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	entry := storage.getSingletonEntry(componentType)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
		entry = storage.getSingletonEntry(componentType)
	}

	return &Singleton[T]{
		storage:       storage,
		componentPtr:  entry.dataPtr,
		componentType: componentType,
	}
}

// Init initializes the Singleton with a storage reference.
// This is called automatically by the Scheduler during system registration;
// a missing singleton is created with its zero value.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentType = reflect.TypeFor[T]()
	if storage.getSingletonEntry(s.componentType) == nil {
		var zero T
		storage.AddSingleton(zero)
	}
	s.updateCache()
}

// Get returns a pointer to the singleton component.
// Returns nil if the singleton has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// updateCache refreshes the cached pointer from storage
func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	entry := s.storage.getSingletonEntry(s.componentType)
	if entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return s.componentPtr != nil
}
