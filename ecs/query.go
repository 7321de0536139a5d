package ecs

import (
	"iter"
)

// Query wraps a View with caching optimizations for repeated iteration.
// Queries cache matching archetypes and snapshot entity/component arrays once
// per frame. The snapshot holds pointers into component storage, so writes
// through it land on the live components.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute builds the entity and component snapshot for this frame.
// Called automatically by the Scheduler before the owning system runs.
func (q *Query[T]) Execute() {
	q.invalidateIfNeeded()
	q.ensureArchetypeCache()

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for _, archetype := range q.cachedArchetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}

	q.cacheValid = true
}

// Invalidate drops the current snapshot; the next read rebuilds it.
func (q *Query[T]) Invalidate() {
	q.cacheValid = false
}

func (q *Query[T]) invalidateIfNeeded() {
	currentCount := q.storage.ArchetypeCount()
	if currentCount != q.lastArchetypeCount {
		q.cachedArchetypes = nil
		q.lastArchetypeCount = currentCount
	}
}

func (q *Query[T]) ensureArchetypeCache() {
	if q.cachedArchetypes != nil {
		return
	}

	q.cachedArchetypes = make([]*Archetype, 0)
	for archetype := range q.storage.Archetypes() {
		if q.view.matchesArchetype(archetype) {
			q.cachedArchetypes = append(q.cachedArchetypes, archetype)
		}
	}
}

func (q *Query[T]) ensureSnapshot() {
	if !q.cacheValid {
		q.Execute()
	}
}

// Iter returns an iterator over entity IDs and component data from the
// current snapshot, building one first if needed.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.ensureSnapshot()

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	q.ensureSnapshot()

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the number of entities in the current snapshot.
func (q *Query[T]) Len() int {
	q.ensureSnapshot()
	return len(q.cachedEntities)
}

// Get projects a single entity through the query's view, bypassing the snapshot.
func (q *Query[T]) Get(id EntityId) *T {
	return q.view.Get(id)
}

// snapshot exposes the cached columns for batch processing.
func (q *Query[T]) snapshot() ([]EntityId, []T) {
	q.ensureSnapshot()
	return q.cachedEntities, q.cachedComponents
}
