package grab

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
)

func (f *FocusTarget) owner() *uint64 {
	return (*uint64)(&f.Owner)
}

// CurrentOwner loads Owner atomically.
func (f *FocusTarget) CurrentOwner() ecs.EntityId {
	return ecs.EntityId(atomic.LoadUint64(f.owner()))
}

// IsFocused reports whether any owner holds the lock.
func (f *FocusTarget) IsFocused() bool {
	return !f.CurrentOwner().IsNull()
}

// SetFocus records owner as the lock holder at position. It does not check
// the previous owner; use TryClaim when owners resolve concurrently.
func (f *FocusTarget) SetFocus(position mgl64.Vec3, owner ecs.EntityId) {
	f.Position = position
	atomic.StoreUint64(f.owner(), uint64(owner))
}

// Reset frees the target and clears its position.
func (f *FocusTarget) Reset() {
	f.Position = mgl64.Vec3{}
	atomic.StoreUint64(f.owner(), uint64(ecs.NullEntity))
}

// TryClaim takes the lock for owner if the target is free and then records
// position. It returns false when another owner got there first.
func (f *FocusTarget) TryClaim(owner ecs.EntityId, position mgl64.Vec3) bool {
	if owner.IsNull() || !atomic.CompareAndSwapUint64(f.owner(), uint64(ecs.NullEntity), uint64(owner)) {
		return false
	}
	f.Position = position
	return true
}

// TryRelease frees the target if owner holds it. Releasing a target held by
// someone else, or a free target, changes nothing and returns false.
func (f *FocusTarget) TryRelease(owner ecs.EntityId) bool {
	if owner.IsNull() || f.CurrentOwner() != owner {
		return false
	}
	// Only the holder writes Position, so clear it before giving the lock up.
	f.Position = mgl64.Vec3{}
	return atomic.CompareAndSwapUint64(f.owner(), uint64(owner), uint64(ecs.NullEntity))
}
