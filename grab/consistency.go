package grab

import (
	"errors"

	"github.com/kamstrup/intmap"
	"github.com/plus3/grabfocus/ecs"
	"github.com/rotisserie/eris"
)

// CheckConsistency verifies that focus locks agree on both sides: every
// owner's target lists that owner, no target is held by two owners, and
// every focused target is held by an owner pointing back at it.
func CheckConsistency(storage *ecs.Storage) error {
	owners := ecs.NewView[struct {
		Id ecs.EntityId
		*PointerOwner
	}](storage)
	targets := ecs.NewView[struct {
		Id ecs.EntityId
		*FocusTarget
	}](storage)

	var errs []error
	heldBy := intmap.New[ecs.EntityId, ecs.EntityId](64)

	for id, item := range owners.Iter() {
		target := item.PointerOwner.FocusTarget
		if target.IsNull() {
			continue
		}
		if previous, ok := heldBy.Get(target); ok {
			errs = append(errs, eris.Wrapf(ErrInvalidOwnerState, "target %s held by owners %s and %s", target, previous, id))
			continue
		}
		heldBy.Put(target, id)

		focus, ok := ecs.ReadComponentOk[FocusTarget](storage, target)
		if !ok {
			errs = append(errs, eris.Wrapf(ErrInvalidOwnerState, "owner %s holds %s which is not a live focus target", id, target))
			continue
		}
		if focus.CurrentOwner() != id {
			errs = append(errs, eris.Wrapf(ErrInvalidOwnerState, "owner %s holds %s but the target lists %s", id, target, focus.CurrentOwner()))
		}
	}

	for id, item := range targets.Iter() {
		owner := item.FocusTarget.CurrentOwner()
		if owner.IsNull() {
			continue
		}
		if holder, ok := heldBy.Get(id); !ok || holder != owner {
			errs = append(errs, eris.Wrapf(ErrInvalidOwnerState, "target %s lists owner %s which does not hold it", id, owner))
		}
	}

	return errors.Join(errs...)
}
