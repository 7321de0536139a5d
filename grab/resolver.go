package grab

import (
	"context"
	"runtime"
	"slices"

	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/spatial"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultTouchDepth is how far in front of the camera the touch point sits.
const DefaultTouchDepth = 15.0

// ResolveMode selects how owners are processed within a tick.
type ResolveMode uint8

const (
	// ResolveSequential resolves one owner at a time in query order.
	ResolveSequential ResolveMode = iota
	// ResolveConcurrent resolves owners on a worker group. Claims and
	// releases go through compare-and-swap on FocusTarget.Owner, so an owner
	// losing a race for a target stays idle for the tick.
	ResolveConcurrent
)

func (m ResolveMode) String() string {
	switch m {
	case ResolveSequential:
		return "sequential"
	case ResolveConcurrent:
		return "concurrent"
	}
	return "unknown"
}

func (m ResolveMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ResolveMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sequential", "":
		*m = ResolveSequential
	case "concurrent":
		*m = ResolveConcurrent
	default:
		return eris.Errorf("unknown resolve mode %q", text)
	}
	return nil
}

// ResolveStats counts what the resolver did during the last tick. Dragging
// includes owners that acquired their target this tick.
type ResolveStats struct {
	Tick     uint64
	Owners   int
	Idle     int
	Dragging int
	Acquired int
	Released int
	Resynced int
	Orphans  int
	Failures int
}

func (s ResolveStats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tick", s.Tick).
		Int("owners", s.Owners).
		Int("idle", s.Idle).
		Int("dragging", s.Dragging).
		Int("acquired", s.Acquired).
		Int("released", s.Released).
		Int("resynced", s.Resynced).
		Int("orphans", s.Orphans).
		Int("failures", s.Failures)
}

type ownerState uint8

const (
	stateSkipped ownerState = iota
	stateIdle
	stateDragging
	stateAcquired
)

type outcome struct {
	state    ownerState
	released bool
	resynced bool
	err      error
}

type focusItem = struct {
	Id ecs.EntityId
	*FocusTarget
}

type ownerItem = struct {
	Id ecs.EntityId
	*PointerOwner
	*PointerInput
}

// PointerResolverSystem turns each owner's pointer sample into focus lock
// changes. Per owner and tick it either keeps dragging its target, releases
// it, or tries to acquire a new one through the oracle. It never does more
// than one of those.
type PointerResolverSystem struct {
	Owners  ecs.Query[ownerItem]
	Targets ecs.Query[focusItem]
	Stats   ecs.Singleton[ResolveStats]

	Oracle     spatial.Oracle
	TouchDepth float64
	Mode       ResolveMode
	// Workers bounds concurrent resolution. Zero means GOMAXPROCS.
	Workers int
	// ReleaseOrphans frees, before any owner is resolved, focused targets
	// whose owner is gone or no longer points back at them.
	ReleaseOrphans bool
}

func (s *PointerResolverSystem) touchDepth() float64 {
	if s.TouchDepth > 0 {
		return s.TouchDepth
	}
	return DefaultTouchDepth
}

func (s *PointerResolverSystem) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *PointerResolverSystem) Execute(frame *ecs.UpdateFrame) {
	ctx := frame.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var orphans int
	if s.ReleaseOrphans {
		orphans = s.releaseOrphans(frame.Storage, frame.Logger)
	}

	items := slices.Collect(s.Owners.Values())
	outcomes := make([]outcome, len(items))

	if s.Mode == ResolveConcurrent && len(items) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers())
		for i, item := range items {
			g.Go(func() error {
				outcomes[i] = s.resolve(ctx, frame.Storage, item, frame.Logger)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, item := range items {
			outcomes[i] = s.resolve(ctx, frame.Storage, item, frame.Logger)
		}
	}

	stats := ResolveStats{Tick: frame.Tick, Owners: len(items), Orphans: orphans}
	for _, out := range outcomes {
		switch out.state {
		case stateIdle:
			stats.Idle++
		case stateDragging:
			stats.Dragging++
		case stateAcquired:
			stats.Acquired++
			stats.Dragging++
		}
		if out.released {
			stats.Released++
		}
		if out.resynced {
			stats.Resynced++
		}
		if out.err != nil {
			stats.Failures++
			frame.Fail(out.err)
		}
	}

	if current := s.Stats.Get(); current != nil {
		*current = stats
	}
	frame.Logger.Trace().EmbedObject(stats).Msg("pointers resolved")
}

// releaseOrphans resets focused targets that no live owner claims.
func (s *PointerResolverSystem) releaseOrphans(storage *ecs.Storage, logger zerolog.Logger) int {
	released := 0
	for id, item := range s.Targets.Iter() {
		if !item.FocusTarget.IsFocused() || !orphaned(storage, id, item.FocusTarget) {
			continue
		}
		logger.Warn().
			Stringer("target", id).
			Stringer("owner", item.FocusTarget.CurrentOwner()).
			Msg("releasing orphaned focus target")
		item.FocusTarget.Reset()
		released++
	}
	return released
}

// orphaned reports whether target's owner is missing or holds something else.
func orphaned(reader ecs.ComponentReader, id ecs.EntityId, target *FocusTarget) bool {
	owner, ok := ecs.ReadComponentOk[PointerOwner](reader, target.CurrentOwner())
	return !ok || owner.FocusTarget != id
}

// resolve runs one owner through the focus state machine. It writes only to
// the owner's own components and to at most one FocusTarget.
func (s *PointerResolverSystem) resolve(ctx context.Context, storage *ecs.Storage, item ownerItem, logger zerolog.Logger) outcome {
	id, owner, input := item.Id, item.PointerOwner, item.PointerInput

	camera, err := lookupView(storage, owner.View)
	if err != nil {
		return outcome{state: stateSkipped, err: eris.Wrapf(err, "owner %s", id)}
	}

	touch := camera.ScreenToWorld(input.Screen, s.touchDepth())
	owner.Touch.Position = touch
	owner.Touch.Active = BoolOf(input.Pressed)

	var out outcome
	var held *FocusTarget
	if owner.Holding() {
		held = heldTarget(storage, id, owner.FocusTarget)
		if held == nil {
			logger.Warn().
				Err(ErrInvalidOwnerState).
				Stringer("owner", id).
				Stringer("target", owner.FocusTarget).
				Msg("owner lock not confirmed by target, dropping it")
			owner.FocusTarget = ecs.NullEntity
			out.resynced = true
		}
	}

	if !input.Pressed {
		if held != nil {
			held.TryRelease(id)
			owner.FocusTarget = ecs.NullEntity
			out.released = true
		}
		owner.Touch.HitTarget = ecs.NullEntity
		out.state = stateIdle
		return out
	}

	if held != nil {
		held.Position = touch
		out.state = stateDragging
		return out
	}

	out.state = stateIdle
	owner.Touch.HitTarget = ecs.NullEntity

	if s.Oracle == nil {
		out.err = eris.Wrapf(ErrOracleFailure, "owner %s: no oracle configured", id)
		return out
	}

	ray := spatial.RayThrough(*camera, touch)
	hit, err := s.Oracle.Cast(ctx, ray.Origin, ray.Direction, camera.Far())
	if err != nil {
		out.err = eris.Wrapf(ErrOracleFailure, "owner %s: %v", id, err)
		return out
	}
	if hit.IsNull() {
		return out
	}

	target, ok := ecs.ReadComponentOk[FocusTarget](storage, hit)
	if !ok {
		logger.Debug().Stringer("owner", id).Stringer("hit", hit).Msg("hit entity is not a focus target")
		return out
	}
	if !target.TryClaim(id, touch) {
		logger.Debug().Stringer("owner", id).Stringer("hit", hit).Msg("target already focused")
		return out
	}

	owner.FocusTarget = hit
	owner.Touch.HitTarget = hit
	out.state = stateAcquired
	return out
}

// heldTarget returns the FocusTarget the owner claims to hold, or nil when the
// target is gone or lists a different owner.
func heldTarget(reader ecs.ComponentReader, owner, target ecs.EntityId) *FocusTarget {
	focus, ok := ecs.ReadComponentOk[FocusTarget](reader, target)
	if !ok || focus.CurrentOwner() != owner {
		return nil
	}
	return focus
}
