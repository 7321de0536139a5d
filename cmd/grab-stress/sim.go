package main

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/grab"
	"github.com/plus3/grabfocus/internal/config"
	"github.com/plus3/grabfocus/spatial"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	viewportWidth  = 1280
	viewportHeight = 720
	// fieldDepth is how far in front of the cameras targets are scattered.
	fieldDepth = 40
)

// Params are the knobs of a stress run that are not part of config.Config.
type Params struct {
	Duration       time.Duration
	Targets        int
	Owners         int
	Views          int
	GCPauseMetrics bool
	Check          bool
	Seed           uint64
	Workers        int
}

// pointerScript moves one owner's pointer around the screen, pressing and
// releasing it for random stretches of ticks.
type pointerScript struct {
	owner    ecs.EntityId
	screen   mgl64.Vec2
	velocity mgl64.Vec2
	pressed  bool
	hold     int
}

func (p *pointerScript) step(rng *rand.Rand) {
	p.hold--
	if p.hold <= 0 {
		p.pressed = !p.pressed
		p.hold = 5 + rng.IntN(60)
		angle := rng.Float64() * 2 * math.Pi
		speed := 2 + rng.Float64()*10
		p.velocity = mgl64.Vec2{math.Cos(angle) * speed, math.Sin(angle) * speed}
	}

	p.screen = p.screen.Add(p.velocity)
	if x := p.screen.X(); x < 0 || x > viewportWidth {
		p.velocity[0] = -p.velocity[0]
		p.screen[0] = mgl64.Clamp(x, 0, viewportWidth)
	}
	if y := p.screen.Y(); y < 0 || y > viewportHeight {
		p.velocity[1] = -p.velocity[1]
		p.screen[1] = mgl64.Clamp(y, 0, viewportHeight)
	}
}

// populate spawns the cameras, targets and owners of a run.
func populate(world *grab.World, params Params, rng *rand.Rand) ([]*pointerScript, error) {
	views := make([]ecs.EntityId, max(params.Views, 1))
	cameras := make([]spatial.Camera, len(views))
	for i := range views {
		angle := 2 * math.Pi * float64(i) / float64(len(views))
		position := mgl64.Vec3{math.Sin(angle) * 5, 0, math.Cos(angle)*5 - 5}
		cameras[i] = spatial.NewPerspectiveCamera(position, mgl64.Vec3{0, 0, fieldDepth}, 60, viewportWidth, viewportHeight)

		id, err := grab.SpawnCamera(world.Storage, cameras[i])
		if err != nil {
			return nil, eris.Wrapf(err, "camera %d", i)
		}
		views[i] = id
	}

	for range params.Targets {
		camera := cameras[rng.IntN(len(cameras))]
		screen := mgl64.Vec2{rng.Float64() * viewportWidth, rng.Float64() * viewportHeight}
		position := camera.ScreenToWorld(screen, fieldDepth*(0.5+rng.Float64()))

		var collider any = spatial.SphereCollider{Radius: 0.2 + rng.Float64()*0.8}
		if rng.IntN(2) == 0 {
			size := 0.2 + rng.Float64()*0.8
			collider = spatial.BoxCollider{HalfExtents: mgl64.Vec3{size, size, size}}
		}
		grab.SpawnFocusTarget(world.Storage, spatial.Transform{Position: position}, collider)
	}

	scripts := make([]*pointerScript, params.Owners)
	for i := range scripts {
		owner, err := grab.SpawnPointerOwner(world.Storage, views[i%len(views)])
		if err != nil {
			return nil, eris.Wrapf(err, "owner %d", i)
		}
		scripts[i] = &pointerScript{
			owner:  owner,
			screen: mgl64.Vec2{rng.Float64() * viewportWidth, rng.Float64() * viewportHeight},
		}
	}
	return scripts, nil
}

// Run drives a world until ctx is done or params.Duration has elapsed.
func Run(ctx context.Context, cfg config.Config, params Params, logger zerolog.Logger) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15))

	world := grab.NewWorld(append(cfg.WorldOptions(), grab.WithLogger(logger))...)

	logger.Info().Int("targets", params.Targets).Int("owners", params.Owners).Msg("populating world")
	scripts, err := populate(world, params, rng)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Duration:       params.Duration,
		Targets:        params.Targets,
		Owners:         params.Owners,
		Views:          max(params.Views, 1),
		Workers:        cfg.EffectiveWorkers(),
		Mode:           cfg.ResolveMode.String(),
		GCPauseMetrics: params.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", params.Duration).Stringer("mode", cfg.ResolveMode).Msg("running simulation")
	ctx, cancel := context.WithTimeout(ctx, params.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		for _, script := range scripts {
			script.step(rng)
			grab.SetPointer(world.Storage, script.owner, script.screen, script.pressed)
		}

		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		tickErr := world.TickContext(ctx, deltaTime.Seconds())
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++

		if tickErr != nil {
			if ctx.Err() != nil {
				break Loop
			}
			report.TickErrors++
			logger.Warn().Err(tickErr).Msg("tick failed")
		}

		report.Resolve.add(world.LastResolve())
		report.Orphans += int64(world.LastResolve().Orphans)

		if params.Check {
			if err := grab.CheckConsistency(world.Storage); err != nil {
				world.LogState(zerolog.ErrorLevel)
				return nil, eris.Wrapf(err, "tick %d", report.TotalUpdates)
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Storage = world.Storage.CollectStats()
	report.Scheduler = world.Scheduler.GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := grab.CheckConsistency(world.Storage); err != nil {
		return nil, eris.Wrap(err, "final state")
	}

	logger.Info().Int64("updates", report.TotalUpdates).Msg("simulation finished")
	world.LogState(zerolog.DebugLevel)
	return report, nil
}
