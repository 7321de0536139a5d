package grab

import (
	"context"
	"time"

	"github.com/plus3/grabfocus/ecs"
	"github.com/plus3/grabfocus/spatial"
	"github.com/rs/zerolog"
)

// World wires a storage and scheduler with the resolver running before the
// propagator, so every tick commits all lock changes before any Transform is
// written.
type World struct {
	Registry   *ecs.ComponentRegistry
	Storage    *ecs.Storage
	Scheduler  *ecs.Scheduler
	Resolver   *PointerResolverSystem
	Propagator *TransformPropagatorSystem

	logger zerolog.Logger
}

type worldOptions struct {
	logger        zerolog.Logger
	oracle        spatial.Oracle
	oracleTimeout time.Duration
	touchDepth    float64
	mode          ResolveMode
	workers       int
	chunkSize     int
	keepOrphans   bool
	extraSystems  []ecs.System
}

// Option configures NewWorld.
type Option func(*worldOptions)

// WithLogger sets the logger used by the scheduler and systems.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *worldOptions) {
		o.logger = logger
	}
}

// WithOracle replaces the default collider oracle.
func WithOracle(oracle spatial.Oracle) Option {
	return func(o *worldOptions) {
		o.oracle = oracle
	}
}

// WithOracleTimeout bounds every cast. Zero leaves casts unbounded.
func WithOracleTimeout(timeout time.Duration) Option {
	return func(o *worldOptions) {
		o.oracleTimeout = timeout
	}
}

// WithTouchDepth sets the distance of the touch point in front of each view.
func WithTouchDepth(depth float64) Option {
	return func(o *worldOptions) {
		o.touchDepth = depth
	}
}

// WithResolveMode selects sequential or concurrent owner resolution.
func WithResolveMode(mode ResolveMode) Option {
	return func(o *worldOptions) {
		o.mode = mode
	}
}

// WithWorkers bounds the worker count of both phases. Zero means GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *worldOptions) {
		o.workers = workers
	}
}

// WithChunkSize sets the propagation chunk size.
func WithChunkSize(size int) Option {
	return func(o *worldOptions) {
		o.chunkSize = size
	}
}

// WithOrphanRelease toggles releasing targets whose owner disappeared.
func WithOrphanRelease(enabled bool) Option {
	return func(o *worldOptions) {
		o.keepOrphans = !enabled
	}
}

// WithSystems registers additional systems after the propagator.
func WithSystems(systems ...ecs.System) Option {
	return func(o *worldOptions) {
		o.extraSystems = append(o.extraSystems, systems...)
	}
}

// NewWorld builds a world with the grab components registered. Unless an
// oracle is supplied, casts are answered by a spatial.ColliderOracle over the
// world's own storage.
func NewWorld(opts ...Option) *World {
	options := worldOptions{
		logger:     zerolog.Nop(),
		touchDepth: DefaultTouchDepth,
		chunkSize:  ecs.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&options)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	oracle := options.oracle
	if oracle == nil {
		oracle = spatial.NewColliderOracle(storage)
	}
	if options.oracleTimeout > 0 {
		oracle = spatial.BoundedOracle{Oracle: oracle, Timeout: options.oracleTimeout}
	}

	resolver := &PointerResolverSystem{
		Oracle:     oracle,
		TouchDepth: options.touchDepth,
		Mode:       options.mode,
		Workers:    options.workers,

		ReleaseOrphans: !options.keepOrphans,
	}
	propagator := NewTransformPropagator(options.workers, options.chunkSize)

	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(options.logger))
	scheduler.Register(resolver)
	scheduler.Register(propagator)
	for _, system := range options.extraSystems {
		scheduler.Register(system)
	}

	return &World{
		Registry:   registry,
		Storage:    storage,
		Scheduler:  scheduler,
		Resolver:   resolver,
		Propagator: propagator,
		logger:     options.logger,
	}
}

// Tick runs one resolve and propagate step.
func (w *World) Tick(dt float64) error {
	return w.Scheduler.Once(dt)
}

// TickContext is Tick with a context handed to the oracle and workers.
func (w *World) TickContext(ctx context.Context, dt float64) error {
	return w.Scheduler.OnceContext(ctx, dt)
}

// Run ticks at interval until ctx is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	w.Scheduler.Run(ctx, interval)
}

// LastResolve returns the resolver statistics of the most recent tick.
func (w *World) LastResolve() ResolveStats {
	var stats *ResolveStats
	if w.Storage.ReadSingleton(&stats) {
		return *stats
	}
	return ResolveStats{}
}

// LogState logs the current focus locks at level.
func (w *World) LogState(level zerolog.Level) {
	LogFocusState(&w.logger, w.Storage, level)
}
