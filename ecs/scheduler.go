package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// storageInitializer is implemented by Query and Singleton fields.
type storageInitializer interface {
	Init(storage *Storage)
}

// frameExecutor is implemented by Query fields that snapshot once per run.
type frameExecutor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []frameExecutor
	logger  zerolog.Logger
	stats   *systemStatsInternal
}

// Scheduler manages and executes systems in order. Each system starts only
// after the previous one has returned, so a system always observes every
// write made by the systems registered before it in the same tick.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
	logger  zerolog.Logger
	tick    uint64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger systems derive their per-system loggers from.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		systems: make([]*registeredSystem, 0),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a system to the scheduler and initializes its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	name := systemName(system)
	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		queries: s.initializeFields(system),
		logger:  s.logger.With().Str("system", name).Logger(),
		stats: &systemStatsInternal{
			name:        name,
			minDuration: time.Duration(1<<63 - 1),
		},
	})
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if systemType.Name() == "" {
		return systemType.String()
	}
	return systemType.Name()
}

func (s *Scheduler) initializeFields(system System) []frameExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr {
		return nil
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var executors []frameExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		fieldPtr := field.Addr().Interface()
		initializer, ok := fieldPtr.(storageInitializer)
		if !ok {
			continue
		}
		initializer.Init(s.storage)

		if executor, ok := fieldPtr.(frameExecutor); ok {
			executors = append(executors, executor)
		}
	}
	return executors
}

// Once executes all registered systems once with the given delta time.
func (s *Scheduler) Once(dt float64) error {
	return s.OnceContext(context.Background(), dt)
}

// OnceContext executes one tick. Systems run in registration order, each
// query snapshot is rebuilt right before its system runs, and deferred
// commands are flushed after the last system. Errors reported by systems are
// joined and returned after the tick completes.
func (s *Scheduler) OnceContext(ctx context.Context, dt float64) error {
	s.tick++
	frame := newUpdateFrame(ctx, s.tick, dt, s.storage)

	for _, rs := range s.systems {
		for _, q := range rs.queries {
			q.Execute()
		}

		frame.Logger = rs.logger
		start := time.Now()
		rs.system.Execute(frame)
		duration := time.Since(start)

		stats := rs.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
	return frame.Err()
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
// Tick errors are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.OnceContext(ctx, dt); err != nil {
				s.logger.Warn().Err(err).Uint64("tick", s.tick).Msg("tick completed with errors")
			}
		}
	}
}

// Storage returns the storage the scheduler runs against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.tick,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	var totalExecs int64
	for i, rs := range s.systems {
		internal := rs.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
