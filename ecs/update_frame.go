package ecs

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// UpdateFrame is handed to every system during a single scheduler tick.
type UpdateFrame struct {
	Context   context.Context
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
	// Logger is scoped to the system currently executing.
	Logger zerolog.Logger

	errs []error
}

func newUpdateFrame(ctx context.Context, tick uint64, dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		Context:   ctx,
		Tick:      tick,
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
		Logger:    zerolog.Nop(),
	}
}

// Fail records an error for this tick. The tick still runs to completion.
func (f *UpdateFrame) Fail(err error) {
	if err != nil {
		f.errs = append(f.errs, err)
	}
}

// Err joins every error recorded so far, or returns nil.
func (f *UpdateFrame) Err() error {
	return errors.Join(f.errs...)
}
