package grab

import "github.com/rotisserie/eris"

var (
	// ErrMissingView rejects a pointer owner that is not bound to a live camera.
	ErrMissingView = eris.New("pointer owner has no view")
	// ErrOracleFailure wraps an error returned by the spatial oracle. The
	// affected owner stays idle for the tick.
	ErrOracleFailure = eris.New("spatial oracle failed")
	// ErrInvalidOwnerState reports a focus lock that owner and target disagree on.
	ErrInvalidOwnerState = eris.New("invalid owner state")
)
