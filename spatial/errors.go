package spatial

import "github.com/rotisserie/eris"

var (
	// ErrInvalidCamera is returned by Camera.Validate for a camera that cannot
	// map screen coordinates into the world.
	ErrInvalidCamera = eris.New("invalid camera")
	// ErrOracleTimeout is returned by BoundedOracle when a cast exceeds its budget.
	ErrOracleTimeout = eris.New("oracle cast timed out")
)
