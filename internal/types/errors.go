package types

import "errors"

// Recoverable error taxonomy. None of these are fatal to the process; all
// are handled at the granularity of a single call.
var (
	// ErrStaleUpdate is returned when a mutation targets a call already in
	// a terminal state. Logged and dropped by the ingest loop.
	ErrStaleUpdate = errors.New("stale update: call is in a terminal state")

	// ErrNoDestination is returned when a transfer request has no
	// destination queue selected.
	ErrNoDestination = errors.New("no transfer destination selected")

	// ErrInvalidCall is returned when the referenced call does not exist or
	// is not in a transferable state.
	ErrInvalidCall = errors.New("call not found or not transferable")

	// ErrFabricTimeout is returned when an outbound command got no timely
	// acknowledgment. Local state is not advanced; the caller may retry.
	ErrFabricTimeout = errors.New("fabric command timed out")

	// ErrAlreadyInFlight is returned when a conflicting command for the
	// same call is still awaiting fabric acknowledgment.
	ErrAlreadyInFlight = errors.New("a command for this call is already in flight")
)
