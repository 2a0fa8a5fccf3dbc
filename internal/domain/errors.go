package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Session state machine errors
	ErrInvalidSessionState = errors.New("invalid session state for this transition")
	ErrNoActiveSession     = errors.New("no active session")
	ErrSessionInFlight     = errors.New("a session is already in flight")

	// History errors
	ErrMalformedSession = errors.New("malformed session record")

	// External collaborator errors
	ErrDataUnavailable    = errors.New("environmental data unavailable")
	ErrPersistenceFailure = errors.New("local store read/write failed")
)
