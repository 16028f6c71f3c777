package approval

import "errors"

var (
	// ErrNotFound means the work order does not exist.
	ErrNotFound = errors.New("work order not found")
	// ErrInvalidRole means the role is not part of the approval flow.
	ErrInvalidRole = errors.New("invalid approval role")
	// ErrTerminalState means the work order is completed; approvals on it
	// are rejected, not dropped.
	ErrTerminalState = errors.New("work order is completed")
	// ErrStoreUnavailable wraps persistence failures.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConflict means the conditional save kept losing to concurrent
	// writers and the retry budget ran out.
	ErrConflict = errors.New("concurrent update conflict")
)
