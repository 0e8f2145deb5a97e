package session

import "errors"

var (
	// ErrActiveExists: the user already has a session with no end time.
	ErrActiveExists = errors.New("active session already exists for user")
	// ErrNotFound: the session id is unknown. Writes surface this instead of
	// silently doing nothing.
	ErrNotFound = errors.New("session not found")
	// ErrAlreadyClosed: the session has an end time; closed sessions are
	// immutable.
	ErrAlreadyClosed = errors.New("session already closed")
	// ErrEndBeforeStart: stop rejected because the end timestamp precedes the
	// start timestamp.
	ErrEndBeforeStart = errors.New("end time before start time")
	// ErrMissingEvidence: start/stop/mid calls need a capture reference.
	ErrMissingEvidence = errors.New("evidence reference required")
	// ErrUserNotFound: start refused for an unknown user id.
	ErrUserNotFound = errors.New("user not found")
)
