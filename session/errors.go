package session

import (
	"errors"
	"fmt"
)

// ErrInvalidSession roots the invalid-session family. Unknown, stopped
// and expired sessions all classify as invalid through errors.Is, so
// callers can treat "session unusable" uniformly while still telling
// expired apart from stopped for UX.
var ErrInvalidSession = errors.New("session invalid")

var (
	// ErrUnknownSession reports an id with no stored record.
	ErrUnknownSession = fmt.Errorf("%w: unknown session", ErrInvalidSession)

	// ErrSessionStopped reports access to an explicitly stopped
	// session.
	ErrSessionStopped = fmt.Errorf("%w: session stopped", ErrInvalidSession)

	// ErrSessionExpired reports access to a session past its idle
	// timeout.
	ErrSessionExpired = fmt.Errorf("%w: session expired", ErrInvalidSession)
)
