package aegis

import (
	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/session"
)

// The sentinel errors of the engine's subpackages, re-exported so
// callers holding only the root package can classify failures with
// errors.Is.
var (
	ErrConfiguration = authc.ErrConfiguration

	ErrAuthentication       = authc.ErrAuthentication
	ErrUnsupportedToken     = authc.ErrUnsupportedToken
	ErrUnknownAccount       = authc.ErrUnknownAccount
	ErrIncorrectCredentials = authc.ErrIncorrectCredentials
	ErrExpiredCredentials   = authc.ErrExpiredCredentials
	ErrDisabledAccount      = authc.ErrDisabledAccount
	ErrLockedAccount        = authc.ErrLockedAccount
	ErrExcessiveAttempts    = authc.ErrExcessiveAttempts

	ErrAuthorization   = authz.ErrAuthorization
	ErrUnauthenticated = authz.ErrUnauthenticated
	ErrUnauthorized    = authz.ErrUnauthorized

	ErrInvalidSession = session.ErrInvalidSession
	ErrUnknownSession = session.ErrUnknownSession
	ErrSessionStopped = session.ErrSessionStopped
	ErrSessionExpired = session.ErrSessionExpired
)
