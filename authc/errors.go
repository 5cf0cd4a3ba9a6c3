package authc

import (
	"errors"
	"fmt"
)

// ErrAuthentication roots the authentication failure family. Every
// specific failure below wraps it, so errors.Is(err, ErrAuthentication)
// classifies any of them.
var ErrAuthentication = errors.New("authentication failed")

var (
	// ErrUnsupportedToken reports that a realm declined the token type.
	ErrUnsupportedToken = fmt.Errorf("%w: unsupported token type", ErrAuthentication)

	// ErrUnknownAccount reports that no account data was found for the
	// submitted principal.
	ErrUnknownAccount = fmt.Errorf("%w: unknown account", ErrAuthentication)

	// ErrIncorrectCredentials reports a credentials matcher mismatch.
	ErrIncorrectCredentials = fmt.Errorf("%w: incorrect credentials", ErrAuthentication)

	// ErrExpiredCredentials reports credentials past their validity.
	ErrExpiredCredentials = fmt.Errorf("%w: expired credentials", ErrAuthentication)

	// ErrDisabledAccount reports a known but disabled account.
	ErrDisabledAccount = fmt.Errorf("%w: account disabled", ErrAuthentication)

	// ErrLockedAccount reports a known but locked account.
	ErrLockedAccount = fmt.Errorf("%w: account locked", ErrAuthentication)

	// ErrExcessiveAttempts reports that the attempt limiter tripped
	// before any realm was consulted.
	ErrExcessiveAttempts = fmt.Errorf("%w: excessive attempts", ErrAuthentication)
)

// ErrConfiguration reports a fatal setup mistake such as an
// authenticator with no realms or a merge into a non-mergable
// aggregate. Configuration errors are never retried.
var ErrConfiguration = errors.New("invalid configuration")
