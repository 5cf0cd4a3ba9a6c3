package authz

import (
	"errors"
	"fmt"
)

// ErrAuthorization roots the authorization failure family.
var ErrAuthorization = errors.New("authorization failed")

var (
	// ErrUnauthenticated reports that an identity was required but none
	// was presented. Callers typically redirect to login.
	ErrUnauthenticated = fmt.Errorf("%w: authentication required", ErrAuthorization)

	// ErrUnauthorized reports a known identity with insufficient
	// rights. Callers typically render "forbidden".
	ErrUnauthorized = fmt.Errorf("%w: permission denied", ErrAuthorization)
)
