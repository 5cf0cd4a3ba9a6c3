package authc

import "context"

// Realm is a pluggable source of authentication data for one backend.
// A realm first declares whether it understands a token's type, and
// only then is asked to look the account up and verify the submitted
// credentials.
type Realm interface {
	// Name identifies the realm; it keys the realm's contribution in a
	// principal collection.
	Name() string

	// Supports reports whether the realm can process this token type.
	Supports(token Token) bool

	// AuthenticationInfo resolves the account data for token and
	// verifies the submitted credentials against it. A nil Info with a
	// nil error means the account is unknown to this realm.
	AuthenticationInfo(ctx context.Context, token Token) (*Info, error)
}
