package guard

import (
	"context"
	"fmt"

	"github.com/MrEthical07/aegis/authz"
)

// Subject is the calling identity a requirement is evaluated against.
type Subject interface {
	// Authenticated reports whether the identity was proven during the
	// current session.
	Authenticated() bool

	// HasIdentity reports whether any identity is known, proven or
	// remembered.
	HasIdentity() bool

	HasRole(ctx context.Context, role string) (bool, error)
	CheckRole(ctx context.Context, role string) error
	IsPermitted(ctx context.Context, permission string) (bool, error)
	CheckPermission(ctx context.Context, permission string) error
}

// Logical joins multiple declared values in one requirement.
type Logical int

const (
	// And requires every declared value to hold.
	And Logical = iota

	// Or requires at least one declared value to hold.
	Or
)

// Requirement is one declarative precondition on a protected
// operation.
type Requirement interface {
	Check(ctx context.Context, s Subject) error
}

// Authenticated requires a proven identity; remembered identities do
// not qualify.
type Authenticated struct{}

func (Authenticated) Check(_ context.Context, s Subject) error {
	if !s.Authenticated() {
		return fmt.Errorf("%w: operation requires a proven identity", authz.ErrUnauthenticated)
	}
	return nil
}

// User requires a known identity, proven or remembered.
type User struct{}

func (User) Check(_ context.Context, s Subject) error {
	if !s.HasIdentity() {
		return fmt.Errorf("%w: operation requires a known identity", authz.ErrUnauthenticated)
	}
	return nil
}

// Guest requires the caller to have no identity at all.
type Guest struct{}

func (Guest) Check(_ context.Context, s Subject) error {
	if s.HasIdentity() {
		return fmt.Errorf("%w: operation is for anonymous callers only", authz.ErrUnauthorized)
	}
	return nil
}

// Roles requires the subject to hold the declared roles, joined by
// Logical.
type Roles struct {
	Roles   []string
	Logical Logical
}

func (r Roles) Check(ctx context.Context, s Subject) error {
	switch {
	case len(r.Roles) == 0:
		return nil
	case len(r.Roles) == 1:
		return s.CheckRole(ctx, r.Roles[0])
	case r.Logical == And:
		for _, role := range r.Roles {
			if err := s.CheckRole(ctx, role); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, role := range r.Roles {
			ok, err := s.HasRole(ctx, role)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
		// None held. Fail citing the first declared role.
		return s.CheckRole(ctx, r.Roles[0])
	}
}

// Permissions requires the subject to hold the declared permissions,
// joined by Logical.
type Permissions struct {
	Permissions []string
	Logical     Logical
}

func (p Permissions) Check(ctx context.Context, s Subject) error {
	switch {
	case len(p.Permissions) == 0:
		return nil
	case len(p.Permissions) == 1:
		return s.CheckPermission(ctx, p.Permissions[0])
	case p.Logical == And:
		for _, permission := range p.Permissions {
			if err := s.CheckPermission(ctx, permission); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, permission := range p.Permissions {
			ok, err := s.IsPermitted(ctx, permission)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
		return s.CheckPermission(ctx, p.Permissions[0])
	}
}
