package aegis

import (
	"context"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/session"
)

// Subject is one calling identity: its principals, whether they were
// proven during this session, and the session itself. Subjects are
// passed explicitly to every operation that needs the caller's
// identity; the engine never stores a "current" subject anywhere.
type Subject struct {
	manager       *SecurityManager
	principals    *authc.Principals
	authenticated bool
	session       *session.Handle
}

// Principals returns the identity's principal collection. Empty means
// anonymous.
func (s *Subject) Principals() *authc.Principals { return s.principals }

// Principal returns the primary principal, or nil for an anonymous
// subject.
func (s *Subject) Principal() any { return s.principals.Primary() }

// Authenticated reports whether the identity was proven during the
// current session, as opposed to remembered from an earlier one.
func (s *Subject) Authenticated() bool { return s.authenticated }

// HasIdentity reports whether any identity is known, proven or
// remembered.
func (s *Subject) HasIdentity() bool { return !s.principals.IsEmpty() }

// Session returns the subject's session handle, nil for anonymous
// subjects.
func (s *Subject) Session() *session.Handle { return s.session }

// IsPermitted probes whether the subject holds a permission implying
// the requested one.
func (s *Subject) IsPermitted(ctx context.Context, permission string) (bool, error) {
	ok, err := s.manager.authorizer.IsPermitted(ctx, s.principals, permission)
	if err == nil {
		s.manager.metrics.countAuthz(ok)
	}
	return ok, err
}

// IsPermittedAll probes whether every requested permission is held.
func (s *Subject) IsPermittedAll(ctx context.Context, permissions ...string) (bool, error) {
	return s.manager.authorizer.IsPermittedAll(ctx, s.principals, permissions...)
}

// CheckPermission fails loudly when the requested permission is not
// held.
func (s *Subject) CheckPermission(ctx context.Context, permission string) error {
	err := s.manager.authorizer.CheckPermission(ctx, s.principals, permission)
	s.manager.metrics.countAuthz(err == nil)
	return err
}

// CheckPermissions fails loudly on the first permission not held.
func (s *Subject) CheckPermissions(ctx context.Context, permissions ...string) error {
	for _, p := range permissions {
		if err := s.CheckPermission(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// HasRole probes whether the subject holds role.
func (s *Subject) HasRole(ctx context.Context, role string) (bool, error) {
	return s.manager.authorizer.HasRole(ctx, s.principals, role)
}

// HasAllRoles probes whether every role is held.
func (s *Subject) HasAllRoles(ctx context.Context, roles ...string) (bool, error) {
	return s.manager.authorizer.HasAllRoles(ctx, s.principals, roles...)
}

// CheckRole fails loudly when role is not held.
func (s *Subject) CheckRole(ctx context.Context, role string) error {
	err := s.manager.authorizer.CheckRole(ctx, s.principals, role)
	s.manager.metrics.countAuthz(err == nil)
	return err
}

// CheckRoles fails loudly on the first role not held.
func (s *Subject) CheckRoles(ctx context.Context, roles ...string) error {
	for _, role := range roles {
		if err := s.CheckRole(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

// Logout stops the subject's session and evicts its realm cache
// entries, leaving the subject anonymous.
func (s *Subject) Logout(ctx context.Context) error {
	return s.manager.Logout(ctx, s)
}
