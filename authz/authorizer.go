package authz

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/permission"
)

// Realm resolves the roles and permissions granted to a principal set.
// A nil Info with a nil error means the realm knows nothing about
// these principals.
type Realm interface {
	Name() string
	AuthorizationInfo(ctx context.Context, principals *authc.Principals) (*Info, error)
}

// Authorizer evaluates role and permission questions against every
// configured authorizing realm. A grant from any single realm is
// sufficient.
type Authorizer struct {
	realms   []Realm
	resolver permission.Resolver
	logger   *zap.Logger
}

// NewAuthorizer builds an authorizer over realms. A nil resolver
// defaults to the wildcard permission parser.
func NewAuthorizer(realms []Realm, resolver permission.Resolver, logger *zap.Logger) (*Authorizer, error) {
	if len(realms) == 0 {
		return nil, fmt.Errorf("%w: at least one authorizing realm is required", authc.ErrConfiguration)
	}
	if resolver == nil {
		resolver = permission.WildcardResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{realms: realms, resolver: resolver, logger: logger}, nil
}

// IsPermitted reports whether any realm grants a permission implying
// the requested one. Empty principals are never permitted.
func (a *Authorizer) IsPermitted(ctx context.Context, principals *authc.Principals, requested string) (bool, error) {
	if principals.IsEmpty() {
		return false, nil
	}
	req, err := a.resolver.Resolve(requested)
	if err != nil {
		return false, err
	}

	for _, realm := range a.realms {
		info, err := realm.AuthorizationInfo(ctx, principals)
		if err != nil {
			return false, fmt.Errorf("realm %q: %w", realm.Name(), err)
		}
		if info == nil {
			continue
		}
		for _, granted := range info.Permissions {
			candidate, err := a.resolver.Resolve(granted)
			if err != nil {
				a.logger.Warn("skipping unparsable granted permission",
					zap.String("realm", realm.Name()), zap.String("permission", granted), zap.Error(err))
				continue
			}
			if candidate.Implies(req) {
				return true, nil
			}
		}
	}
	return false, nil
}

// IsPermittedAll reports whether every requested permission is
// granted.
func (a *Authorizer) IsPermittedAll(ctx context.Context, principals *authc.Principals, requested ...string) (bool, error) {
	for _, r := range requested {
		ok, err := a.IsPermitted(ctx, principals, r)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// CheckPermission fails with ErrUnauthenticated for an empty principal
// set and ErrUnauthorized when the permission is not granted.
func (a *Authorizer) CheckPermission(ctx context.Context, principals *authc.Principals, requested string) error {
	if principals.IsEmpty() {
		return fmt.Errorf("%w: permission %q requires an identity", ErrUnauthenticated, requested)
	}
	ok, err := a.IsPermitted(ctx, principals, requested)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnauthorized, requested)
	}
	return nil
}

// CheckPermissions checks every requested permission, failing on the
// first one not granted.
func (a *Authorizer) CheckPermissions(ctx context.Context, principals *authc.Principals, requested ...string) error {
	for _, r := range requested {
		if err := a.CheckPermission(ctx, principals, r); err != nil {
			return err
		}
	}
	return nil
}

// HasRole reports whether any realm grants role to the principals.
func (a *Authorizer) HasRole(ctx context.Context, principals *authc.Principals, role string) (bool, error) {
	if principals.IsEmpty() {
		return false, nil
	}
	for _, realm := range a.realms {
		info, err := realm.AuthorizationInfo(ctx, principals)
		if err != nil {
			return false, fmt.Errorf("realm %q: %w", realm.Name(), err)
		}
		if info.HasRole(role) {
			return true, nil
		}
	}
	return false, nil
}

// HasAllRoles reports whether every role is granted.
func (a *Authorizer) HasAllRoles(ctx context.Context, principals *authc.Principals, roles ...string) (bool, error) {
	for _, role := range roles {
		ok, err := a.HasRole(ctx, principals, role)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// CheckRole fails with ErrUnauthenticated for an empty principal set
// and ErrUnauthorized when role is not granted.
func (a *Authorizer) CheckRole(ctx context.Context, principals *authc.Principals, role string) error {
	if principals.IsEmpty() {
		return fmt.Errorf("%w: role %q requires an identity", ErrUnauthenticated, role)
	}
	ok, err := a.HasRole(ctx, principals, role)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: role %q", ErrUnauthorized, role)
	}
	return nil
}

// CheckRoles checks every role, failing on the first one not granted.
func (a *Authorizer) CheckRoles(ctx context.Context, principals *authc.Principals, roles ...string) error {
	for _, role := range roles {
		if err := a.CheckRole(ctx, principals, role); err != nil {
			return err
		}
	}
	return nil
}
