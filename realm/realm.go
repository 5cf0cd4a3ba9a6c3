package realm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/cache"
	"github.com/MrEthical07/aegis/credential"
)

// Loader resolves the stored account data for a token's principal. A
// nil Info with a nil error means the account is unknown.
type Loader func(ctx context.Context, token authc.Token) (*authc.Info, error)

// Resolver resolves the roles and permissions granted to a principal
// set.
type Resolver func(ctx context.Context, principals *authc.Principals) (*authz.Info, error)

// Config assembles a Realm from its collaborators.
type Config struct {
	// Name identifies the realm in principal collections and errors.
	Name string

	// Matcher verifies submitted credentials. Required: a realm that
	// skips credential checks is a critical misconfiguration.
	Matcher credential.Matcher

	// Supports reports whether the realm understands a token type.
	// Defaults to accepting *authc.UsernamePassword.
	Supports func(authc.Token) bool

	// Loader resolves account data. Required.
	Loader Loader

	// Resolver resolves authorization grants. Optional: a realm
	// without one contributes nothing to authorization decisions.
	Resolver Resolver

	// AuthenticationCache fronts the loader, keyed by principal.
	AuthenticationCache cache.Cache[string, *authc.Info]

	// AuthorizationCache fronts the resolver, keyed by the primary
	// principal.
	AuthorizationCache cache.Cache[string, *authz.Info]

	Logger *zap.Logger
}

// Realm authenticates tokens against one backend and, when a resolver
// is configured, answers authorization queries for its principals.
type Realm struct {
	name       string
	matcher    credential.Matcher
	supports   func(authc.Token) bool
	loader     Loader
	resolver   Resolver
	authcCache cache.Cache[string, *authc.Info]
	authzCache cache.Cache[string, *authz.Info]
	logger     *zap.Logger
}

// New builds a Realm, failing fast on a missing name, loader or
// matcher.
func New(cfg Config) (*Realm, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: realm name is required", authc.ErrConfiguration)
	}
	if cfg.Loader == nil {
		return nil, fmt.Errorf("%w: realm %q needs an account loader", authc.ErrConfiguration, cfg.Name)
	}
	if cfg.Matcher == nil {
		return nil, fmt.Errorf("%w: realm %q has no credentials matcher", authc.ErrConfiguration, cfg.Name)
	}
	if cfg.Supports == nil {
		cfg.Supports = SupportsUsernamePassword
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Realm{
		name:       cfg.Name,
		matcher:    cfg.Matcher,
		supports:   cfg.Supports,
		loader:     cfg.Loader,
		resolver:   cfg.Resolver,
		authcCache: cfg.AuthenticationCache,
		authzCache: cfg.AuthorizationCache,
		logger:     cfg.Logger,
	}, nil
}

// SupportsUsernamePassword accepts interactive username/password
// tokens, the default token type.
func SupportsUsernamePassword(t authc.Token) bool {
	_, ok := t.(*authc.UsernamePassword)
	return ok
}

// Name returns the realm's identifier.
func (r *Realm) Name() string { return r.name }

// Supports reports whether the realm can process this token type.
func (r *Realm) Supports(t authc.Token) bool { return r.supports(t) }

// AuthenticationInfo resolves account data for token, consulting the
// authentication cache first, and verifies the submitted credentials.
// The matcher runs even on a cache hit, so tampered credentials fail
// regardless of cache state.
func (r *Realm) AuthenticationInfo(ctx context.Context, token authc.Token) (*authc.Info, error) {
	key := fmt.Sprintf("%v", token.Principal())

	var info *authc.Info
	if r.authcCache != nil {
		if cached, ok := r.authcCache.Get(ctx, key); ok {
			info = cached
		}
	}
	if info == nil {
		loaded, err := r.loader(ctx, token)
		if err != nil {
			return nil, err
		}
		if loaded.IsEmpty() {
			return nil, nil
		}
		info = loaded
		if r.authcCache != nil {
			r.authcCache.Put(ctx, key, info)
		}
	}

	ok, err := r.matcher.Matches(token, info)
	if err != nil {
		return nil, fmt.Errorf("realm %q: %w", r.name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: realm %q, principal %v", authc.ErrIncorrectCredentials, r.name, token.Principal())
	}
	return info, nil
}

// AuthorizationInfo resolves the grants for principals, cache-first. A
// realm without a resolver returns nothing.
func (r *Realm) AuthorizationInfo(ctx context.Context, principals *authc.Principals) (*authz.Info, error) {
	if r.resolver == nil || principals.IsEmpty() {
		return nil, nil
	}
	key := principals.PrimaryString()

	if r.authzCache != nil {
		if cached, ok := r.authzCache.Get(ctx, key); ok {
			return cached, nil
		}
	}
	info, err := r.resolver(ctx, principals)
	if err != nil {
		return nil, err
	}
	if info != nil && r.authzCache != nil {
		r.authzCache.Put(ctx, key, info)
	}
	return info, nil
}

// UseAuthenticationCache installs c as the loader's front cache unless
// one was configured at construction. Called by the engine builder
// during wiring.
func (r *Realm) UseAuthenticationCache(c cache.Cache[string, *authc.Info]) {
	if r.authcCache == nil {
		r.authcCache = c
	}
}

// UseAuthorizationCache installs c as the resolver's front cache
// unless one was configured at construction.
func (r *Realm) UseAuthorizationCache(c cache.Cache[string, *authz.Info]) {
	if r.authzCache == nil {
		r.authzCache = c
	}
}

// Evict drops the cached authentication and authorization entries for
// principals, typically on logout or an account change.
func (r *Realm) Evict(ctx context.Context, principals *authc.Principals) {
	if principals.IsEmpty() {
		return
	}
	key := principals.PrimaryString()
	if r.authcCache != nil {
		r.authcCache.Remove(ctx, key)
	}
	if r.authzCache != nil {
		r.authzCache.Remove(ctx, key)
	}
}
