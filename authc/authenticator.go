package authc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Authenticator is the login façade. One configured realm is called
// directly; two or more are sequenced through the consensus Strategy.
type Authenticator struct {
	realms   []Realm
	strategy Strategy
	limiter  *AttemptLimiter
	logger   *zap.Logger
}

// NewAuthenticator builds an authenticator over realms. At least one
// realm is required; strategy may be nil when exactly one realm is
// configured, otherwise it defaults to [AtLeastOneSuccessful].
func NewAuthenticator(realms []Realm, strategy Strategy, logger *zap.Logger) (*Authenticator, error) {
	if len(realms) == 0 {
		return nil, fmt.Errorf("%w: at least one realm is required", ErrConfiguration)
	}
	if strategy == nil {
		strategy = AtLeastOneSuccessful{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{realms: realms, strategy: strategy, logger: logger}, nil
}

// UseLimiter installs an attempt limiter consulted before any realm
// runs. A tripped limiter fails the attempt with ErrExcessiveAttempts.
func (a *Authenticator) UseLimiter(l *AttemptLimiter) { a.limiter = l }

// Authenticate verifies token and returns the aggregated account data.
// Failures carry a typed error from the ErrAuthentication family.
func (a *Authenticator) Authenticate(ctx context.Context, token Token) (*Info, error) {
	principal := fmt.Sprintf("%v", token.Principal())

	if a.limiter != nil {
		if err := a.limiter.Allow(ctx, principal); err != nil {
			a.logger.Warn("login attempt rejected by limiter", zap.String("principal", principal))
			return nil, err
		}
	}

	var (
		info *Info
		err  error
	)
	if len(a.realms) == 1 {
		info, err = a.authenticateSingle(ctx, token)
	} else {
		info, err = a.authenticateMulti(ctx, token)
	}
	if err != nil {
		a.logger.Debug("authentication failed", zap.String("principal", principal), zap.Error(err))
		return nil, err
	}

	if a.limiter != nil {
		a.limiter.Reset(ctx, principal)
	}
	a.logger.Debug("authentication succeeded", zap.String("principal", info.Principals.PrimaryString()))
	return info, nil
}

func (a *Authenticator) authenticateSingle(ctx context.Context, token Token) (*Info, error) {
	realm := a.realms[0]
	if !realm.Supports(token) {
		return nil, fmt.Errorf("%w: realm %q does not support %T", ErrUnsupportedToken, realm.Name(), token)
	}
	info, err := realm.AuthenticationInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.IsEmpty() {
		return nil, fmt.Errorf("%w: realm %q returned no account data for %v",
			ErrUnknownAccount, realm.Name(), token.Principal())
	}
	return info, nil
}

func (a *Authenticator) authenticateMulti(ctx context.Context, token Token) (*Info, error) {
	aggregate, err := a.strategy.BeforeAll(ctx, a.realms, token)
	if err != nil {
		return nil, err
	}

	for _, realm := range a.realms {
		aggregate, err = a.strategy.BeforeAttempt(ctx, realm, token, aggregate)
		if err != nil {
			return nil, err
		}
		if !realm.Supports(token) {
			continue
		}
		info, attemptErr := realm.AuthenticationInfo(ctx, token)
		if attemptErr != nil {
			a.logger.Debug("realm attempt failed",
				zap.String("realm", realm.Name()), zap.Error(attemptErr))
		}
		aggregate, err = a.strategy.AfterAttempt(ctx, realm, token, info, aggregate, attemptErr)
		if err != nil {
			return nil, err
		}
	}

	return a.strategy.AfterAll(ctx, token, aggregate)
}
