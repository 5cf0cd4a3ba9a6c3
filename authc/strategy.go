package authc

import (
	"context"
	"fmt"
)

// Strategy defines the consensus policy for a multi-realm login
// attempt. The authenticator drives the state machine: BeforeAll seeds
// the aggregate, each realm is bracketed by BeforeAttempt and
// AfterAttempt, and AfterAll renders the final verdict. Realms that do
// not support the token are skipped between the two attempt hooks
// unless BeforeAttempt already objected.
type Strategy interface {
	BeforeAll(ctx context.Context, realms []Realm, token Token) (*Info, error)
	BeforeAttempt(ctx context.Context, realm Realm, token Token, aggregate *Info) (*Info, error)
	AfterAttempt(ctx context.Context, realm Realm, token Token, info, aggregate *Info, attemptErr error) (*Info, error)
	AfterAll(ctx context.Context, token Token, aggregate *Info) (*Info, error)
}

// AllSuccessful requires every configured realm to support the token
// and authenticate it. The first unsupported or failing realm aborts
// the whole attempt, no partial success is accepted.
type AllSuccessful struct{}

func (AllSuccessful) BeforeAll(_ context.Context, _ []Realm, _ Token) (*Info, error) {
	return NewAggregate(), nil
}

func (AllSuccessful) BeforeAttempt(_ context.Context, realm Realm, token Token, aggregate *Info) (*Info, error) {
	if !realm.Supports(token) {
		return nil, fmt.Errorf("%w: realm %q does not support %T", ErrUnsupportedToken, realm.Name(), token)
	}
	return aggregate, nil
}

func (AllSuccessful) AfterAttempt(_ context.Context, realm Realm, _ Token, info, aggregate *Info, attemptErr error) (*Info, error) {
	if attemptErr != nil {
		return nil, fmt.Errorf("realm %q: %w", realm.Name(), attemptErr)
	}
	if info.IsEmpty() {
		return nil, fmt.Errorf("%w: realm %q returned no account data", ErrUnknownAccount, realm.Name())
	}
	return Merge(aggregate, info)
}

func (AllSuccessful) AfterAll(_ context.Context, _ Token, aggregate *Info) (*Info, error) {
	return aggregate, nil
}

// AtLeastOneSuccessful swallows individual realm failures and only
// fails the attempt if, after every realm has run, no realm
// contributed a principal.
type AtLeastOneSuccessful struct{}

func (AtLeastOneSuccessful) BeforeAll(_ context.Context, _ []Realm, _ Token) (*Info, error) {
	return NewAggregate(), nil
}

func (AtLeastOneSuccessful) BeforeAttempt(_ context.Context, _ Realm, _ Token, aggregate *Info) (*Info, error) {
	return aggregate, nil
}

func (AtLeastOneSuccessful) AfterAttempt(_ context.Context, _ Realm, _ Token, info, aggregate *Info, attemptErr error) (*Info, error) {
	if attemptErr != nil || info.IsEmpty() {
		return aggregate, nil
	}
	return Merge(aggregate, info)
}

func (AtLeastOneSuccessful) AfterAll(_ context.Context, token Token, aggregate *Info) (*Info, error) {
	if aggregate.IsEmpty() {
		return nil, fmt.Errorf("%w: no realm authenticated principal %v", ErrAuthentication, token.Principal())
	}
	return aggregate, nil
}

// FirstSuccessful stops accumulating once a realm succeeds: the first
// non-empty result is the outcome and later realms cannot add to it.
type FirstSuccessful struct{}

func (FirstSuccessful) BeforeAll(_ context.Context, _ []Realm, _ Token) (*Info, error) {
	return nil, nil
}

func (FirstSuccessful) BeforeAttempt(_ context.Context, _ Realm, _ Token, aggregate *Info) (*Info, error) {
	return aggregate, nil
}

func (FirstSuccessful) AfterAttempt(_ context.Context, _ Realm, _ Token, info, aggregate *Info, attemptErr error) (*Info, error) {
	if !aggregate.IsEmpty() {
		return aggregate, nil
	}
	if attemptErr != nil || info.IsEmpty() {
		return aggregate, nil
	}
	return info, nil
}

func (FirstSuccessful) AfterAll(_ context.Context, token Token, aggregate *Info) (*Info, error) {
	if aggregate.IsEmpty() {
		return nil, fmt.Errorf("%w: no realm authenticated principal %v", ErrAuthentication, token.Principal())
	}
	return aggregate, nil
}
