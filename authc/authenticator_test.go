package authc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewAuthenticatorRequiresRealms(t *testing.T) {
	if _, err := NewAuthenticator(nil, nil, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestSingleRealmUnsupportedToken(t *testing.T) {
	declines := &fakeRealm{name: "ldap", supports: false}
	token := NewUsernamePassword("alice", []byte("pw"))

	_, err := authenticate(t, []Realm{declines}, nil, token)
	if !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("err = %v, want ErrUnsupportedToken", err)
	}
}

func TestSingleRealmUnknownAccount(t *testing.T) {
	empty := &fakeRealm{name: "ldap", supports: true}
	token := NewUsernamePassword("alice", []byte("pw"))

	_, err := authenticate(t, []Realm{empty}, nil, token)
	if !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("err = %v, want ErrUnknownAccount", err)
	}
}

func TestSingleRealmSuccess(t *testing.T) {
	realm := successRealm("ldap")
	token := NewUsernamePassword("alice", []byte("pw"))

	info, err := authenticate(t, []Realm{realm}, nil, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if info.Principals.Primary() != "ldap-user" {
		t.Fatalf("primary = %v", info.Principals.Primary())
	}
}

func TestAuthenticatorLimiterTripsBeforeRealms(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter, err := NewAttemptLimiter(client, 2, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewAttemptLimiter: %v", err)
	}

	failing := &fakeRealm{name: "db", supports: true, err: ErrIncorrectCredentials}
	a, err := NewAuthenticator([]Realm{failing}, nil, nil)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	a.UseLimiter(limiter)

	ctx := context.Background()
	token := NewUsernamePassword("alice", []byte("wrong"))
	for i := 0; i < 2; i++ {
		if _, err := a.Authenticate(ctx, token); !errors.Is(err, ErrIncorrectCredentials) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}

	_, err = a.Authenticate(ctx, token)
	if !errors.Is(err, ErrExcessiveAttempts) {
		t.Fatalf("err = %v, want ErrExcessiveAttempts", err)
	}
	if failing.calls != 2 {
		t.Fatalf("realm called %d times, want 2 (limiter must run first)", failing.calls)
	}
}

func TestAuthenticatorLimiterResetsOnSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter, err := NewAttemptLimiter(client, 3, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewAttemptLimiter: %v", err)
	}

	realm := successRealm("ldap")
	a, err := NewAuthenticator([]Realm{realm}, nil, nil)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	a.UseLimiter(limiter)

	ctx := context.Background()
	token := NewUsernamePassword("alice", []byte("pw"))
	if _, err := a.Authenticate(ctx, token); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	count, err := limiter.Attempts(ctx, "alice")
	if err != nil {
		t.Fatalf("Attempts: %v", err)
	}
	if count != 0 {
		t.Fatalf("attempt counter = %d after success, want 0", count)
	}
}
