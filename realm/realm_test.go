package realm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/cache"
	"github.com/MrEthical07/aegis/credential"
)

type countingLoader struct {
	calls int
	info  *authc.Info
}

func (l *countingLoader) load(context.Context, authc.Token) (*authc.Info, error) {
	l.calls++
	return l.info, nil
}

func TestNewRequiresMatcher(t *testing.T) {
	_, err := New(Config{
		Name:   "db",
		Loader: func(context.Context, authc.Token) (*authc.Info, error) { return nil, nil },
	})
	if !errors.Is(err, authc.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestNewRequiresLoader(t *testing.T) {
	_, err := New(Config{Name: "db", Matcher: credential.Plain{}})
	if !errors.Is(err, authc.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestAuthenticationCacheSkipsLoader(t *testing.T) {
	loader := &countingLoader{info: authc.NewInfo("db", "alice", []byte("secret"))}
	r, err := New(Config{
		Name:                "db",
		Matcher:             credential.Plain{},
		Loader:              loader.load,
		AuthenticationCache: cache.NewLRU[string, *authc.Info](16, time.Minute),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	token := authc.NewUsernamePassword("alice", []byte("secret"))
	for i := 0; i < 2; i++ {
		if _, err := r.AuthenticationInfo(ctx, token); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if loader.calls != 1 {
		t.Fatalf("loader called %d times, want 1 (second hit must come from cache)", loader.calls)
	}
}

func TestMatcherRunsOnCacheHit(t *testing.T) {
	loader := &countingLoader{info: authc.NewInfo("db", "alice", []byte("secret"))}
	r, err := New(Config{
		Name:                "db",
		Matcher:             credential.Plain{},
		Loader:              loader.load,
		AuthenticationCache: cache.NewLRU[string, *authc.Info](16, time.Minute),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, err := r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("secret"))); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	// The info record is cached now. Tampered credentials must still
	// fail the second attempt.
	_, err = r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("tampered")))
	if !errors.Is(err, authc.ErrIncorrectCredentials) {
		t.Fatalf("err = %v, want ErrIncorrectCredentials", err)
	}
	if loader.calls != 1 {
		t.Fatalf("loader called %d times, want 1", loader.calls)
	}
}

func TestUnknownAccountReturnsNothing(t *testing.T) {
	r, err := New(Config{
		Name:    "db",
		Matcher: credential.Plain{},
		Loader:  func(context.Context, authc.Token) (*authc.Info, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := r.AuthenticationInfo(context.Background(), authc.NewUsernamePassword("ghost", []byte("x")))
	if err != nil {
		t.Fatalf("AuthenticationInfo: %v", err)
	}
	if info != nil {
		t.Fatal("an unknown account should yield no info")
	}
}

func TestAuthorizationCacheSkipsResolver(t *testing.T) {
	calls := 0
	r, err := New(Config{
		Name:    "db",
		Matcher: credential.Plain{},
		Loader:  func(context.Context, authc.Token) (*authc.Info, error) { return nil, nil },
		Resolver: func(context.Context, *authc.Principals) (*authz.Info, error) {
			calls++
			return authz.NewInfo([]string{"admin"}, nil), nil
		},
		AuthorizationCache: cache.NewLRU[string, *authz.Info](16, time.Minute),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	principals := authc.NewPrincipals("db", "alice")
	for i := 0; i < 2; i++ {
		info, err := r.AuthorizationInfo(ctx, principals)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if !info.HasRole("admin") {
			t.Fatalf("query %d: missing role", i)
		}
	}
	if calls != 1 {
		t.Fatalf("resolver called %d times, want 1", calls)
	}
}

func TestEvictDropsCachedEntries(t *testing.T) {
	loader := &countingLoader{info: authc.NewInfo("db", "alice", []byte("secret"))}
	r, err := New(Config{
		Name:                "db",
		Matcher:             credential.Plain{},
		Loader:              loader.load,
		AuthenticationCache: cache.NewLRU[string, *authc.Info](16, time.Minute),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	token := authc.NewUsernamePassword("alice", []byte("secret"))
	if _, err := r.AuthenticationInfo(ctx, token); err != nil {
		t.Fatalf("AuthenticationInfo: %v", err)
	}

	r.Evict(ctx, authc.NewPrincipals("db", "alice"))
	if _, err := r.AuthenticationInfo(ctx, token); err != nil {
		t.Fatalf("AuthenticationInfo after evict: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("loader called %d times, want 2 after eviction", loader.calls)
	}
}

func TestRealmWithoutResolverGrantsNothing(t *testing.T) {
	r, err := New(Config{
		Name:    "db",
		Matcher: credential.Plain{},
		Loader:  func(context.Context, authc.Token) (*authc.Info, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, err := r.AuthorizationInfo(context.Background(), authc.NewPrincipals("db", "alice"))
	if err != nil {
		t.Fatalf("AuthorizationInfo: %v", err)
	}
	if info != nil {
		t.Fatal("a realm with no resolver must contribute no grants")
	}
}
