package realm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/cache"
)

var bearerKey = []byte("test-signing-key-0123456789abcdef")

func signToken(t *testing.T, claims jwt.RegisteredClaims, key []byte) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func newBearerRealm(t *testing.T) *Realm {
	t.Helper()
	r, err := NewBearer(BearerConfig{
		Name:    "bearer",
		KeyFunc: func(*jwt.Token) (any, error) { return bearerKey, nil },
		Methods: []string{"HS256"},
	})
	if err != nil {
		t.Fatalf("NewBearer: %v", err)
	}
	return r
}

func TestBearerConfigValidation(t *testing.T) {
	_, err := NewBearer(BearerConfig{Name: "bearer", Methods: []string{"HS256"}})
	if !errors.Is(err, authc.ErrConfiguration) {
		t.Fatalf("missing keyfunc: err = %v", err)
	}
	_, err = NewBearer(BearerConfig{
		Name:    "bearer",
		KeyFunc: func(*jwt.Token) (any, error) { return bearerKey, nil },
	})
	if !errors.Is(err, authc.ErrConfiguration) {
		t.Fatalf("missing methods: err = %v", err)
	}
}

func TestBearerSupportsOnlyBearerTokens(t *testing.T) {
	r := newBearerRealm(t)
	if r.Supports(authc.NewUsernamePassword("alice", []byte("pw"))) {
		t.Fatal("bearer realm must decline password tokens")
	}
	if !r.Supports(&authc.BearerToken{Raw: "x"}) {
		t.Fatal("bearer realm should accept bearer tokens")
	}
}

func TestBearerAuthenticatesValidToken(t *testing.T) {
	r := newBearerRealm(t)
	raw := signToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, bearerKey)

	info, err := r.AuthenticationInfo(context.Background(), &authc.BearerToken{Raw: raw})
	if err != nil {
		t.Fatalf("AuthenticationInfo: %v", err)
	}
	if info.Principals.Primary() != "alice" {
		t.Fatalf("primary = %v, want the subject claim", info.Principals.Primary())
	}
}

func TestBearerRejectsExpiredToken(t *testing.T) {
	r := newBearerRealm(t)
	raw := signToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}, bearerKey)

	_, err := r.AuthenticationInfo(context.Background(), &authc.BearerToken{Raw: raw})
	if !errors.Is(err, authc.ErrExpiredCredentials) {
		t.Fatalf("err = %v, want ErrExpiredCredentials", err)
	}
}

func TestBearerRejectsExpiredTokenOnCacheHit(t *testing.T) {
	r := newBearerRealm(t)
	r.UseAuthenticationCache(cache.NewLRU[string, *authc.Info](16, time.Minute))

	raw := signToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1500 * time.Millisecond)),
	}, bearerKey)
	token := &authc.BearerToken{Raw: raw}

	if _, err := r.AuthenticationInfo(context.Background(), token); err != nil {
		t.Fatalf("fresh token: %v", err)
	}

	// The info record is now cached under the raw token. Expiry must
	// still be enforced against the current clock, not the cache TTL.
	time.Sleep(2 * time.Second)
	_, err := r.AuthenticationInfo(context.Background(), token)
	if !errors.Is(err, authc.ErrExpiredCredentials) {
		t.Fatalf("err = %v, want ErrExpiredCredentials for a cached expired token", err)
	}
}

func TestBearerRejectsForgedSignature(t *testing.T) {
	r := newBearerRealm(t)
	raw := signToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, []byte("some-other-key-0123456789abcdefgh"))

	_, err := r.AuthenticationInfo(context.Background(), &authc.BearerToken{Raw: raw})
	if !errors.Is(err, authc.ErrIncorrectCredentials) {
		t.Fatalf("err = %v, want ErrIncorrectCredentials", err)
	}
}

func TestBearerRejectsMissingSubject(t *testing.T) {
	r := newBearerRealm(t)
	raw := signToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, bearerKey)

	_, err := r.AuthenticationInfo(context.Background(), &authc.BearerToken{Raw: raw})
	if !errors.Is(err, authc.ErrUnknownAccount) {
		t.Fatalf("err = %v, want ErrUnknownAccount", err)
	}
}

func TestBearerEnforcesIssuer(t *testing.T) {
	r, err := NewBearer(BearerConfig{
		Name:    "bearer",
		KeyFunc: func(*jwt.Token) (any, error) { return bearerKey, nil },
		Methods: []string{"HS256"},
		Issuer:  "aegis",
	})
	if err != nil {
		t.Fatalf("NewBearer: %v", err)
	}

	raw := signToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, bearerKey)

	_, err = r.AuthenticationInfo(context.Background(), &authc.BearerToken{Raw: raw})
	if !errors.Is(err, authc.ErrAuthentication) {
		t.Fatalf("err = %v, want an authentication error", err)
	}
}
