package authc

import (
	"context"
	"errors"
	"testing"
)

type fakeRealm struct {
	name     string
	supports bool
	info     *Info
	err      error
	calls    int
}

func (r *fakeRealm) Name() string         { return r.name }
func (r *fakeRealm) Supports(Token) bool  { return r.supports }
func (r *fakeRealm) AuthenticationInfo(context.Context, Token) (*Info, error) {
	r.calls++
	return r.info, r.err
}

func successRealm(name string) *fakeRealm {
	return &fakeRealm{
		name:     name,
		supports: true,
		info:     NewInfo(name, name+"-user", []byte("secret")),
	}
}

func authenticate(t *testing.T, realms []Realm, strategy Strategy, token Token) (*Info, error) {
	t.Helper()
	a, err := NewAuthenticator(realms, strategy, nil)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	return a.Authenticate(context.Background(), token)
}

func TestAllSuccessfulRejectsUnsupportedRealm(t *testing.T) {
	good := successRealm("ldap")
	declines := &fakeRealm{name: "kerberos", supports: false}

	token := NewUsernamePassword("alice", []byte("pw"))
	_, err := authenticate(t, []Realm{good, declines}, AllSuccessful{}, token)
	if !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("err = %v, want ErrUnsupportedToken", err)
	}
}

func TestAllSuccessfulRethrowsRealmError(t *testing.T) {
	good := successRealm("ldap")
	failing := &fakeRealm{name: "db", supports: true, err: ErrIncorrectCredentials}

	token := NewUsernamePassword("alice", []byte("pw"))
	_, err := authenticate(t, []Realm{good, failing}, AllSuccessful{}, token)
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("err = %v, want ErrIncorrectCredentials", err)
	}
}

func TestAllSuccessfulMergesEveryRealm(t *testing.T) {
	a := successRealm("ldap")
	b := successRealm("db")

	token := NewUsernamePassword("alice", []byte("pw"))
	info, err := authenticate(t, []Realm{a, b}, AllSuccessful{}, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got := len(info.Principals.Realms()); got != 2 {
		t.Fatalf("contributing realms = %d, want 2", got)
	}
	if info.Principals.Primary() != "ldap-user" {
		t.Fatalf("primary = %v, want ldap-user", info.Principals.Primary())
	}
}

func TestAtLeastOneSuccessfulSwallowsFailures(t *testing.T) {
	failA := &fakeRealm{name: "a", supports: true, err: ErrIncorrectCredentials}
	failB := &fakeRealm{name: "b", supports: true, err: errors.New("backend down")}
	good := successRealm("c")

	token := NewUsernamePassword("alice", []byte("pw"))
	info, err := authenticate(t, []Realm{failA, failB, good}, AtLeastOneSuccessful{}, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got := info.Principals.Realms(); len(got) != 1 || got[0] != "c" {
		t.Fatalf("contributing realms = %v, want [c]", got)
	}
	if info.Principals.Primary() != "c-user" {
		t.Fatalf("primary = %v, want c-user", info.Principals.Primary())
	}
}

func TestAtLeastOneSuccessfulFailsWhenAllFail(t *testing.T) {
	failA := &fakeRealm{name: "a", supports: true, err: ErrIncorrectCredentials}
	failB := &fakeRealm{name: "b", supports: true, err: ErrUnknownAccount}

	token := NewUsernamePassword("alice", []byte("pw"))
	_, err := authenticate(t, []Realm{failA, failB}, AtLeastOneSuccessful{}, token)
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("err = %v, want an authentication error", err)
	}
}

func TestFirstSuccessfulTakesFirstResultOnly(t *testing.T) {
	a := successRealm("a")
	b := successRealm("b")

	token := NewUsernamePassword("alice", []byte("pw"))
	info, err := authenticate(t, []Realm{a, b}, FirstSuccessful{}, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got := info.Principals.Realms(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("contributing realms = %v, want [a]", got)
	}
}

func TestFirstSuccessfulSkipsFailuresUntilSuccess(t *testing.T) {
	failing := &fakeRealm{name: "a", supports: true, err: ErrUnknownAccount}
	good := successRealm("b")

	token := NewUsernamePassword("alice", []byte("pw"))
	info, err := authenticate(t, []Realm{failing, good}, FirstSuccessful{}, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if info.Principals.Primary() != "b-user" {
		t.Fatalf("primary = %v, want b-user", info.Principals.Primary())
	}
}

func TestStrategiesSkipUnsupportedRealms(t *testing.T) {
	declines := &fakeRealm{name: "a", supports: false}
	good := successRealm("b")

	token := NewUsernamePassword("alice", []byte("pw"))
	if _, err := authenticate(t, []Realm{declines, good}, AtLeastOneSuccessful{}, token); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if declines.calls != 0 {
		t.Fatalf("unsupported realm was called %d times", declines.calls)
	}
}
