package realm

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/credential"
)

func testStore() *MemoryStore {
	store := NewMemoryStore()
	store.AddAccount(Account{
		Principal:   "alice",
		Credentials: "secret",
		Roles:       []string{"admin"},
		Permissions: []string{"user:*", "printer:print"},
	})
	store.AddAccount(Account{Principal: "mallory", Credentials: "x", Locked: true})
	store.AddAccount(Account{Principal: "carol", Credentials: "x", Disabled: true})
	return store
}

func TestMemoryRealmAuthenticates(t *testing.T) {
	r, err := NewMemory("memory", testStore(), credential.Plain{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	ctx := context.Background()

	info, err := r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("secret")))
	if err != nil {
		t.Fatalf("AuthenticationInfo: %v", err)
	}
	if info.Principals.Primary() != "alice" {
		t.Fatalf("primary = %v", info.Principals.Primary())
	}

	_, err = r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("wrong")))
	if !errors.Is(err, authc.ErrIncorrectCredentials) {
		t.Fatalf("err = %v, want ErrIncorrectCredentials", err)
	}
}

func TestMemoryRealmLockedAndDisabled(t *testing.T) {
	r, err := NewMemory("memory", testStore(), credential.Plain{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	ctx := context.Background()

	_, err = r.AuthenticationInfo(ctx, authc.NewUsernamePassword("mallory", []byte("x")))
	if !errors.Is(err, authc.ErrLockedAccount) {
		t.Fatalf("err = %v, want ErrLockedAccount", err)
	}

	_, err = r.AuthenticationInfo(ctx, authc.NewUsernamePassword("carol", []byte("x")))
	if !errors.Is(err, authc.ErrDisabledAccount) {
		t.Fatalf("err = %v, want ErrDisabledAccount", err)
	}
}

func TestMemoryRealmUnknownAccount(t *testing.T) {
	r, err := NewMemory("memory", testStore(), credential.Plain{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	info, err := r.AuthenticationInfo(context.Background(), authc.NewUsernamePassword("ghost", []byte("x")))
	if err != nil || info != nil {
		t.Fatalf("unknown account should yield nothing, got %v, %v", info, err)
	}
}

func TestMemoryRealmResolvesGrants(t *testing.T) {
	r, err := NewMemory("memory", testStore(), credential.Plain{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	info, err := r.AuthorizationInfo(context.Background(), authc.NewPrincipals("memory", "alice"))
	if err != nil {
		t.Fatalf("AuthorizationInfo: %v", err)
	}
	if !info.HasRole("admin") {
		t.Fatal("alice should hold the admin role")
	}
	if len(info.Permissions) != 2 {
		t.Fatalf("permissions = %v", info.Permissions)
	}
}

func TestMemoryRealmArgon2EndToEnd(t *testing.T) {
	hasher, err := credential.NewArgon2(credential.Argon2Params{
		Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}
	encoded, err := hasher.Hash([]byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	store := NewMemoryStore()
	store.AddAccount(Account{Principal: "alice", Credentials: encoded})
	r, err := NewMemory("memory", store, hasher)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	ctx := context.Background()
	if _, err := r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("correct horse battery staple"))); err != nil {
		t.Fatalf("AuthenticationInfo: %v", err)
	}
	_, err = r.AuthenticationInfo(ctx, authc.NewUsernamePassword("alice", []byte("wrong")))
	if !errors.Is(err, authc.ErrIncorrectCredentials) {
		t.Fatalf("err = %v, want ErrIncorrectCredentials", err)
	}
}
