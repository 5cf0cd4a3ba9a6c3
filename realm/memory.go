package realm

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/credential"
)

// Account is one identity held by a memory store.
type Account struct {
	Principal   string
	Credentials string
	Roles       []string
	Permissions []string
	Disabled    bool
	Locked      bool
}

// MemoryStore holds accounts in process memory. It backs tests and
// small fixed deployments and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

// AddAccount registers or replaces an account keyed by its principal.
func (s *MemoryStore) AddAccount(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Principal] = account
}

// RemoveAccount deletes the account for principal.
func (s *MemoryStore) RemoveAccount(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, principal)
}

func (s *MemoryStore) lookup(principal string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[principal]
	return account, ok
}

// Load resolves account data for a token's principal. Disabled and
// locked accounts fail with their typed errors rather than reading as
// unknown.
func (s *MemoryStore) Load(realmName string) Loader {
	return func(_ context.Context, token authc.Token) (*authc.Info, error) {
		principal := fmt.Sprintf("%v", token.Principal())
		account, ok := s.lookup(principal)
		if !ok {
			return nil, nil
		}
		if account.Disabled {
			return nil, fmt.Errorf("%w: %q", authc.ErrDisabledAccount, principal)
		}
		if account.Locked {
			return nil, fmt.Errorf("%w: %q", authc.ErrLockedAccount, principal)
		}
		return authc.NewInfo(realmName, account.Principal, account.Credentials), nil
	}
}

// Resolve returns the roles and permissions granted to the primary
// principal.
func (s *MemoryStore) Resolve() Resolver {
	return func(_ context.Context, principals *authc.Principals) (*authz.Info, error) {
		account, ok := s.lookup(principals.PrimaryString())
		if !ok {
			return nil, nil
		}
		return authz.NewInfo(account.Roles, account.Permissions), nil
	}
}

// NewMemory wires a store into a username/password realm with the
// given matcher.
func NewMemory(name string, store *MemoryStore, matcher credential.Matcher) (*Realm, error) {
	return New(Config{
		Name:     name,
		Matcher:  matcher,
		Loader:   store.Load(name),
		Resolver: store.Resolve(),
	})
}
