package aegis

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/guard"
	"github.com/MrEthical07/aegis/realm"
	"github.com/MrEthical07/aegis/session"
)

// identityAttribute is the session attribute holding the logged-in
// identity, encoded as JSON so it survives any session store.
const identityAttribute = "aegis.identity"

type storedIdentity struct {
	Realms        []string            `json:"realms"`
	Principals    map[string][]string `json:"principals"`
	Authenticated bool                `json:"authenticated"`
}

// SecurityManager is the engine façade: login, subject resolution,
// logout and guarded operations, built once by the Builder and safe
// for concurrent use.
type SecurityManager struct {
	authenticator *authc.Authenticator
	authorizer    *authz.Authorizer
	sessions      *session.Manager
	realms        []*realm.Realm
	guards        *guard.Registry
	metrics       *Metrics
	logger        *zap.Logger
}

// Sessions returns the session manager.
func (sm *SecurityManager) Sessions() *session.Manager { return sm.sessions }

// Guards returns the static guard registry for policy registration.
func (sm *SecurityManager) Guards() *guard.Registry { return sm.guards }

// Authorizer returns the underlying authorizer.
func (sm *SecurityManager) Authorizer() *authz.Authorizer { return sm.authorizer }

// Login authenticates token, starts a session bound to the resulting
// identity, and returns the authenticated subject.
func (sm *SecurityManager) Login(ctx context.Context, token authc.Token) (*Subject, error) {
	info, err := sm.authenticator.Authenticate(ctx, token)
	sm.metrics.countLogin(err)
	if err != nil {
		return nil, err
	}

	host := ""
	if ht, ok := token.(authc.HostToken); ok {
		host = ht.Host()
	}
	handle, err := sm.sessions.Start(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	if err := sm.bindIdentity(ctx, handle, info.Principals, true); err != nil {
		return nil, err
	}
	if clearable, ok := token.(authc.Clearable); ok {
		clearable.Clear()
	}

	sm.logger.Debug("subject logged in",
		zap.String("principal", info.Principals.PrimaryString()),
		zap.String("session", handle.ID()))
	return &Subject{
		manager:       sm,
		principals:    info.Principals,
		authenticated: true,
		session:       handle,
	}, nil
}

// Subject resolves the identity bound to an existing session. A valid
// session with no bound identity yields an anonymous subject.
func (sm *SecurityManager) Subject(ctx context.Context, sessionID string) (*Subject, error) {
	handle, err := sm.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	value, err := handle.Attribute(ctx, identityAttribute)
	if err != nil {
		return nil, err
	}

	subject := &Subject{manager: sm, principals: &authc.Principals{}, session: handle}
	raw, ok := value.(string)
	if !ok || raw == "" {
		return subject, nil
	}

	var stored storedIdentity
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	for _, realmName := range stored.Realms {
		for _, principal := range stored.Principals[realmName] {
			subject.principals.Add(realmName, principal)
		}
	}
	subject.authenticated = stored.Authenticated
	return subject, nil
}

// Anonymous returns a subject with no identity and no session, for
// evaluating guest-facing guards.
func (sm *SecurityManager) Anonymous() *Subject {
	return &Subject{manager: sm, principals: &authc.Principals{}}
}

// Logout stops the subject's session, evicts its realm cache entries
// and strips its identity.
func (sm *SecurityManager) Logout(ctx context.Context, s *Subject) error {
	for _, r := range sm.realms {
		r.Evict(ctx, s.principals)
	}
	if s.session != nil {
		if err := s.session.Stop(ctx); err != nil {
			return err
		}
	}
	sm.logger.Debug("subject logged out", zap.String("principal", s.principals.PrimaryString()))
	s.principals = &authc.Principals{}
	s.authenticated = false
	s.session = nil
	return nil
}

// Check evaluates the registered guard policy for operation against
// the subject.
func (sm *SecurityManager) Check(ctx context.Context, operation string, s *Subject) error {
	err := sm.guards.Check(ctx, operation, s)
	sm.metrics.countAuthz(err == nil)
	return err
}

// bindIdentity persists the identity on the session. Principals are
// stored in string form; non-string principals round-trip through
// their fmt representation.
func (sm *SecurityManager) bindIdentity(ctx context.Context, handle *session.Handle, principals *authc.Principals, authenticated bool) error {
	stored := storedIdentity{
		Principals:    make(map[string][]string),
		Authenticated: authenticated,
	}
	for _, realmName := range principals.Realms() {
		stored.Realms = append(stored.Realms, realmName)
		for _, principal := range principals.FromRealm(realmName) {
			stored.Principals[realmName] = append(stored.Principals[realmName], fmt.Sprintf("%v", principal))
		}
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session identity: %w", err)
	}
	return handle.SetAttribute(ctx, identityAttribute, string(raw))
}
