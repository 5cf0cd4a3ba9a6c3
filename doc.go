// Package aegis is a security decision engine: it authenticates
// principals against one or more pluggable realms under a configurable
// consensus strategy, maintains cache-accelerated per-subject sessions,
// and evaluates hierarchical wildcard permissions to authorize actions.
//
// The engine is assembled explicitly through the Builder; there is no
// global state and no ambient "current subject". Every operation that
// needs the calling identity receives a *Subject as an explicit
// argument.
//
//	sm, err := aegis.New().
//		WithRealms(myRealm).
//		WithRedis(client).
//		Build()
//	subject, err := sm.Login(ctx, authc.NewUsernamePassword("alice", password))
//	if err := subject.CheckPermission(ctx, "printer:print:lp7200"); err != nil { ... }
package aegis
