// Package realm provides the pluggable identity sources the engine
// authenticates against. A Realm composes an account loader, an
// injected credentials matcher, an optional authorization resolver and
// optional caches; there is no inheritance ladder. The matcher runs on
// every attempt, cache hit or not, and building a realm without one is
// a configuration error.
package realm
