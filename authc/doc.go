// Package authc implements the authentication half of the engine:
// submitted tokens, principal collections, authentication data, and the
// authenticator that runs one or many realms under a pluggable
// consensus strategy. Realms are sequenced strictly in configured
// order, never in parallel, because merge and short-circuit semantics
// depend on ordering.
package authc
