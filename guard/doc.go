// Package guard runs declarative authorization requirements before a
// protected operation executes. Policies are registered statically in
// a table keyed by operation name; nothing is discovered at runtime.
// A denied check surfaces a typed authorization error and the guarded
// operation never runs, so denial can leave no partial side effects.
package guard
