// Package session implements per-subject session state: lifecycle
// (create, touch, stop, lazy expiration), an attribute map, durable
// storage behind a DAO contract, and a caching decorator that keeps a
// front cache coherent with every durable write. Session ids are
// opaque capability tokens, never guessable sequence numbers.
package session
