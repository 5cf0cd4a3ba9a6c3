package session

import "github.com/google/uuid"

// IDGenerator mints opaque session ids. Ids are capability tokens and
// must not be guessable.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator mints random UUID strings, the default generator.
type UUIDGenerator struct{}

// Generate returns a new random UUID string.
func (UUIDGenerator) Generate() string { return uuid.NewString() }
