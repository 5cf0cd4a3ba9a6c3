package permission

// Resolver converts permission strings held by authorization data into
// evaluable [Permission] values.
type Resolver interface {
	Resolve(s string) (Permission, error)
}

// WildcardResolver resolves every string through [New]. It is the
// default resolver for the engine.
type WildcardResolver struct{}

// Resolve parses s as a wildcard permission.
func (WildcardResolver) Resolve(s string) (Permission, error) {
	return New(s)
}
