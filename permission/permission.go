package permission

// Permission answers whether one granted capability is sufficient for a
// requested one. Implementations must be immutable after construction so
// they can be shared across concurrent authorization checks.
type Permission interface {
	// Implies reports whether this permission is at least as permissive
	// as p. It is reflexive: every permission implies itself.
	Implies(p Permission) bool
}

// All is the absolute grant. It implies every other permission and is
// typically reserved for super-administrator roles.
type All struct{}

// Implies always returns true.
func (All) Implies(Permission) bool { return true }

// String returns the conventional textual form of the absolute grant.
func (All) String() string { return "*" }
