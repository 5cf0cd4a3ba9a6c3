package authc

import "fmt"

// Kind tags an Info as either a single realm's result or a mergable
// aggregate built by a multi-realm strategy. The tag decides merge
// dispatch, there is no runtime type probing.
type Kind int

const (
	// KindSimple marks a single realm's authentication result.
	KindSimple Kind = iota

	// KindMergable marks an aggregate that accepts further merges.
	KindMergable
)

// Info is the stored-truth side of an authentication decision: the
// principals an account is known by, the credentials to match the
// submitted proof against, and an optional salt.
type Info struct {
	Kind        Kind
	Principals  *Principals
	Credentials any
	Salt        []byte
}

// NewInfo builds a simple single-realm Info.
func NewInfo(realm string, principal any, credentials any) *Info {
	return &Info{
		Kind:        KindSimple,
		Principals:  NewPrincipals(realm, principal),
		Credentials: credentials,
	}
}

// NewAggregate builds an empty mergable aggregate for a multi-realm
// attempt.
func NewAggregate() *Info {
	return &Info{Kind: KindMergable, Principals: &Principals{}}
}

// IsEmpty reports whether info carries no principals.
func (i *Info) IsEmpty() bool {
	return i == nil || i.Principals.IsEmpty()
}

// Merge folds next into aggregate and returns the combined Info.
// A nil or empty aggregate adopts next directly. Folding into a
// non-empty aggregate requires KindMergable; anything else is a
// configuration error because content would be silently discarded.
func Merge(aggregate, next *Info) (*Info, error) {
	if next.IsEmpty() {
		return aggregate, nil
	}
	if aggregate.IsEmpty() {
		if aggregate == nil {
			return next, nil
		}
		if aggregate.Principals == nil {
			aggregate.Principals = &Principals{}
		}
		aggregate.Principals.AddAll(next.Principals)
		if aggregate.Credentials == nil {
			aggregate.Credentials = next.Credentials
			aggregate.Salt = next.Salt
		}
		return aggregate, nil
	}
	if aggregate.Kind != KindMergable {
		return nil, fmt.Errorf("%w: cannot merge into a non-mergable authentication result", ErrConfiguration)
	}
	aggregate.Principals.AddAll(next.Principals)
	if aggregate.Credentials == nil {
		aggregate.Credentials = next.Credentials
		aggregate.Salt = next.Salt
	}
	return aggregate, nil
}
