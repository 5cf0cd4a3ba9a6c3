package authc

import (
	"fmt"
	"reflect"
)

// Principals is an ordered multimap from realm name to the principals
// that realm contributed for one subject. The primary principal is the
// first principal of the first realm that contributed one. An empty
// collection means "no identity", never a partially filled one.
type Principals struct {
	order   []string
	byRealm map[string][]any
}

// NewPrincipals builds a collection seeded with one realm's principals.
func NewPrincipals(realm string, principals ...any) *Principals {
	p := &Principals{byRealm: make(map[string][]any)}
	p.Add(realm, principals...)
	return p
}

// Add appends principals under realm, preserving contribution order and
// skipping values the realm already contributed.
func (p *Principals) Add(realm string, principals ...any) {
	if len(principals) == 0 {
		return
	}
	if p.byRealm == nil {
		p.byRealm = make(map[string][]any)
	}
	existing, ok := p.byRealm[realm]
	if !ok {
		p.order = append(p.order, realm)
	}
next:
	for _, principal := range principals {
		for _, have := range existing {
			// DeepEqual, not ==: principals are arbitrary values and a
			// plain comparison panics on uncomparable dynamic types.
			if reflect.DeepEqual(have, principal) {
				continue next
			}
		}
		existing = append(existing, principal)
	}
	p.byRealm[realm] = existing
}

// AddAll folds every realm's principals from other into p.
func (p *Principals) AddAll(other *Principals) {
	if other == nil {
		return
	}
	for _, realm := range other.order {
		p.Add(realm, other.byRealm[realm]...)
	}
}

// Primary returns the primary principal, or nil for an empty
// collection.
func (p *Principals) Primary() any {
	if p == nil {
		return nil
	}
	for _, realm := range p.order {
		if principals := p.byRealm[realm]; len(principals) > 0 {
			return principals[0]
		}
	}
	return nil
}

// PrimaryString returns the primary principal rendered as a string,
// the form used as a cache key.
func (p *Principals) PrimaryString() string {
	primary := p.Primary()
	if primary == nil {
		return ""
	}
	if s, ok := primary.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", primary)
}

// IsEmpty reports whether no realm contributed a principal.
func (p *Principals) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, principals := range p.byRealm {
		if len(principals) > 0 {
			return false
		}
	}
	return true
}

// FromRealm returns the principals contributed by realm.
func (p *Principals) FromRealm(realm string) []any {
	if p == nil {
		return nil
	}
	return p.byRealm[realm]
}

// Realms returns the contributing realm names in contribution order.
func (p *Principals) Realms() []string {
	if p == nil {
		return nil
	}
	return p.order
}

// All returns every principal across all realms in contribution order.
func (p *Principals) All() []any {
	if p == nil {
		return nil
	}
	var all []any
	for _, realm := range p.order {
		all = append(all, p.byRealm[realm]...)
	}
	return all
}
