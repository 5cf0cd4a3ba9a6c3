package permission

import (
	"strings"
)

// Domain is a convenience permission for a single domain with explicit
// action and target sets: it is sugar over a three-part [Wildcard]. The
// domain name is normalized with [DeriveDomain], and every mutation
// re-encodes the canonical string so the parsed parts and the textual
// form can never drift apart.
type Domain struct {
	domain  string
	actions []string
	targets []string

	wildcard *Wildcard
}

// DeriveDomain normalizes a domain name: lower-cased, with a trailing
// "permission" suffix stripped, so "PrinterPermission" becomes "printer".
func DeriveDomain(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "permission")
	return name
}

// NewDomain builds a domain permission. Empty action or target sets are
// encoded as trailing wildcards by omission: NewDomain("user", nil, nil)
// is equivalent to the permission "user".
func NewDomain(domain string, actions, targets []string) (*Domain, error) {
	d := &Domain{
		domain:  DeriveDomain(domain),
		actions: dedupe(actions),
		targets: dedupe(targets),
	}
	if err := d.encode(); err != nil {
		return nil, err
	}
	return d, nil
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (d *Domain) encode() error {
	parts := []string{d.domain}
	switch {
	case len(d.targets) > 0:
		actions := d.actions
		if len(actions) == 0 {
			actions = []string{wildcardTok}
		}
		parts = append(parts, strings.Join(actions, tokenDivider), strings.Join(d.targets, tokenDivider))
	case len(d.actions) > 0:
		parts = append(parts, strings.Join(d.actions, tokenDivider))
	}

	w, err := New(strings.Join(parts, partDivider))
	if err != nil {
		return err
	}
	d.wildcard = w
	return nil
}

// SetActions replaces the action set and re-encodes the permission.
func (d *Domain) SetActions(actions []string) error {
	d.actions = dedupe(actions)
	return d.encode()
}

// SetTargets replaces the target set and re-encodes the permission.
func (d *Domain) SetTargets(targets []string) error {
	d.targets = dedupe(targets)
	return d.encode()
}

// DomainName returns the normalized domain part.
func (d *Domain) DomainName() string { return d.domain }

// Implies delegates to the underlying wildcard encoding. A [*Domain]
// requested permission is compared through its wildcard form as well.
func (d *Domain) Implies(p Permission) bool {
	if other, ok := p.(*Domain); ok {
		return d.wildcard.Implies(other.wildcard)
	}
	return d.wildcard.Implies(p)
}

// Wildcard exposes the wildcard encoding, letting a Domain participate
// wherever a parsed permission is expected.
func (d *Domain) Wildcard() *Wildcard { return d.wildcard }

// String returns the canonical encoded form.
func (d *Domain) String() string { return d.wildcard.String() }
