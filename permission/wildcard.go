package permission

import (
	"errors"
	"strings"
)

const (
	partDivider  = ":"
	tokenDivider = ","
	wildcardTok  = "*"
)

// ErrInvalidPermission is returned when a permission string cannot be
// parsed: blank input, an empty part ("user::read"), or an empty token
// ("user:read,,write").
var ErrInvalidPermission = errors.New("invalid permission string")

// Wildcard is a parsed hierarchical wildcard permission. Parts are
// ordered (conventionally domain, actions, targets) and each part holds
// a set of tokens. A missing trailing part behaves as a wildcard.
type Wildcard struct {
	parts []tokenSet
	text  string
}

type tokenSet map[string]struct{}

func (s tokenSet) contains(t string) bool {
	_, ok := s[t]
	return ok
}

func (s tokenSet) containsAll(other tokenSet) bool {
	for t := range other {
		if !s.contains(t) {
			return false
		}
	}
	return true
}

// New parses a wildcard permission string. Parsing is case-insensitive:
// tokens are lower-cased so "USER:Read" and "user:read" are the same
// permission.
func New(s string) (*Wildcard, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidPermission
	}

	rawParts := strings.Split(s, partDivider)
	parts := make([]tokenSet, 0, len(rawParts))
	canonical := make([]string, 0, len(rawParts))

	for _, rawPart := range rawParts {
		tokens := strings.Split(rawPart, tokenDivider)
		set := make(tokenSet, len(tokens))
		ordered := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				return nil, ErrInvalidPermission
			}
			if !set.contains(tok) {
				set[tok] = struct{}{}
				ordered = append(ordered, tok)
			}
		}
		if len(set) == 0 {
			return nil, ErrInvalidPermission
		}
		parts = append(parts, set)
		canonical = append(canonical, strings.Join(ordered, tokenDivider))
	}

	return &Wildcard{
		parts: parts,
		text:  strings.Join(canonical, partDivider),
	}, nil
}

// MustNew is New for compile-time-constant permission strings; it panics
// on a parse error.
func MustNew(s string) *Wildcard {
	w, err := New(s)
	if err != nil {
		panic("permission: " + s + ": " + err.Error())
	}
	return w
}

// Implies walks both permissions part by part. A candidate part
// satisfies the requested part when it contains the wildcard token or is
// a superset of the requested tokens. A candidate that runs out of parts
// first satisfies the remaining requested parts (implicit trailing
// wildcard). A candidate with MORE parts than requested implies it only
// if every surplus part is itself a wildcard, mirroring the reference
// semantics: "user:read" does not imply "user", but "user:*" does.
func (w *Wildcard) Implies(p Permission) bool {
	if d, ok := p.(*Domain); ok {
		p = d.wildcard
	}
	other, ok := p.(*Wildcard)
	if !ok {
		return false
	}

	i := 0
	for ; i < len(other.parts); i++ {
		if i >= len(w.parts) {
			return true
		}
		part := w.parts[i]
		if !part.contains(wildcardTok) && !part.containsAll(other.parts[i]) {
			return false
		}
	}

	for ; i < len(w.parts); i++ {
		if !w.parts[i].contains(wildcardTok) {
			return false
		}
	}

	return true
}

// String returns the canonical encoding of the parsed permission.
func (w *Wildcard) String() string { return w.text }

// PartCount returns the number of parsed parts.
func (w *Wildcard) PartCount() int { return len(w.parts) }
