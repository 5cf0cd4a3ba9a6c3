package credential

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/MrEthical07/aegis/authc"
)

// ErrUncomparable reports stored or submitted credentials in a form
// the matcher cannot evaluate, such as a corrupt hash encoding.
var ErrUncomparable = errors.New("credentials cannot be compared")

// Matcher decides whether a token's submitted credentials prove the
// account described by info.
type Matcher interface {
	Matches(token authc.Token, info *authc.Info) (bool, error)
}

// Plain compares credentials byte for byte in constant time. It fits
// credentials that are already verified proofs, such as a bearer token
// a realm validated before storing it on the info.
type Plain struct{}

// Matches reports whether the submitted and stored credentials are
// byte-equal.
func (Plain) Matches(token authc.Token, info *authc.Info) (bool, error) {
	submitted, err := credentialBytes(token.Credentials())
	if err != nil {
		return false, err
	}
	stored, err := credentialBytes(info.Credentials)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(submitted, stored) == 1, nil
}

func credentialBytes(v any) ([]byte, error) {
	switch c := v.(type) {
	case []byte:
		return c, nil
	case string:
		return []byte(c), nil
	case nil:
		return nil, fmt.Errorf("%w: missing credentials", ErrUncomparable)
	default:
		return nil, fmt.Errorf("%w: unsupported credential type %T", ErrUncomparable, v)
	}
}
