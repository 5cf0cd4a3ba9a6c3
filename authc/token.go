package authc

// Token carries the identity claim and proof submitted for one login
// attempt. Implementations are value objects; credentials that can be
// wiped after use should also implement [Clearable].
type Token interface {
	// Principal returns the claimed identity, typically a username.
	Principal() any

	// Credentials returns the submitted proof, typically a password or
	// signed token.
	Credentials() any
}

// HostToken is a Token that also knows the host the attempt came from.
type HostToken interface {
	Token
	Host() string
}

// Clearable is implemented by tokens whose credentials can be erased
// once the attempt finishes.
type Clearable interface {
	Clear()
}

// UsernamePassword is the standard interactive login token.
type UsernamePassword struct {
	Username string
	Password []byte
	Origin   string
}

// NewUsernamePassword builds a username/password token. The password is
// copied so the caller's buffer can be reused.
func NewUsernamePassword(username string, password []byte) *UsernamePassword {
	buf := make([]byte, len(password))
	copy(buf, password)
	return &UsernamePassword{Username: username, Password: buf}
}

func (t *UsernamePassword) Principal() any   { return t.Username }
func (t *UsernamePassword) Credentials() any { return t.Password }
func (t *UsernamePassword) Host() string     { return t.Origin }

// Clear zeroes the password bytes.
func (t *UsernamePassword) Clear() {
	for i := range t.Password {
		t.Password[i] = 0
	}
	t.Password = nil
}

// BearerToken carries a self-describing signed credential, such as a
// JWT. The principal is unknown until a realm verifies the token, so
// Principal returns the raw token itself.
type BearerToken struct {
	Raw    string
	Origin string
}

func (t *BearerToken) Principal() any   { return t.Raw }
func (t *BearerToken) Credentials() any { return t.Raw }
func (t *BearerToken) Host() string     { return t.Origin }
