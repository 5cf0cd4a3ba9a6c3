package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/MrEthical07/aegis/authc"
)

const (
	argon2ID      = "argon2id"
	minMemoryKB   = uint32(8 * 1024)
	minSaltLength = 16
	minKeyLength  = uint32(16)
)

// Argon2Params tunes the argon2id key derivation.
type Argon2Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the baseline cost parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 matches passwords against stored argon2id hashes in PHC
// string format ($argon2id$v=19$m=...,t=...,p=...$salt$hash). The
// stored credential carries its own parameters, so hashes minted under
// older costs keep verifying after the params are raised.
type Argon2 struct {
	params Argon2Params
}

// NewArgon2 builds a matcher-hasher pair with the given cost
// parameters.
func NewArgon2(params Argon2Params) (*Argon2, error) {
	switch {
	case params.Memory < minMemoryKB:
		return nil, fmt.Errorf("argon2 memory must be >= %d KB", minMemoryKB)
	case params.Time < 1:
		return nil, fmt.Errorf("argon2 time must be >= 1")
	case params.Parallelism < 1:
		return nil, fmt.Errorf("argon2 parallelism must be >= 1")
	case params.SaltLength < minSaltLength:
		return nil, fmt.Errorf("argon2 salt length must be >= %d", minSaltLength)
	case params.KeyLength < minKeyLength:
		return nil, fmt.Errorf("argon2 key length must be >= %d", minKeyLength)
	}
	return &Argon2{params: params}, nil
}

// Hash derives and encodes a PHC hash for password, for storing on an
// account record.
func (a *Argon2) Hash(password []byte) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(password, salt, a.params.Time, a.params.Memory, a.params.Parallelism, a.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID,
		argon2.Version,
		a.params.Memory,
		a.params.Time,
		a.params.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Matches derives a key from the submitted password under the stored
// hash's own parameters and compares in constant time.
func (a *Argon2) Matches(token authc.Token, info *authc.Info) (bool, error) {
	password, err := credentialBytes(token.Credentials())
	if err != nil {
		return false, err
	}
	encoded, err := credentialBytes(info.Credentials)
	if err != nil {
		return false, err
	}

	stored, err := parsePHC(string(encoded))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUncomparable, err)
	}

	computed := argon2.IDKey(password, stored.salt, stored.time, stored.memory, stored.parallelism, stored.keyLength)
	return subtle.ConstantTimeCompare(computed, stored.hash) == 1, nil
}

// NeedsRehash reports whether encoded was minted under weaker
// parameters than the matcher's current ones.
func (a *Argon2) NeedsRehash(encoded string) (bool, error) {
	stored, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	return stored.memory < a.params.Memory ||
		stored.time < a.params.Time ||
		stored.parallelism < a.params.Parallelism ||
		stored.keyLength != a.params.KeyLength, nil
}

type phcHash struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
	keyLength   uint32
}

func parsePHC(encoded string) (*phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("malformed PHC string")
	}
	if parts[1] != argon2ID {
		return nil, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, fmt.Errorf("malformed argon2 version")
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	p := &phcHash{}
	for _, pair := range strings.Split(parts[3], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed parameter %q", pair)
		}
		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed memory parameter")
			}
			p.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed time parameter")
			}
			p.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("malformed parallelism parameter")
			}
			p.parallelism = uint8(v)
		default:
			return nil, fmt.Errorf("unsupported parameter %q", kv[0])
		}
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, fmt.Errorf("missing cost parameters")
	}

	if p.salt, err = base64.StdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("malformed salt encoding")
	}
	if len(p.salt) < minSaltLength {
		return nil, fmt.Errorf("salt too short")
	}
	if p.hash, err = base64.StdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("malformed hash encoding")
	}
	if len(p.hash) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	p.keyLength = uint32(len(p.hash))
	return p, nil
}
