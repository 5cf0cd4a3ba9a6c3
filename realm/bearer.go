package realm

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/credential"
)

// BearerConfig assembles a signed bearer-token realm.
type BearerConfig struct {
	// Name identifies the realm.
	Name string

	// KeyFunc yields the verification key for a parsed token header.
	KeyFunc jwt.Keyfunc

	// Methods whitelists acceptable signing algorithms, for example
	// "EdDSA" or "HS256". Required: accepting whatever algorithm the
	// token names defeats the signature.
	Methods []string

	// Issuer and Audience, when set, are enforced against the claims.
	Issuer   string
	Audience string
}

// NewBearer builds a realm that authenticates [authc.BearerToken]
// values by verifying their JWT signature and claims. The subject
// claim becomes the principal and the verified raw token the stored
// credential. The matcher re-verifies signature and temporal claims on
// every attempt, so a cached info record cannot outlive the token's
// exp claim.
func NewBearer(cfg BearerConfig) (*Realm, error) {
	if cfg.KeyFunc == nil {
		return nil, fmt.Errorf("%w: bearer realm %q needs a key function", authc.ErrConfiguration, cfg.Name)
	}
	if len(cfg.Methods) == 0 {
		return nil, fmt.Errorf("%w: bearer realm %q needs an algorithm whitelist", authc.ErrConfiguration, cfg.Name)
	}

	options := []jwt.ParserOption{jwt.WithValidMethods(cfg.Methods)}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	loader := func(_ context.Context, token authc.Token) (*authc.Info, error) {
		bearer, ok := token.(*authc.BearerToken)
		if !ok {
			return nil, fmt.Errorf("%w: bearer realm %q given %T", authc.ErrUnsupportedToken, cfg.Name, token)
		}

		var claims jwt.RegisteredClaims
		if _, err := jwt.ParseWithClaims(bearer.Raw, &claims, cfg.KeyFunc, options...); err != nil {
			return nil, classifyJWTError(err)
		}
		if claims.Subject == "" {
			return nil, fmt.Errorf("%w: bearer token has no subject", authc.ErrUnknownAccount)
		}
		return authc.NewInfo(cfg.Name, claims.Subject, bearer.Raw), nil
	}

	return New(Config{
		Name:    cfg.Name,
		Matcher: bearerMatcher{keyFunc: cfg.KeyFunc, options: options},
		Supports: func(t authc.Token) bool {
			_, ok := t.(*authc.BearerToken)
			return ok
		},
		Loader: loader,
	})
}

// bearerMatcher proves a bearer token by parsing and validating it
// again, then byte-comparing it against the stored credential. Parsing
// in the matcher keeps expiry live: the loader result may come from a
// cache, but exp and nbf are checked against the current clock on
// every attempt.
type bearerMatcher struct {
	keyFunc jwt.Keyfunc
	options []jwt.ParserOption
}

func (m bearerMatcher) Matches(token authc.Token, info *authc.Info) (bool, error) {
	bearer, ok := token.(*authc.BearerToken)
	if !ok {
		return false, fmt.Errorf("%w: bearer matcher given %T", authc.ErrUnsupportedToken, token)
	}
	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(bearer.Raw, &claims, m.keyFunc, m.options...); err != nil {
		return false, classifyJWTError(err)
	}
	return credential.Plain{}.Matches(token, info)
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", authc.ErrExpiredCredentials, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", authc.ErrIncorrectCredentials, err)
	default:
		return fmt.Errorf("%w: %v", authc.ErrAuthentication, err)
	}
}
