// Package token issues and validates HMAC-signed JWT bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TokenIssuer = (*Issuer)(nil)

// ErrUnsupportedAlgorithm is returned by NewIssuer for anything but the HMAC family.
var ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")

// Issuer signs tokens with a secret held for the process lifetime. Every
// instance sharing the secret accepts the others' tokens.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the wall clock used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer creates an Issuer for one of HS256, HS384 or HS512.
func NewIssuer(secret []byte, algorithm string, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	// Copy so later mutation of the caller's slice cannot change the key.
	key := make([]byte, len(secret))
	copy(key, secret)

	i := &Issuer{secret: key, method: method, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue mints a token for subject valid from now until now+ttl.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate returns the subject of a token that carries a valid signature, has
// not reached exp, and names a subject. Expiry is exact; there is no leeway.
func (i *Issuer) Validate(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", driven.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", driven.ErrInvalidToken)
	}

	return claims.Subject, nil
}
