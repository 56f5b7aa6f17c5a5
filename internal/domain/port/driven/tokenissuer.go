package driven

import (
	"errors"
	"time"
)

// ErrInvalidToken covers every reason a bearer token is refused: bad
// signature, malformed payload, expiry, missing subject. Callers cannot tell
// them apart.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and validates signed, time-bounded bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)

	// Validate returns the token subject, or ErrInvalidToken.
	Validate(token string) (string, error)
}
