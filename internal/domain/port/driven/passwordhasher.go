package driven

import "errors"

// ErrMalformedHash is returned when a stored hash cannot be decoded. A wrong
// password is not an error; see VerifyResult.
var ErrMalformedHash = errors.New("malformed password hash")

// VerifyResult is the outcome of checking a password against a stored hash.
// RehashNeeded is only ever true together with Match.
type VerifyResult struct {
	Match        bool
	RehashNeeded bool
}

// PasswordHasher hashes and verifies passwords. Implementations never persist
// anything; upgrading a stored hash is the caller's job.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (VerifyResult, error)
}
