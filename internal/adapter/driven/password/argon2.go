// Package password implements the password policy with Argon2id.
//
// Hashes are encoded in PHC string format so the parameters they were made
// with travel with them:
//
//	$argon2id$v=19$m=<memory KiB>,t=<time>,p=<threads>$<salt>$<key>
//
// Salt and key use unpadded standard base64.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// DefaultParams is the cost the policy currently mandates.
var DefaultParams = model.PasswordParams{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 2,
	SaltLen: 16,
	KeyLen:  32,
}

// Compile-time interface satisfaction check.
var _ driven.PasswordHasher = (*Hasher)(nil)

// Hasher hashes new passwords with its configured params and flags stored
// hashes made with weaker ones.
type Hasher struct {
	params model.PasswordParams
}

// NewHasher returns a Hasher for params. Zero fields fall back to DefaultParams.
func NewHasher(params model.PasswordParams) *Hasher {
	if params.Memory == 0 {
		params.Memory = DefaultParams.Memory
	}
	if params.Time == 0 {
		params.Time = DefaultParams.Time
	}
	if params.Threads == 0 {
		params.Threads = DefaultParams.Threads
	}
	if params.SaltLen == 0 {
		params.SaltLen = DefaultParams.SaltLen
	}
	if params.KeyLen == 0 {
		params.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: params}
}

// Params returns the parameters new hashes are produced with.
func (h *Hasher) Params() model.PasswordParams {
	return h.params
}

// Hash derives a key from plaintext with a fresh random salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks plaintext against an encoded hash. A wrong password yields
// Match=false and a nil error; only an undecodable hash is an error.
func (h *Hasher) Verify(plaintext, encoded string) (driven.VerifyResult, error) {
	d, err := decode(encoded)
	if err != nil {
		return driven.VerifyResult{}, err
	}

	key := argon2.IDKey([]byte(plaintext), d.salt, d.params.Time, d.params.Memory, d.params.Threads, uint32(len(d.key)))
	if subtle.ConstantTimeCompare(key, d.key) != 1 {
		return driven.VerifyResult{}, nil
	}

	return driven.VerifyResult{
		Match:        true,
		RehashNeeded: h.needsRehash(d),
	}, nil
}

func (h *Hasher) needsRehash(d decoded) bool {
	return d.version < argon2.Version ||
		d.params.Memory < h.params.Memory ||
		d.params.Time < h.params.Time ||
		d.params.Threads < h.params.Threads ||
		uint32(len(d.salt)) < h.params.SaltLen ||
		uint32(len(d.key)) < h.params.KeyLen
}

type decoded struct {
	version int
	params  model.PasswordParams
	salt    []byte
	key     []byte
}

func decode(encoded string) (decoded, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return decoded{}, fmt.Errorf("%w: expected 5 fields", driven.ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return decoded{}, fmt.Errorf("%w: unsupported variant %q", driven.ErrMalformedHash, parts[1])
	}

	var d decoded
	if _, err := fmt.Sscanf(parts[2], "v=%d", &d.version); err != nil {
		return decoded{}, fmt.Errorf("%w: version: %v", driven.ErrMalformedHash, err)
	}
	if d.version > argon2.Version {
		return decoded{}, fmt.Errorf("%w: unknown version %d", driven.ErrMalformedHash, d.version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.params.Memory, &d.params.Time, &threads); err != nil {
		return decoded{}, fmt.Errorf("%w: params: %v", driven.ErrMalformedHash, err)
	}
	if d.params.Memory == 0 || d.params.Time == 0 || threads == 0 || threads > 255 {
		return decoded{}, fmt.Errorf("%w: params out of range", driven.ErrMalformedHash)
	}
	d.params.Threads = uint8(threads)

	var err error
	d.salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil || len(d.salt) == 0 {
		return decoded{}, fmt.Errorf("%w: salt", driven.ErrMalformedHash)
	}
	d.key, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil || len(d.key) == 0 {
		return decoded{}, fmt.Errorf("%w: key", driven.ErrMalformedHash)
	}

	return d, nil
}
