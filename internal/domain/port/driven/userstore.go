package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

// Sentinel errors returned by store implementations.
var (
	// ErrDuplicateUsername indicates a credential record with the same username already exists.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUserNotFound indicates the requested credential record does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable indicates the shared store could not be reached or did
	// not answer before the caller's deadline. It is never an authentication failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// UserStore defines the driven port for credential record persistence.
// Every method is a single-document operation.
type UserStore interface {
	// FindByUsername returns (nil, nil) if no record has that username.
	FindByUsername(ctx context.Context, username string) (*model.CredentialRecord, error)

	// FindByID returns (nil, nil) if no record has that id.
	FindByID(ctx context.Context, id string) (*model.CredentialRecord, error)

	// Insert stores a new record and returns its store-assigned id.
	// Returns ErrDuplicateUsername if the username is taken.
	Insert(ctx context.Context, rec model.CredentialRecord) (string, error)

	// UpdatePasswordHash replaces only the password hash of the record.
	// Returns ErrUserNotFound if the record does not exist.
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// Delete removes the record. Returns ErrUserNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
