package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// IdentityState is where a request stands in identity resolution.
type IdentityState int

// Identity states. Every request starts Unauthenticated and ends in exactly
// one of the other two.
const (
	IdentityUnauthenticated IdentityState = iota
	IdentityAuthenticated
	IdentityRejected
)

func (s IdentityState) String() string {
	switch s {
	case IdentityAuthenticated:
		return "authenticated"
	case IdentityRejected:
		return "rejected"
	default:
		return "unauthenticated"
	}
}

// Identity is the outcome of resolving a bearer token. User is set only when
// State is IdentityAuthenticated; Reason only when it is IdentityRejected
// (driven.ErrInvalidToken or driven.ErrUserNotFound for the expected cases).
type Identity struct {
	State  IdentityState
	User   model.User
	Reason error
}

// Authenticated reports whether the identity was resolved to a current user.
func (i Identity) Authenticated() bool {
	return i.State == IdentityAuthenticated
}

func rejected(reason error) Identity {
	return Identity{State: IdentityRejected, Reason: reason}
}

// IdentityResolver turns a presented bearer token into the current user.
// Nothing is cached: every call validates the token and reads the store, so
// deleting a user locks out their outstanding tokens immediately.
type IdentityResolver struct {
	tokens       driven.TokenIssuer
	users        driven.UserStore
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(tokens driven.TokenIssuer, users driven.UserStore, storeTimeout time.Duration, logger *slog.Logger) *IdentityResolver {
	return &IdentityResolver{
		tokens:       tokens,
		users:        users,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Resolve validates token and loads its subject. Rejections are returned as
// an Identity, not an error. The error is non-nil only when the store could
// not be reached, which callers must report as unavailability rather than
// an authentication failure.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil {
		return rejected(driven.ErrInvalidToken), nil
	}

	storeCtx, cancel := withStoreTimeout(ctx, r.storeTimeout)
	defer cancel()

	rec, err := r.users.FindByUsername(storeCtx, subject)
	switch {
	case errors.Is(err, driven.ErrStoreUnavailable):
		return Identity{State: IdentityUnauthenticated}, fmt.Errorf("resolve identity: %w", err)
	case err != nil:
		r.logger.Error("identity lookup failed", "error", err)
		return rejected(err), nil
	case rec == nil:
		return rejected(driven.ErrUserNotFound), nil
	}

	return Identity{State: IdentityAuthenticated, User: rec.User()}, nil
}
