package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 256
)

// TokenTypeBearer is the token_type reported for issued access tokens.
const TokenTypeBearer = "bearer"

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	Type      string
	ExpiresIn time.Duration
}

// AuthService implements registration and password login on top of the
// credential store, the password policy and the token issuer.
type AuthService struct {
	users        driven.UserStore
	hasher       driven.PasswordHasher
	tokens       driven.TokenIssuer
	tokenTTL     time.Duration
	storeTimeout time.Duration
	logger       *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an AuthService. tokenTTL is the lifetime of issued
// tokens; storeTimeout bounds each store call (zero disables the bound).
func NewAuthService(
	users driven.UserStore,
	hasher driven.PasswordHasher,
	tokens driven.TokenIssuer,
	tokenTTL time.Duration,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		tokenTTL:     tokenTTL,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Register creates a credential record for username. It returns
// driven.ErrDuplicateUsername if the name is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return model.User{}, ErrInvalidUsername
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return model.User{}, ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	id, err := s.users.Insert(storeCtx, model.CredentialRecord{Username: username, PasswordHash: hash})
	if err != nil {
		return model.User{}, fmt.Errorf("register %q: %w", username, err)
	}
	s.logger.Info("user registered", "user_id", id, "username", username)

	rec, err := s.users.FindByID(storeCtx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("load registered user: %w", err)
	}
	if rec == nil {
		return model.User{ID: id, Username: username}, nil
	}

	return rec.User(), nil
}

// Login verifies username and password and issues an access token. Unknown
// users and wrong passwords both yield ErrInvalidCredentials. Store failures
// are returned as-is so callers can report them as unavailability.
func (s *AuthService) Login(ctx context.Context, username, password string) (AccessToken, error) {
	username = strings.TrimSpace(username)

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	rec, err := s.users.FindByUsername(storeCtx, username)
	if err != nil {
		return AccessToken{}, fmt.Errorf("login: %w", err)
	}
	if rec == nil {
		s.burnVerify(password)
		return AccessToken{}, ErrInvalidCredentials
	}

	res, err := s.hasher.Verify(password, rec.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", "user_id", rec.ID, "error", err)
		return AccessToken{}, ErrInvalidCredentials
	}
	if !res.Match {
		return AccessToken{}, ErrInvalidCredentials
	}

	if res.RehashNeeded {
		s.upgradeHash(storeCtx, rec, password)
	}

	tok, err := s.tokens.Issue(rec.Username, s.tokenTTL)
	if err != nil {
		return AccessToken{}, fmt.Errorf("issue token: %w", err)
	}

	return AccessToken{Token: tok, Type: TokenTypeBearer, ExpiresIn: s.tokenTTL}, nil
}

// upgradeHash rewrites a hash made under weaker parameters. The login has
// already succeeded, so failures are only logged.
func (s *AuthService) upgradeHash(ctx context.Context, rec *model.CredentialRecord, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", rec.ID, "error", err)
		return
	}

	if err := s.users.UpdatePasswordHash(ctx, rec.ID, hash); err != nil {
		if errors.Is(err, driven.ErrUserNotFound) {
			s.logger.Warn("user removed before password rehash", "user_id", rec.ID)
			return
		}
		s.logger.Warn("password rehash not persisted", "user_id", rec.ID, "error", err)
		return
	}

	s.logger.Info("password hash upgraded", "user_id", rec.ID)
}

// burnVerify runs one verification against a throwaway hash so an unknown
// username costs about as much as a wrong password.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("bookshelf-unknown-user")
		if err != nil {
			s.logger.Warn("timing hash unavailable", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
