package application

import "errors"

// Sentinel errors returned by application services.
var (
	// ErrInvalidCredentials is the single outcome for an unknown username or a
	// wrong password; callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidUsername indicates a username outside 3..50 characters.
	ErrInvalidUsername = errors.New("username must be between 3 and 50 characters")

	// ErrInvalidPassword indicates a password outside 8..256 characters.
	ErrInvalidPassword = errors.New("password must be between 8 and 256 characters")

	// ErrSeedFailure indicates the bootstrap claim was won but seeding did not
	// finish. The claim is kept and the seed is not retried.
	ErrSeedFailure = errors.New("bootstrap seed failed")
)
