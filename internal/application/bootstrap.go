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

// InitialMigration names the one-time seed of the admin account and the
// starter catalog.
const InitialMigration = "0001_initial_books_and_admin"

// AdminAccount is the administrator created by the initial seed.
type AdminAccount struct {
	Username string
	Password string
}

// BootstrapGuard runs the initial seed at most once across every process that
// shares the store. The claim is a single insert-if-absent on the migration
// lock; whoever creates the lock seeds, everyone else returns.
type BootstrapGuard struct {
	migrations driven.MigrationStore
	users      driven.UserStore
	books      driven.BookStore
	hasher     driven.PasswordHasher
	admin      AdminAccount
	seedBooks  []model.Book
	now        func() time.Time
	logger     *slog.Logger
}

// NewBootstrapGuard creates a BootstrapGuard that seeds admin and SeedBooks.
func NewBootstrapGuard(
	migrations driven.MigrationStore,
	users driven.UserStore,
	books driven.BookStore,
	hasher driven.PasswordHasher,
	admin AdminAccount,
	logger *slog.Logger,
) *BootstrapGuard {
	return &BootstrapGuard{
		migrations: migrations,
		users:      users,
		books:      books,
		hasher:     hasher,
		admin:      admin,
		seedBooks:  SeedBooks(),
		now:        time.Now,
		logger:     logger,
	}
}

// Run claims InitialMigration and, if this call won the claim, seeds. won
// reports whether the claim was won, including when seeding then failed.
//
// A failed seed returns ErrSeedFailure and leaves the lock in place: the seed
// is not retried on later starts and the claim is not released.
func (g *BootstrapGuard) Run(ctx context.Context) (won bool, err error) {
	claimed, err := g.migrations.Claim(ctx, InitialMigration, g.now().UTC())
	if err != nil {
		return false, fmt.Errorf("claim migration %s: %w", InitialMigration, err)
	}
	if !claimed {
		g.logger.Info("migration already executed, skipping", "migration", InitialMigration)
		return false, nil
	}

	g.logger.Info("running migration", "migration", InitialMigration)

	if err := g.seed(ctx); err != nil {
		g.logger.Error("migration seed failed; lock kept, will not retry",
			"migration", InitialMigration,
			"error", err,
		)
		return true, fmt.Errorf("%w: %s: %w", ErrSeedFailure, InitialMigration, err)
	}

	g.logger.Info("migration executed successfully",
		"migration", InitialMigration,
		"books", len(g.seedBooks),
		"admin", g.admin.Username,
	)
	return true, nil
}

func (g *BootstrapGuard) seed(ctx context.Context) error {
	hash, err := g.hasher.Hash(g.admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = g.users.Insert(ctx, model.CredentialRecord{Username: g.admin.Username, PasswordHash: hash})
	switch {
	case errors.Is(err, driven.ErrDuplicateUsername):
		// Someone registered the name between our claim and this insert.
		g.logger.Warn("admin account already exists, keeping it", "username", g.admin.Username)
	case err != nil:
		return fmt.Errorf("insert admin account: %w", err)
	}

	if err := g.books.InsertMany(ctx, g.seedBooks); err != nil {
		return fmt.Errorf("insert seed books: %w", err)
	}

	return nil
}
