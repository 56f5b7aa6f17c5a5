package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	passwordadapter "github.com/ericfisherdev/bookshelf/internal/adapter/driven/password"
	sqliteadapter "github.com/ericfisherdev/bookshelf/internal/adapter/driven/sqlite"
	tokenadapter "github.com/ericfisherdev/bookshelf/internal/adapter/driven/token"
	httphandler "github.com/ericfisherdev/bookshelf/internal/adapter/driving/http"
	"github.com/ericfisherdev/bookshelf/internal/application"
	"github.com/ericfisherdev/bookshelf/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// run starts the API server, or with the "migrate" argument applies
// migrations and the initial seed and exits.
func run(args []string) error {
	migrateOnly := false
	if len(args) > 0 {
		switch args[0] {
		case "migrate":
			migrateOnly = true
		case "serve":
		default:
			return fmt.Errorf("unknown command %q (want serve or migrate)", args[0])
		}
	}

	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"token_algorithm", cfg.TokenAlgorithm,
		"token_ttl", cfg.TokenTTL,
		"store_timeout", cfg.StoreTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	migrationStore := sqliteadapter.NewMigrationRepo(db)
	bookStore := sqliteadapter.NewBookRepo(db)
	hasher := passwordadapter.NewHasher(cfg.Password)
	issuer, err := tokenadapter.NewIssuer(cfg.SecretKey, cfg.TokenAlgorithm)
	if err != nil {
		return err
	}

	// 6. Initial seed, at most once across every instance sharing the store.
	guard := application.NewBootstrapGuard(
		migrationStore,
		userStore,
		bookStore,
		hasher,
		application.AdminAccount{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		slog.Default(),
	)
	if _, err := guard.Run(ctx); err != nil {
		if !errors.Is(err, application.ErrSeedFailure) {
			return err
		}
		// The lock stays claimed; serving continues without the seed.
		slog.Error("initial seed incomplete", "migration", application.InitialMigration, "error", err)
	}

	if migrateOnly {
		lock, err := migrationStore.Get(ctx, application.InitialMigration)
		if err != nil {
			return err
		}
		books, err := bookStore.Count(ctx)
		if err != nil {
			return err
		}
		attrs := []any{"books", books}
		if lock != nil {
			attrs = append(attrs, "initial_seed_at", lock.ExecutedAt)
		}
		slog.Info("migrate complete", attrs...)
		return nil
	}

	// 7. Create services and HTTP handler.
	authSvc := application.NewAuthService(userStore, hasher, issuer, cfg.TokenTTL, cfg.StoreTimeout, slog.Default())
	resolver := application.NewIdentityResolver(issuer, userStore, cfg.StoreTimeout, slog.Default())
	apiHandler := httphandler.NewHandler(authSvc, resolver, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, slog.Default(), cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// 8. Wait for shutdown signal or a server failure.
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
