package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
// Uniqueness of usernames is enforced by the users.username UNIQUE index, so
// two concurrent inserts of the same name cannot both succeed.
type UserRepo struct {
	db  *DB
	now func() time.Time
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

// FindByUsername retrieves a credential record by username. Returns nil, nil
// if no record matches.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.CredentialRecord, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`

	rec, err := scanCredential(r.db.Reader.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("find user %q", username), err)
	}

	return rec, nil
}

// FindByID retrieves a credential record by id. Returns nil, nil if no record matches.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.CredentialRecord, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`

	rec, err := scanCredential(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("find user id %s", id), err)
	}

	return rec, nil
}

// Insert stores a new credential record with a fresh id and creation time.
// Any ID or CreatedAt on rec is ignored.
func (r *UserRepo) Insert(ctx context.Context, rec model.CredentialRecord) (string, error) {
	const query = `INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`

	id := uuid.NewString()
	_, err := r.db.Writer.ExecContext(ctx, query, id, rec.Username, rec.PasswordHash, formatTime(r.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert user %q: %w", rec.Username, driven.ErrDuplicateUsername)
		}
		return "", storeError(fmt.Sprintf("insert user %q", rec.Username), err)
	}

	return id, nil
}

// UpdatePasswordHash rewrites the password hash of one record and nothing else.
// Concurrent updates for the same id are last-write-wins.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const query = `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, hash, id)
	if err != nil {
		return storeError(fmt.Sprintf("update password hash for %s", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("check rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("update password hash for %s: %w", id, driven.ErrUserNotFound)
	}

	return nil
}

// Delete removes a credential record. Tokens already issued to the user stop
// resolving on their next request.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return storeError(fmt.Sprintf("delete user %s", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("check rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete user %s: %w", id, driven.ErrUserNotFound)
	}

	return nil
}

func scanCredential(row *sql.Row) (*model.CredentialRecord, error) {
	var rec model.CredentialRecord
	var createdAt string

	if err := row.Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &rec, nil
}
