package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MigrationStore = (*MigrationRepo)(nil)

// MigrationRepo is the SQLite implementation of the MigrationStore port interface.
type MigrationRepo struct {
	db *DB
}

// NewMigrationRepo creates a new MigrationRepo backed by the given DB.
func NewMigrationRepo(db *DB) *MigrationRepo {
	return &MigrationRepo{db: db}
}

// Claim inserts the lock row for name unless it already exists. The check and
// the write are one statement, so among any number of racing processes exactly
// one sees a changed row.
func (r *MigrationRepo) Claim(ctx context.Context, name string, at time.Time) (bool, error) {
	const query = `INSERT INTO migrations (name, executed_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`

	result, err := r.db.Writer.ExecContext(ctx, query, name, formatTime(at))
	if err != nil {
		return false, storeError(fmt.Sprintf("claim migration %q", name), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, storeError("check rows affected", err)
	}

	return rows == 1, nil
}

// Get retrieves the lock row for name. Returns nil, nil if it is absent.
func (r *MigrationRepo) Get(ctx context.Context, name string) (*model.MigrationLock, error) {
	const query = `SELECT name, executed_at FROM migrations WHERE name = ?`

	var lock model.MigrationLock
	var executedAt string
	err := r.db.Reader.QueryRowContext(ctx, query, name).Scan(&lock.Name, &executedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("get migration %q", name), err)
	}

	lock.ExecutedAt, err = parseTime(executedAt)
	if err != nil {
		return nil, fmt.Errorf("parse executed_at: %w", err)
	}

	return &lock, nil
}
