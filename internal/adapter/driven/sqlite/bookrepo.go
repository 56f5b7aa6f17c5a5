package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BookStore = (*BookRepo)(nil)

// BookRepo is the SQLite implementation of the BookStore port interface.
type BookRepo struct {
	db *DB
}

// NewBookRepo creates a new BookRepo backed by the given DB.
func NewBookRepo(db *DB) *BookRepo {
	return &BookRepo{db: db}
}

// InsertMany inserts all books in a single transaction; either every book is
// stored or none is. Books without an id get a fresh one, and zero timestamps
// default to now.
func (r *BookRepo) InsertMany(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return storeError("begin insert books", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO books (id, title, author, published_date, genre, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return storeError("prepare insert books", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range books {
		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := b.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		updatedAt := b.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}

		_, err := stmt.ExecContext(ctx,
			id, b.Title, b.Author, b.PublishedDate.UTC().Format("2006-01-02"),
			b.Genre, b.Price, formatTime(createdAt), formatTime(updatedAt),
		)
		if err != nil {
			return storeError(fmt.Sprintf("insert book %q", b.Title), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit insert books", err)
	}

	return nil
}

// Count returns the number of stored books.
func (r *BookRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, storeError("count books", err)
	}
	return n, nil
}
