package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

func TestBookRepo_InsertManyAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	books := []model.Book{
		{Title: "1984", Author: "George Orwell", PublishedDate: time.Date(1949, 6, 8, 0, 0, 0, 0, time.UTC), Genre: "Ciencia Ficción", Price: 15.99},
		{Title: "Metro 2033", Author: "Dmitry Glukhovsky", PublishedDate: time.Date(2005, 11, 1, 0, 0, 0, 0, time.UTC), Genre: "Ciencia Ficción", Price: 12.99},
	}
	require.NoError(t, repo.InsertMany(ctx, books))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var title, published string
	require.NoError(t, db.Reader.QueryRow(`SELECT title, published_date FROM books WHERE author = ?`, "George Orwell").Scan(&title, &published))
	assert.Equal(t, "1984", title)
	assert.Equal(t, "1949-06-08", published)
}

func TestBookRepo_InsertManyEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertMany(ctx, nil))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBookRepo_InsertManyIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	books := []model.Book{
		{ID: "dup", Title: "A", Author: "X", Genre: "G", Price: 1},
		{ID: "dup", Title: "B", Author: "Y", Genre: "G", Price: 2},
	}
	require.Error(t, repo.InsertMany(ctx, books))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
