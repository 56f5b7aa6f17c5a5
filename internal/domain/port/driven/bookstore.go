package driven

import (
	"context"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

// BookStore defines the driven port used to seed the catalog.
type BookStore interface {
	InsertMany(ctx context.Context, books []model.Book) error
	Count(ctx context.Context) (int, error)
}
