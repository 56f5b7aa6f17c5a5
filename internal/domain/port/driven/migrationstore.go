package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

// MigrationStore defines the driven port for one-time migration locks.
type MigrationStore interface {
	// Claim atomically inserts the lock for name if it is absent. It returns
	// true only for the single caller whose insert created the lock; every
	// other caller observes the existing lock and gets false.
	Claim(ctx context.Context, name string, at time.Time) (bool, error)

	// Get returns the lock for name, or (nil, nil) if it has not been claimed.
	Get(ctx context.Context, name string) (*model.MigrationLock, error)
}
