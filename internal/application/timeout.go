package application

import (
	"context"
	"time"
)

// withStoreTimeout bounds a store round-trip. A zero timeout leaves ctx as is.
func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
