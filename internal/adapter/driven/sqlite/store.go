package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/bookshelf/internal/domain/port/driven"
)

// storeError marks a driver or context failure as driven.ErrStoreUnavailable
// while keeping the cause (e.g. context.DeadlineExceeded) in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, driven.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

// formatTime stores timestamps as RFC 3339 UTC text so every process reads
// back the same instant regardless of its local zone.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
