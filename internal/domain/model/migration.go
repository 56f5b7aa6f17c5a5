package model

import "time"

// MigrationLock marks a one-time data migration as claimed. Its existence is
// the only record that the migration has run (or is running).
type MigrationLock struct {
	Name       string
	ExecutedAt time.Time
}
