package datasync

import (
	"context"
	"time"
)

// LogEntry is one persisted record of a sync job run.
type LogEntry struct {
	JobID       string
	Mode        Mode
	State       JobState
	Entities    []EntityType
	Records     int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// LogRepository persists job outcomes for the admin status view.
type LogRepository interface {
	Record(ctx context.Context, entry LogEntry) error
	Recent(ctx context.Context, limit int) ([]LogEntry, error)
}
