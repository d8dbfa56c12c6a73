package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

type syncLogTableModel struct {
	JobID       string         `db:"job_id"`
	Mode        string         `db:"mode"`
	State       string         `db:"state"`
	Entities    pq.StringArray `db:"entities"`
	Records     int            `db:"records"`
	Error       sql.NullString `db:"error"`
	StartedAt   time.Time      `db:"started_at"`
	CompletedAt sql.NullTime   `db:"completed_at"`
}

func (m syncLogTableModel) toDomain() datasync.LogEntry {
	entry := datasync.LogEntry{
		JobID:     m.JobID,
		Mode:      datasync.Mode(m.Mode),
		State:     datasync.JobState(m.State),
		Records:   m.Records,
		Error:     m.Error.String,
		StartedAt: m.StartedAt,
	}
	for _, entity := range m.Entities {
		entry.Entities = append(entry.Entities, datasync.EntityType(entity))
	}
	if m.CompletedAt.Valid {
		completed := m.CompletedAt.Time
		entry.CompletedAt = &completed
	}
	return entry
}

const recordSyncLogQuery = `
INSERT INTO sync_logs (job_id, mode, state, entities, records, error, started_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (job_id)
DO UPDATE SET
    state = EXCLUDED.state,
    records = EXCLUDED.records,
    error = EXCLUDED.error,
    completed_at = EXCLUDED.completed_at`

// Record upserts by job id; the orchestrator writes once at start and
// again at every terminal transition.
func (r *SyncLogRepository) Record(ctx context.Context, entry datasync.LogEntry) error {
	if entry.JobID == "" {
		return fmt.Errorf("sync log entry requires a job id")
	}

	entities := make([]string, 0, len(entry.Entities))
	for _, entity := range entry.Entities {
		entities = append(entities, string(entity))
	}

	var errText sql.NullString
	if entry.Error != "" {
		errText = sql.NullString{String: entry.Error, Valid: true}
	}
	var completedAt sql.NullTime
	if entry.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *entry.CompletedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, recordSyncLogQuery,
		entry.JobID,
		string(entry.Mode),
		string(entry.State),
		pq.Array(entities),
		entry.Records,
		errText,
		entry.StartedAt,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("record sync log job_id=%s: %w", entry.JobID, err)
	}
	return nil
}

func (r *SyncLogRepository) Recent(ctx context.Context, limit int) ([]datasync.LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select(
		"job_id", "mode", "state", "entities", "records", "error", "started_at", "completed_at",
	).From("sync_logs").
		OrderBy("started_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build recent sync logs query: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent sync logs: %w", err)
	}

	out := make([]datasync.LogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
