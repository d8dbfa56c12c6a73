package datasync

import (
	"fmt"
	"strings"
	"time"
)

// EntityType identifies one provider-owned record family handled by the
// pipeline. Order matters: players reference teams, stats reference both
// players and games.
type EntityType string

const (
	EntityTeams   EntityType = "teams"
	EntityPlayers EntityType = "players"
	EntityGames   EntityType = "games"
	EntityStats   EntityType = "stats"
)

// EntityOrder is the canonical dependency order for a full sync.
var EntityOrder = []EntityType{EntityTeams, EntityPlayers, EntityGames, EntityStats}

func ParseEntityType(value string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "teams", "team":
		return EntityTeams, nil
	case "players", "player":
		return EntityPlayers, nil
	case "games", "game":
		return EntityGames, nil
	case "stats", "stat", "player_stats":
		return EntityStats, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", value)
	}
}

type Mode string

const (
	ModeFull      Mode = "full"
	ModeSelective Mode = "selective"
)

// SubJobState tracks one entity type's progress through the pipeline.
type SubJobState string

const (
	SubJobPending       SubJobState = "pending"
	SubJobFetching      SubJobState = "fetching"
	SubJobMapping       SubJobState = "mapping"
	SubJobUpserting     SubJobState = "upserting"
	SubJobRecalculating SubJobState = "recalculating"
	SubJobCompleted     SubJobState = "completed"
	SubJobFailed        SubJobState = "failed"
	SubJobCancelled     SubJobState = "cancelled"
)

func (s SubJobState) Terminal() bool {
	return s == SubJobCompleted || s == SubJobFailed || s == SubJobCancelled
}

// JobState is derived from sub-job states, never set directly.
type JobState string

const (
	JobPending        JobState = "pending"
	JobRunning        JobState = "running"
	JobPartialFailure JobState = "partial_failure"
	JobCompleted      JobState = "completed"
	JobFailed         JobState = "failed"
	JobCancelled      JobState = "cancelled"
)

// UpsertOutcome tells the caller what an upsert actually did to a row.
type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeUpdated  UpsertOutcome = "updated"
	OutcomeSkipped  UpsertOutcome = "skipped"
)

// RowError describes one quarantined row with enough context to diagnose
// without exposing the raw provider payload.
type RowError struct {
	EntityType EntityType `json:"entity_type"`
	Key        string     `json:"key"`
	Field      string     `json:"field,omitempty"`
	Reason     string     `json:"reason"`
}

// BatchReport accumulates per-row outcomes for one upsert batch.
type BatchReport struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

func (r *BatchReport) Merge(other BatchReport) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *BatchReport) Record(outcome UpsertOutcome) {
	switch outcome {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	}
}

func (r *BatchReport) AddFailure(entity EntityType, key, field, reason string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{EntityType: entity, Key: key, Field: field, Reason: reason})
}

// Total counts rows that were actually written or confirmed unchanged.
func (r BatchReport) Total() int {
	return r.Inserted + r.Updated + r.Skipped
}

func (r BatchReport) String() string {
	return fmt.Sprintf("inserted=%d updated=%d skipped=%d failed=%d", r.Inserted, r.Updated, r.Skipped, r.Failed)
}

// SubJobStatus is a point-in-time snapshot; safe to hand to callers.
type SubJobStatus struct {
	Entity   EntityType  `json:"entity"`
	State    SubJobState `json:"state"`
	Progress int         `json:"progress"`
	Report   BatchReport `json:"report"`
	Retries  int         `json:"retries"`
	Error    string      `json:"error,omitempty"`
}

type JobStatus struct {
	ID          string         `json:"id"`
	Mode        Mode           `json:"mode"`
	State       JobState       `json:"state"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	SubJobs     []SubJobStatus `json:"sub_jobs"`
	Errors      []RowError     `json:"errors,omitempty"`
}

// Progress is the mean of sub-job progress, 0..100.
func (j JobStatus) Progress() int {
	if len(j.SubJobs) == 0 {
		return 0
	}
	total := 0
	for _, sub := range j.SubJobs {
		total += sub.Progress
	}
	return total / len(j.SubJobs)
}
