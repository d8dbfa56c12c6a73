package team

import (
	"context"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

// Repository provides access to team storage.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Team, error)
	GetByNBATeamID(ctx context.Context, nbaTeamID int64) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	Upsert(ctx context.Context, t *Team) (datasync.UpsertOutcome, error)
}
