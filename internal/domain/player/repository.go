package player

import (
	"context"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

// SearchFilter narrows List results. Zero value lists everything active.
type SearchFilter struct {
	Query           string
	TeamID          *int64
	IncludeInactive bool
	Limit           int
	Offset          int
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Player, error)
	GetByNBAPlayerID(ctx context.Context, nbaPlayerID int64) (*Player, error)
	Search(ctx context.Context, filter SearchFilter) ([]Player, int, error)
	Upsert(ctx context.Context, p *Player) (datasync.UpsertOutcome, error)
	// DeactivateMissing flips is_active off for every player whose
	// nba_player_id is absent from seen. No-op when seen is empty.
	DeactivateMissing(ctx context.Context, seen []int64) (int, error)
}
