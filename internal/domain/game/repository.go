package game

import (
	"context"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Game, error)
	GetByNBAGameID(ctx context.Context, nbaGameID int64) (*Game, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Game, error)
	ListFinalBySeason(ctx context.Context, seasonID int64) ([]Game, error)
	Upsert(ctx context.Context, g *Game) (datasync.UpsertOutcome, error)
}
