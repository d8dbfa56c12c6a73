package playerstat

import (
	"context"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

type Repository interface {
	Upsert(ctx context.Context, s *Stat) (datasync.UpsertOutcome, error)
	ListByPlayerSeason(ctx context.Context, playerID, seasonID int64) ([]Stat, error)
	// Leaders ranks players by per-game average of key, highest first.
	Leaders(ctx context.Context, seasonID int64, key Key, limit int) ([]LeaderRow, error)
	// Averages aggregates one player's tall rows into a per-game line.
	Averages(ctx context.Context, playerID, seasonID int64) (*SeasonAverages, error)
}
