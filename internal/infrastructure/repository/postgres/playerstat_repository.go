package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

var playerStatSelectColumns = []string{
	"id",
	"player_id",
	"season_id",
	"game_id",
	"nba_game_id",
	"game_date",
	"stat_key",
	"value",
}

// Upsert writes one tall row, keyed by the same tuple the table's
// uniqueness constraint covers, so re-syncing a box score overwrites
// in place.
func (r *PlayerStatRepository) Upsert(ctx context.Context, s *playerstat.Stat) (datasync.UpsertOutcome, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	model := playerStatInsertModel{
		PlayerID:  s.PlayerID,
		SeasonID:  s.SeasonID,
		GameID:    s.GameID,
		NBAGameID: s.NBAGameID,
		GameDate:  s.GameDate,
		Key:       string(s.Key),
		Value:     s.Value,
	}
	query, args, err := qb.InsertModel("player_stats", model, `ON CONFLICT (player_id, season_id, stat_key, game_date, nba_game_id)
DO UPDATE SET
    game_id = EXCLUDED.game_id,
    value = EXCLUDED.value
WHERE (player_stats.game_id, player_stats.value)
    IS DISTINCT FROM (EXCLUDED.game_id, EXCLUDED.value)
RETURNING id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert player stat query: %w", err)
	}

	var row upsertReturning
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return datasync.OutcomeSkipped, nil
		}
		key := fmt.Sprintf("player=%d game=%d key=%s", s.PlayerID, s.NBAGameID, s.Key)
		return "", mapWriteError(datasync.EntityStats, key, err)
	}

	s.ID = row.ID
	if row.Inserted {
		return datasync.OutcomeInserted, nil
	}
	return datasync.OutcomeUpdated, nil
}

func (r *PlayerStatRepository) ListByPlayerSeason(ctx context.Context, playerID, seasonID int64) ([]playerstat.Stat, error) {
	query, args, err := qb.Select(playerStatSelectColumns...).From("player_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season_id", seasonID),
		).
		OrderBy("game_date DESC", "stat_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats player_id=%d season_id=%d: %w", playerID, seasonID, err)
	}

	out := make([]playerstat.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

const leadersQuery = `
SELECT
    p.id AS player_id,
    p.name AS player_name,
    p.team_id,
    COUNT(*) AS games_played,
    SUM(ps.value) AS total,
    SUM(ps.value) / COUNT(*) AS per_game
FROM player_stats ps
JOIN players p ON p.id = ps.player_id
WHERE ps.season_id = $1 AND ps.stat_key = $2
GROUP BY p.id, p.name, p.team_id
ORDER BY per_game DESC, p.id
LIMIT $3`

func (r *PlayerStatRepository) Leaders(ctx context.Context, seasonID int64, key playerstat.Key, limit int) ([]playerstat.LeaderRow, error) {
	var rows []leaderRowModel
	if err := r.db.SelectContext(ctx, &rows, leadersQuery, seasonID, string(key), limit); err != nil {
		return nil, fmt.Errorf("select leaders season_id=%d key=%s: %w", seasonID, key, err)
	}

	out := make([]playerstat.LeaderRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstat.LeaderRow{
			PlayerID:    row.PlayerID,
			PlayerName:  row.PlayerName,
			TeamID:      nullInt64ToInt64Ptr(row.TeamID),
			GamesPlayed: row.GamesPlayed,
			Total:       row.Total,
			PerGame:     row.PerGame,
		})
	}
	return out, nil
}

const averagesTotalsQuery = `
SELECT stat_key, SUM(value) AS total
FROM player_stats
WHERE player_id = $1 AND season_id = $2
GROUP BY stat_key`

const averagesGamesQuery = `
SELECT COUNT(DISTINCT nba_game_id)
FROM player_stats
WHERE player_id = $1 AND season_id = $2`

// Averages never errs on an empty season; callers check GamesPlayed.
func (r *PlayerStatRepository) Averages(ctx context.Context, playerID, seasonID int64) (*playerstat.SeasonAverages, error) {
	var games int
	if err := r.db.GetContext(ctx, &games, averagesGamesQuery, playerID, seasonID); err != nil {
		return nil, fmt.Errorf("count games player_id=%d season_id=%d: %w", playerID, seasonID, err)
	}

	out := &playerstat.SeasonAverages{
		SeasonID:    seasonID,
		GamesPlayed: games,
		PerGame:     make(map[playerstat.Key]float64),
	}
	if games == 0 {
		return out, nil
	}

	var rows []statAverageRowModel
	if err := r.db.SelectContext(ctx, &rows, averagesTotalsQuery, playerID, seasonID); err != nil {
		return nil, fmt.Errorf("sum stats player_id=%d season_id=%d: %w", playerID, seasonID, err)
	}
	for _, row := range rows {
		out.PerGame[playerstat.Key(row.Key)] = row.Total / float64(games)
	}
	return out, nil
}
