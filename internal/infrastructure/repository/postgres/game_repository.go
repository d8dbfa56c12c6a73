package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

var gameSelectColumns = []string{
	"id",
	"nba_game_id",
	"season_id",
	"game_date",
	"home_team_id",
	"away_team_id",
	"home_score",
	"away_score",
	"status",
	"created_at",
	"updated_at",
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*game.Game, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("game", id)
		}
		return nil, fmt.Errorf("select game id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *GameRepository) GetByNBAGameID(ctx context.Context, nbaGameID int64) (*game.Game, error) {
	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(qb.Eq("nba_game_id", nbaGameID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game by nba id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("game nba_game_id", nbaGameID)
		}
		return nil, fmt.Errorf("select game nba_game_id=%d: %w", nbaGameID, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID int64) ([]game.Game, error) {
	return r.listSeason(ctx, seasonID, false)
}

func (r *GameRepository) ListFinalBySeason(ctx context.Context, seasonID int64) ([]game.Game, error) {
	return r.listSeason(ctx, seasonID, true)
}

func (r *GameRepository) listSeason(ctx context.Context, seasonID int64, finalOnly bool) ([]game.Game, error) {
	conditions := []qb.Condition{qb.Eq("season_id", seasonID)}
	if finalOnly {
		conditions = append(conditions, qb.Eq("status", string(game.StatusFinal)))
	}

	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(conditions...).
		OrderBy("game_date", "nba_game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games season_id=%d: %w", seasonID, err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert inserts or updates by nba_game_id. Score and status churn during
// live games, so the guard compares only the mutable columns.
func (r *GameRepository) Upsert(ctx context.Context, g *game.Game) (datasync.UpsertOutcome, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}

	model := gameInsertModel{
		NBAGameID:  g.NBAGameID,
		SeasonID:   g.SeasonID,
		GameDate:   g.GameDate,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		HomeScore:  intPtrToNullInt64(g.HomeScore),
		AwayScore:  intPtrToNullInt64(g.AwayScore),
		Status:     string(g.Status),
	}
	query, args, err := qb.InsertModel("games", model, `ON CONFLICT (nba_game_id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    game_date = EXCLUDED.game_date,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    updated_at = NOW()
WHERE (games.game_date, games.home_score, games.away_score, games.status)
    IS DISTINCT FROM (EXCLUDED.game_date, EXCLUDED.home_score, EXCLUDED.away_score, EXCLUDED.status)
RETURNING id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert game query: %w", err)
	}

	var row upsertReturning
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			existing, getErr := r.GetByNBAGameID(ctx, g.NBAGameID)
			if getErr != nil {
				return "", fmt.Errorf("reload unchanged game nba_game_id=%d: %w", g.NBAGameID, getErr)
			}
			g.ID = existing.ID
			return datasync.OutcomeSkipped, nil
		}
		return "", mapWriteError(datasync.EntityGames, strconv.FormatInt(g.NBAGameID, 10), err)
	}

	g.ID = row.ID
	if row.Inserted {
		return datasync.OutcomeInserted, nil
	}
	return datasync.OutcomeUpdated, nil
}
