package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

var playerSelectColumns = []string{
	"id",
	"nba_player_id",
	"name",
	"team_id",
	"position",
	"jersey_number",
	"height_inches",
	"weight_pounds",
	"is_active",
	"created_at",
	"updated_at",
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("player", id)
		}
		return nil, fmt.Errorf("select player id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *PlayerRepository) GetByNBAPlayerID(ctx context.Context, nbaPlayerID int64) (*player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("nba_player_id", nbaPlayerID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player by nba id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("player nba_player_id", nbaPlayerID)
		}
		return nil, fmt.Errorf("select player nba_player_id=%d: %w", nbaPlayerID, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *PlayerRepository) Search(ctx context.Context, filter player.SearchFilter) ([]player.Player, int, error) {
	conditions := playerSearchConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("players").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count players query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(conditions...).
		OrderBy("name", "id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build search players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func playerSearchConditions(filter player.SearchFilter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 3)
	if query := strings.TrimSpace(filter.Query); query != "" {
		conditions = append(conditions, qb.ILike("name", "%"+query+"%"))
	}
	if filter.TeamID != nil {
		conditions = append(conditions, qb.Eq("team_id", *filter.TeamID))
	}
	if !filter.IncludeInactive {
		conditions = append(conditions, qb.Eq("is_active", true))
	}
	return conditions
}

func (r *PlayerRepository) Upsert(ctx context.Context, p *player.Player) (datasync.UpsertOutcome, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	model := playerInsertModel{
		NBAPlayerID:  p.NBAPlayerID,
		Name:         p.Name,
		TeamID:       int64PtrToNullInt64(p.TeamID),
		Position:     p.Position,
		JerseyNumber: p.JerseyNumber,
		HeightInches: intPtrToNullInt64(p.HeightInches),
		WeightPounds: intPtrToNullInt64(p.WeightPounds),
		IsActive:     p.IsActive,
	}
	query, args, err := qb.InsertModel("players", model, `ON CONFLICT (nba_player_id)
DO UPDATE SET
    name = EXCLUDED.name,
    team_id = EXCLUDED.team_id,
    position = EXCLUDED.position,
    jersey_number = EXCLUDED.jersey_number,
    height_inches = EXCLUDED.height_inches,
    weight_pounds = EXCLUDED.weight_pounds,
    is_active = EXCLUDED.is_active,
    updated_at = NOW()
WHERE (players.name, players.team_id, players.position, players.jersey_number,
       players.height_inches, players.weight_pounds, players.is_active)
    IS DISTINCT FROM (EXCLUDED.name, EXCLUDED.team_id, EXCLUDED.position, EXCLUDED.jersey_number,
       EXCLUDED.height_inches, EXCLUDED.weight_pounds, EXCLUDED.is_active)
RETURNING id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert player query: %w", err)
	}

	var row upsertReturning
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			existing, getErr := r.GetByNBAPlayerID(ctx, p.NBAPlayerID)
			if getErr != nil {
				return "", fmt.Errorf("reload unchanged player nba_player_id=%d: %w", p.NBAPlayerID, getErr)
			}
			p.ID = existing.ID
			return datasync.OutcomeSkipped, nil
		}
		return "", mapWriteError(datasync.EntityPlayers, strconv.FormatInt(p.NBAPlayerID, 10), err)
	}

	p.ID = row.ID
	if row.Inserted {
		return datasync.OutcomeInserted, nil
	}
	return datasync.OutcomeUpdated, nil
}

// DeactivateMissing soft-deletes players absent from the latest full
// sync. An empty seen list is a no-op so a failed fetch cannot wipe
// the league.
func (r *PlayerRepository) DeactivateMissing(ctx context.Context, seen []int64) (int, error) {
	if len(seen) == 0 {
		return 0, nil
	}

	values := make([]any, 0, len(seen))
	for _, id := range seen {
		values = append(values, id)
	}
	query, args, err := qb.Update("players").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("is_active", true),
			qb.NotIn("nba_player_id", values),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build deactivate players query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate missing players: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate missing players rows affected: %w", err)
	}
	return int(affected), nil
}
