package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

var standingSelectColumns = []string{
	"id",
	"team_id",
	"season_id",
	"wins",
	"losses",
	"ties",
	"games_played",
	"win_pct",
	"games_behind",
	"updated_at",
}

func (r *StandingRepository) ListBySeason(ctx context.Context, seasonID int64) ([]standing.Standing, error) {
	query, args, err := qb.Select(standingSelectColumns...).From("standings").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("win_pct DESC", "wins DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings season_id=%d: %w", seasonID, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingRepository) GetByTeamSeason(ctx context.Context, teamID, seasonID int64) (*standing.Standing, error) {
	query, args, err := qb.Select(standingSelectColumns...).From("standings").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season_id", seasonID),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("standing", fmt.Sprintf("team=%d season=%d", teamID, seasonID))
		}
		return nil, fmt.Errorf("select standing team_id=%d season_id=%d: %w", teamID, seasonID, err)
	}

	out := row.toDomain()
	return &out, nil
}

// ReplaceBySeason swaps the season's cohort in one transaction so readers
// never observe a half-recomputed table.
func (r *StandingRepository) ReplaceBySeason(ctx context.Context, seasonID int64, rows []standing.Standing) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		if row.SeasonID != seasonID {
			return fmt.Errorf("standing for team %d belongs to season %d, not %d", row.TeamID, row.SeasonID, seasonID)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("standings").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete standings season_id=%d: %w", seasonID, err)
	}

	for _, row := range rows {
		model := standingInsertModel{
			TeamID:      row.TeamID,
			SeasonID:    row.SeasonID,
			Wins:        row.Wins,
			Losses:      row.Losses,
			Ties:        row.Ties,
			GamesPlayed: row.GamesPlayed,
			WinPct:      row.WinPct,
			GamesBehind: row.GamesBehind,
		}
		query, args, err := qb.InsertModel("standings", model, "")
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standing team_id=%d season_id=%d: %w", row.TeamID, seasonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
