package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/season"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

var seasonSelectColumns = []string{
	"id",
	"year",
	"season_type",
	"is_current",
	"created_at",
}

func (r *SeasonRepository) GetByID(ctx context.Context, id int64) (*season.Season, error) {
	query, args, err := qb.Select(seasonSelectColumns...).From("seasons").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("season", id)
		}
		return nil, fmt.Errorf("select season id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *SeasonRepository) GetCurrent(ctx context.Context, seasonType season.Type) (*season.Season, error) {
	query, args, err := qb.Select(seasonSelectColumns...).From("seasons").
		Where(
			qb.Eq("season_type", string(seasonType)),
			qb.Eq("is_current", true),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select current season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("current season", seasonType)
		}
		return nil, fmt.Errorf("select current season type=%s: %w", seasonType, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *SeasonRepository) GetByYearAndType(ctx context.Context, year int, seasonType season.Type) (*season.Season, error) {
	query, args, err := qb.Select(seasonSelectColumns...).From("seasons").
		Where(
			qb.Eq("year", year),
			qb.Eq("season_type", string(seasonType)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season by year query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("season", fmt.Sprintf("%d/%s", year, seasonType))
		}
		return nil, fmt.Errorf("select season year=%d type=%s: %w", year, seasonType, err)
	}

	out := row.toDomain()
	return &out, nil
}

// EnsureCurrent upserts the season and, when it is flagged current,
// clears the flag from every other season of the same type.
func (r *SeasonRepository) EnsureCurrent(ctx context.Context, s *season.Season) error {
	if err := s.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx ensure season: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if s.IsCurrent {
		clearQuery, clearArgs, err := qb.Update("seasons").
			Set("is_current", false).
			Where(
				qb.Eq("season_type", string(s.Type)),
				qb.Eq("is_current", true),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear current season query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear current season: %w", err)
		}
	}

	query, args, err := qb.InsertInto("seasons").
		Columns("year", "season_type", "is_current").
		Values(s.Year, string(s.Type), s.IsCurrent).
		Suffix(`ON CONFLICT (year, season_type)
DO UPDATE SET is_current = EXCLUDED.is_current
RETURNING id`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}
	if err := tx.GetContext(ctx, &s.ID, query, args...); err != nil {
		return fmt.Errorf("upsert season year=%d type=%s: %w", s.Year, s.Type, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ensure season tx: %w", err)
	}
	return nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select(seasonSelectColumns...).From("seasons").
		OrderBy("year DESC", "season_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
