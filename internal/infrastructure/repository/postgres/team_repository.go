package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

var teamSelectColumns = []string{
	"id",
	"nba_team_id",
	"name",
	"abbreviation",
	"city",
	"conference",
	"division",
	"created_at",
	"updated_at",
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("team", id)
		}
		return nil, fmt.Errorf("select team id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *TeamRepository) GetByNBATeamID(ctx context.Context, nbaTeamID int64) (*team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("nba_team_id", nbaTeamID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team by nba id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("team nba_team_id", nbaTeamID)
		}
		return nil, fmt.Errorf("select team nba_team_id=%d: %w", nbaTeamID, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		OrderBy("conference", "division", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert inserts or updates by nba_team_id. The guard clause turns
// no-op writes into a skipped outcome instead of churning updated_at.
func (r *TeamRepository) Upsert(ctx context.Context, t *team.Team) (datasync.UpsertOutcome, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	model := teamInsertModel{
		NBATeamID:    t.NBATeamID,
		Name:         t.Name,
		Abbreviation: t.Abbreviation,
		City:         t.City,
		Conference:   string(t.Conference),
		Division:     t.Division,
	}
	query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (nba_team_id)
DO UPDATE SET
    name = EXCLUDED.name,
    abbreviation = EXCLUDED.abbreviation,
    city = EXCLUDED.city,
    conference = EXCLUDED.conference,
    division = EXCLUDED.division,
    updated_at = NOW()
WHERE (teams.name, teams.abbreviation, teams.city, teams.conference, teams.division)
    IS DISTINCT FROM (EXCLUDED.name, EXCLUDED.abbreviation, EXCLUDED.city, EXCLUDED.conference, EXCLUDED.division)
RETURNING id, (xmax = 0) AS inserted`)
	if err != nil {
		return "", fmt.Errorf("build upsert team query: %w", err)
	}

	var row upsertReturning
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			existing, getErr := r.GetByNBATeamID(ctx, t.NBATeamID)
			if getErr != nil {
				return "", fmt.Errorf("reload unchanged team nba_team_id=%d: %w", t.NBATeamID, getErr)
			}
			t.ID = existing.ID
			return datasync.OutcomeSkipped, nil
		}
		return "", mapWriteError(datasync.EntityTeams, strconv.FormatInt(t.NBATeamID, 10), err)
	}

	t.ID = row.ID
	if row.Inserted {
		return datasync.OutcomeInserted, nil
	}
	return datasync.OutcomeUpdated, nil
}
