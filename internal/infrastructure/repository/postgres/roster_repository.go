package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/roster"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type rosterTableModel struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m rosterTableModel) toDomain() roster.Roster {
	return roster.Roster{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type rosterEntryTableModel struct {
	ID       int64     `db:"id"`
	RosterID int64     `db:"roster_id"`
	PlayerID int64     `db:"player_id"`
	AddedAt  time.Time `db:"added_at"`
}

func (m rosterEntryTableModel) toDomain() roster.Entry {
	return roster.Entry{
		ID:       m.ID,
		RosterID: m.RosterID,
		PlayerID: m.PlayerID,
		AddedAt:  m.AddedAt,
	}
}

var rosterSelectColumns = []string{"id", "user_id", "name", "created_at", "updated_at"}

func (r *RosterRepository) Create(ctx context.Context, ro *roster.Roster) error {
	if err := ro.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("rosters").
		Columns("user_id", "name").
		Values(ro.UserID, ro.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert roster query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&ro.ID, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: roster %q already exists", usecase.ErrConflict, ro.Name)
		}
		return fmt.Errorf("insert roster user_id=%s: %w", ro.UserID, err)
	}
	return nil
}

func (r *RosterRepository) GetByID(ctx context.Context, id int64) (*roster.Roster, error) {
	query, args, err := qb.Select(rosterSelectColumns...).From("rosters").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("roster", id)
		}
		return nil, fmt.Errorf("select roster id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *RosterRepository) ListByUser(ctx context.Context, userID string) ([]roster.Roster, error) {
	query, args, err := qb.Select(rosterSelectColumns...).From("rosters").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rosters query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rosters user_id=%s: %w", userID, err)
	}

	out := make([]roster.Roster, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete removes the roster; entries go with it via ON DELETE CASCADE.
func (r *RosterRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("rosters").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete roster query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete roster id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete roster id=%d rows affected: %w", id, err)
	}
	if affected == 0 {
		return notFound("roster", id)
	}
	return nil
}

func (r *RosterRepository) AddPlayer(ctx context.Context, rosterID, playerID int64) (*roster.Entry, error) {
	query, args, err := qb.InsertInto("roster_entries").
		Columns("roster_id", "player_id").
		Values(rosterID, playerID).
		Suffix("RETURNING id, added_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build insert roster entry query: %w", err)
	}

	entry := roster.Entry{RosterID: rosterID, PlayerID: playerID}
	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&entry.ID, &entry.AddedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: player %d already on roster %d", usecase.ErrConflict, playerID, rosterID)
		}
		return nil, fmt.Errorf("insert roster entry roster_id=%d player_id=%d: %w", rosterID, playerID, err)
	}
	return &entry, nil
}

func (r *RosterRepository) RemovePlayer(ctx context.Context, rosterID, playerID int64) error {
	query, args, err := qb.DeleteFrom("roster_entries").
		Where(
			qb.Eq("roster_id", rosterID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete roster entry query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete roster entry roster_id=%d player_id=%d: %w", rosterID, playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete roster entry rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("roster entry", fmt.Sprintf("roster=%d player=%d", rosterID, playerID))
	}
	return nil
}

func (r *RosterRepository) ListEntries(ctx context.Context, rosterID int64) ([]roster.Entry, error) {
	query, args, err := qb.Select("id", "roster_id", "player_id", "added_at").From("roster_entries").
		Where(qb.Eq("roster_id", rosterID)).
		OrderBy("added_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster entries query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster entries roster_id=%d: %w", rosterID, err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RosterRepository) CountEntries(ctx context.Context, rosterID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("roster_entries").
		Where(qb.Eq("roster_id", rosterID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count roster entries query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count roster entries roster_id=%d: %w", rosterID, err)
	}
	return count, nil
}
