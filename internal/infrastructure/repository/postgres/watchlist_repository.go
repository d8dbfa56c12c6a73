package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/watchlist"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type WatchlistRepository struct {
	db *sqlx.DB
}

func NewWatchlistRepository(db *sqlx.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

type watchlistItemTableModel struct {
	ID       int64     `db:"id"`
	UserID   string    `db:"user_id"`
	PlayerID int64     `db:"player_id"`
	Note     string    `db:"note"`
	AddedAt  time.Time `db:"added_at"`
}

func (m watchlistItemTableModel) toDomain() watchlist.Item {
	return watchlist.Item{
		ID:       m.ID,
		UserID:   m.UserID,
		PlayerID: m.PlayerID,
		Note:     m.Note,
		AddedAt:  m.AddedAt,
	}
}

func (r *WatchlistRepository) Add(ctx context.Context, item *watchlist.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("watchlist_items").
		Columns("user_id", "player_id", "note").
		Values(item.UserID, item.PlayerID, item.Note).
		Suffix("RETURNING id, added_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert watchlist item query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&item.ID, &item.AddedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player %d already on watchlist", usecase.ErrConflict, item.PlayerID)
		}
		return fmt.Errorf("insert watchlist item user_id=%s player_id=%d: %w", item.UserID, item.PlayerID, err)
	}
	return nil
}

func (r *WatchlistRepository) Remove(ctx context.Context, userID string, playerID int64) error {
	query, args, err := qb.DeleteFrom("watchlist_items").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete watchlist item query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete watchlist item user_id=%s player_id=%d: %w", userID, playerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete watchlist item rows affected: %w", err)
	}
	if affected == 0 {
		return notFound("watchlist item", fmt.Sprintf("user=%s player=%d", userID, playerID))
	}
	return nil
}

func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]watchlist.Item, error) {
	query, args, err := qb.Select("id", "user_id", "player_id", "note", "added_at").From("watchlist_items").
		Where(qb.Eq("user_id", userID)).
		OrderBy("added_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list watchlist query: %w", err)
	}

	var rows []watchlistItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list watchlist user_id=%s: %w", userID, err)
	}

	out := make([]watchlist.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WatchlistRepository) Exists(ctx context.Context, userID string, playerID int64) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("watchlist_items").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build watchlist exists query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check watchlist user_id=%s player_id=%d: %w", userID, playerID, err)
	}
	return count > 0, nil
}
