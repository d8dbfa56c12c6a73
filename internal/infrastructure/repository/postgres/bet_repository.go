package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/internal/domain/bet"
	qb "github.com/hoopstack/hoops-tracker/internal/platform/querybuilder"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

type betTableModel struct {
	ID        int64        `db:"id"`
	UserID    string       `db:"user_id"`
	PlayerID  int64        `db:"player_id"`
	GameID    int64        `db:"game_id"`
	StatKey   string       `db:"stat_key"`
	Line      float64      `db:"line"`
	Side      string       `db:"side"`
	Amount    float64      `db:"amount"`
	Status    string       `db:"status"`
	SettledAt sql.NullTime `db:"settled_at"`
	CreatedAt time.Time    `db:"created_at"`
}

func (m betTableModel) toDomain() bet.Bet {
	out := bet.Bet{
		ID:        m.ID,
		UserID:    m.UserID,
		PlayerID:  m.PlayerID,
		GameID:    m.GameID,
		StatKey:   m.StatKey,
		Line:      m.Line,
		Side:      bet.Side(m.Side),
		Amount:    m.Amount,
		Status:    bet.Status(m.Status),
		CreatedAt: m.CreatedAt,
	}
	if m.SettledAt.Valid {
		settled := m.SettledAt.Time
		out.SettledAt = &settled
	}
	return out
}

var betSelectColumns = []string{
	"id", "user_id", "player_id", "game_id", "stat_key",
	"line", "side", "amount", "status", "settled_at", "created_at",
}

func (r *BetRepository) Create(ctx context.Context, b *bet.Bet) error {
	if err := b.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("bets").
		Columns("user_id", "player_id", "game_id", "stat_key", "line", "side", "amount", "status").
		Values(b.UserID, b.PlayerID, b.GameID, b.StatKey, b.Line, string(b.Side), b.Amount, string(b.Status)).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert bet query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate bet", usecase.ErrConflict)
		}
		return fmt.Errorf("insert bet user_id=%s: %w", b.UserID, err)
	}
	return nil
}

func (r *BetRepository) GetByID(ctx context.Context, id int64) (*bet.Bet, error) {
	query, args, err := qb.Select(betSelectColumns...).From("bets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, notFound("bet", id)
		}
		return nil, fmt.Errorf("select bet id=%d: %w", id, err)
	}

	out := row.toDomain()
	return &out, nil
}

func (r *BetRepository) ListByUser(ctx context.Context, userID string) ([]bet.Bet, error) {
	query, args, err := qb.Select(betSelectColumns...).From("bets").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bets user_id=%s: %w", userID, err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BetRepository) ListUnsettledByGame(ctx context.Context, gameID int64) ([]bet.Bet, error) {
	query, args, err := qb.Select(betSelectColumns...).From("bets").
		Where(
			qb.Eq("game_id", gameID),
			qb.In("status", []any{string(bet.StatusPending), string(bet.StatusActive)}),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unsettled bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list unsettled bets game_id=%d: %w", gameID, err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BetRepository) Update(ctx context.Context, b *bet.Bet) error {
	var settledAt sql.NullTime
	if b.SettledAt != nil {
		settledAt = sql.NullTime{Time: *b.SettledAt, Valid: true}
	}

	query, args, err := qb.Update("bets").
		Set("status", string(b.Status)).
		Set("settled_at", settledAt).
		Where(qb.Eq("id", b.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update bet id=%d: %w", b.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bet id=%d rows affected: %w", b.ID, err)
	}
	if affected == 0 {
		return notFound("bet", b.ID)
	}
	return nil
}
