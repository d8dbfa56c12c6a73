package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/bet"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/user"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

// PlaceBetInput is a new over/under pick on a player stat line.
type PlaceBetInput struct {
	PlayerID int64   `json:"player_id" validate:"required,gt=0"`
	GameID   int64   `json:"game_id" validate:"required,gt=0"`
	StatKey  string  `json:"stat_key" validate:"required"`
	Line     float64 `json:"line" validate:"gte=0"`
	Side     string  `json:"side" validate:"required,oneof=over under"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

// SettlementSummary reports one game's bet resolution.
type SettlementSummary struct {
	GameID  int64 `json:"game_id"`
	Settled int   `json:"settled"`
	Won     int   `json:"won"`
	Lost    int   `json:"lost"`
	Pushed  int   `json:"pushed"`
}

// BetService places and settles stat-line bets. Settlement reads the
// synced box scores, so it only runs against final games.
type BetService struct {
	bets    bet.Repository
	games   game.Repository
	players player.Repository
	stats   playerstat.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewBetService(
	bets bet.Repository,
	games game.Repository,
	players player.Repository,
	stats playerstat.Repository,
	logger *logging.Logger,
) *BetService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BetService{
		bets:    bets,
		games:   games,
		players: players,
		stats:   stats,
		logger:  logger,
		now:     time.Now,
	}
}

// PlaceBet accepts a pick on a scheduled game.
func (s *BetService) PlaceBet(ctx context.Context, principal user.Principal, input PlaceBetInput) (*bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.PlaceBet")
	defer span.End()

	if _, err := playerstat.ParseKey(input.StatKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.players.GetByID(ctx, input.PlayerID); err != nil {
		return nil, fmt.Errorf("get player id=%d: %w", input.PlayerID, err)
	}

	g, err := s.games.GetByID(ctx, input.GameID)
	if err != nil {
		return nil, fmt.Errorf("get game id=%d: %w", input.GameID, err)
	}
	if g.Status != game.StatusScheduled {
		return nil, fmt.Errorf("%w: game %d has already started", ErrInvalidInput, input.GameID)
	}

	b := &bet.Bet{
		UserID:   principal.ID,
		PlayerID: input.PlayerID,
		GameID:   input.GameID,
		StatKey:  input.StatKey,
		Line:     input.Line,
		Side:     bet.Side(input.Side),
		Amount:   input.Amount,
		Status:   bet.StatusPending,
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.bets.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create bet: %w", err)
	}

	s.logger.InfoContext(ctx, "bet placed",
		"bet_id", b.ID,
		"user_id", principal.ID,
		"game_id", b.GameID,
		"stat_key", b.StatKey,
	)
	return b, nil
}

func (s *BetService) ListBets(ctx context.Context, principal user.Principal) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListBets")
	defer span.End()

	rows, err := s.bets.ListByUser(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	return rows, nil
}

func (s *BetService) GetBet(ctx context.Context, principal user.Principal, betID int64) (*bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.GetBet")
	defer span.End()

	return s.ownedBet(ctx, principal, betID)
}

// CancelBet withdraws an unsettled bet before its game starts.
func (s *BetService) CancelBet(ctx context.Context, principal user.Principal, betID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.CancelBet")
	defer span.End()

	b, err := s.ownedBet(ctx, principal, betID)
	if err != nil {
		return err
	}
	if b.Status != bet.StatusPending && b.Status != bet.StatusActive {
		return fmt.Errorf("%w: bet %d already settled as %s", ErrConflict, betID, b.Status)
	}

	g, err := s.games.GetByID(ctx, b.GameID)
	if err != nil {
		return fmt.Errorf("get game id=%d: %w", b.GameID, err)
	}
	if g.Status != game.StatusScheduled {
		return fmt.Errorf("%w: game %d has already started", ErrConflict, b.GameID)
	}

	b.Status = bet.StatusCancelled
	settledAt := s.now().UTC()
	b.SettledAt = &settledAt
	if err := s.bets.Update(ctx, b); err != nil {
		return fmt.Errorf("cancel bet: %w", err)
	}
	return nil
}

// SettleGame resolves every unsettled bet on a final game against the
// synced box score. A player with no stat row for the game pushes.
func (s *BetService) SettleGame(ctx context.Context, gameID int64) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.SettleGame")
	defer span.End()

	summary := SettlementSummary{GameID: gameID}

	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return summary, fmt.Errorf("get game id=%d: %w", gameID, err)
	}
	if !g.IsFinal() {
		return summary, fmt.Errorf("%w: game %d is not final", ErrInvalidInput, gameID)
	}

	open, err := s.bets.ListUnsettledByGame(ctx, gameID)
	if err != nil {
		return summary, fmt.Errorf("list unsettled bets game_id=%d: %w", gameID, err)
	}

	settledAt := s.now().UTC()
	for i := range open {
		b := open[i]
		actual, found, err := s.actualValue(ctx, b.PlayerID, g, playerstat.Key(b.StatKey))
		if err != nil {
			return summary, err
		}
		if !found {
			// No box-score line means the player did not appear.
			b.Status = bet.StatusPush
			b.SettledAt = &settledAt
		} else if err := b.Settle(actual, settledAt); err != nil {
			return summary, fmt.Errorf("settle bet id=%d: %w", b.ID, err)
		}
		if err := s.bets.Update(ctx, &b); err != nil {
			return summary, fmt.Errorf("update bet id=%d: %w", b.ID, err)
		}

		summary.Settled++
		switch b.Status {
		case bet.StatusWon:
			summary.Won++
		case bet.StatusLost:
			summary.Lost++
		case bet.StatusPush:
			summary.Pushed++
		}
	}

	if summary.Settled > 0 {
		s.logger.InfoContext(ctx, "bets settled",
			"game_id", gameID,
			"settled", summary.Settled,
			"won", summary.Won,
			"lost", summary.Lost,
			"pushed", summary.Pushed,
		)
	}
	return summary, nil
}

func (s *BetService) actualValue(ctx context.Context, playerID int64, g *game.Game, key playerstat.Key) (float64, bool, error) {
	rows, err := s.stats.ListByPlayerSeason(ctx, playerID, g.SeasonID)
	if err != nil {
		return 0, false, fmt.Errorf("load stats player_id=%d: %w", playerID, err)
	}
	for _, row := range rows {
		if row.NBAGameID == g.NBAGameID && row.Key == key {
			return row.Value, true, nil
		}
	}
	return 0, false, nil
}

func (s *BetService) ownedBet(ctx context.Context, principal user.Principal, betID int64) (*bet.Bet, error) {
	b, err := s.bets.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("get bet id=%d: %w", betID, err)
	}
	if b.UserID != principal.ID && !principal.IsAdmin {
		return nil, fmt.Errorf("%w: bet %d belongs to another user", ErrUnauthorized, betID)
	}
	return b, nil
}
