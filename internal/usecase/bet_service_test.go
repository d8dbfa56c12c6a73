package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopstack/hoops-tracker/internal/domain/bet"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/memory"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type betFixture struct {
	service *usecase.BetService
	games   *memory.GameRepository
	players *memory.PlayerRepository
	stats   *memory.PlayerStatRepository

	player    *player.Player
	scheduled *game.Game
	finished  *game.Game
}

const betSeasonID = int64(1)

func newBetFixture(t *testing.T) *betFixture {
	t.Helper()
	ctx := context.Background()

	bets := memory.NewBetRepository()
	games := memory.NewGameRepository()
	players := memory.NewPlayerRepository()
	stats := memory.NewPlayerStatRepository(players)

	p := &player.Player{NBAPlayerID: 10, Name: "LeBron James", Position: "F", IsActive: true}
	_, err := players.Upsert(ctx, p)
	require.NoError(t, err)

	scheduled := &game.Game{
		NBAGameID:  700,
		SeasonID:   betSeasonID,
		GameDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		HomeTeamID: 1,
		AwayTeamID: 2,
		Status:     game.StatusScheduled,
	}
	homeScore, awayScore := 110, 98
	finished := &game.Game{
		NBAGameID:  701,
		SeasonID:   betSeasonID,
		GameDate:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		HomeTeamID: 1,
		AwayTeamID: 2,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
		Status:     game.StatusFinal,
	}
	for _, g := range []*game.Game{scheduled, finished} {
		_, err := games.Upsert(ctx, g)
		require.NoError(t, err)
	}

	return &betFixture{
		service:   usecase.NewBetService(bets, games, players, stats, logging.NewNop()),
		games:     games,
		players:   players,
		stats:     stats,
		player:    p,
		scheduled: scheduled,
		finished:  finished,
	}
}

func (fx *betFixture) placeBet(t *testing.T, side string, line float64) *bet.Bet {
	t.Helper()
	b, err := fx.service.PlaceBet(context.Background(), alice, usecase.PlaceBetInput{
		PlayerID: fx.player.ID,
		GameID:   fx.scheduled.ID,
		StatKey:  "pts",
		Line:     line,
		Side:     side,
		Amount:   50,
	})
	require.NoError(t, err)
	return b
}

// finishScheduledGame flips the pending game to final and records the
// player's point total for it.
func (fx *betFixture) finishScheduledGame(t *testing.T, points float64) {
	t.Helper()
	ctx := context.Background()

	homeScore, awayScore := 104, 101
	fx.scheduled.HomeScore = &homeScore
	fx.scheduled.AwayScore = &awayScore
	fx.scheduled.Status = game.StatusFinal
	_, err := fx.games.Upsert(ctx, fx.scheduled)
	require.NoError(t, err)

	_, err = fx.stats.Upsert(ctx, &playerstat.Stat{
		PlayerID:  fx.player.ID,
		SeasonID:  betSeasonID,
		NBAGameID: fx.scheduled.NBAGameID,
		GameDate:  fx.scheduled.GameDate,
		Key:       playerstat.KeyPoints,
		Value:     points,
	})
	require.NoError(t, err)
}

func TestBetServicePlaceBet(t *testing.T) {
	fx := newBetFixture(t)

	b := fx.placeBet(t, "over", 25.5)
	assert.Equal(t, bet.StatusPending, b.Status)
	assert.NotZero(t, b.ID)

	rows, err := fx.service.ListBets(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBetServicePlaceBetValidation(t *testing.T) {
	fx := newBetFixture(t)
	ctx := context.Background()

	_, err := fx.service.PlaceBet(ctx, alice, usecase.PlaceBetInput{
		PlayerID: fx.player.ID, GameID: fx.scheduled.ID, StatKey: "dunks", Line: 2, Side: "over", Amount: 10,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = fx.service.PlaceBet(ctx, alice, usecase.PlaceBetInput{
		PlayerID: fx.player.ID, GameID: fx.finished.ID, StatKey: "pts", Line: 25, Side: "over", Amount: 10,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = fx.service.PlaceBet(ctx, alice, usecase.PlaceBetInput{
		PlayerID: fx.player.ID, GameID: fx.scheduled.ID, StatKey: "pts", Line: 25, Side: "over", Amount: 0,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = fx.service.PlaceBet(ctx, alice, usecase.PlaceBetInput{
		PlayerID: 9999, GameID: fx.scheduled.ID, StatKey: "pts", Line: 25, Side: "over", Amount: 10,
	})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestBetServiceOwnership(t *testing.T) {
	fx := newBetFixture(t)
	ctx := context.Background()

	b := fx.placeBet(t, "over", 25.5)

	_, err := fx.service.GetBet(ctx, bob, b.ID)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	got, err := fx.service.GetBet(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestBetServiceCancel(t *testing.T) {
	fx := newBetFixture(t)
	ctx := context.Background()

	b := fx.placeBet(t, "over", 25.5)
	require.NoError(t, fx.service.CancelBet(ctx, alice, b.ID))

	got, err := fx.service.GetBet(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bet.StatusCancelled, got.Status)

	// A cancelled bet cannot be cancelled again.
	assert.ErrorIs(t, fx.service.CancelBet(ctx, alice, b.ID), usecase.ErrConflict)
}

func TestBetServiceSettleGame(t *testing.T) {
	fx := newBetFixture(t)
	ctx := context.Background()

	winner := fx.placeBet(t, "over", 25.5)
	loser := fx.placeBet(t, "under", 21.5)
	push := fx.placeBet(t, "over", 28.0)

	fx.finishScheduledGame(t, 28)

	summary, err := fx.service.SettleGame(ctx, fx.scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Settled)
	assert.Equal(t, 1, summary.Won)
	assert.Equal(t, 1, summary.Lost)
	assert.Equal(t, 1, summary.Pushed)

	for id, want := range map[int64]bet.Status{
		winner.ID: bet.StatusWon,
		loser.ID:  bet.StatusLost,
		push.ID:   bet.StatusPush,
	} {
		got, err := fx.service.GetBet(ctx, alice, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
		assert.NotNil(t, got.SettledAt)
	}

	// Settling again finds nothing left to do.
	summary, err = fx.service.SettleGame(ctx, fx.scheduled.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Settled)
}

func TestBetServiceSettleRequiresFinalGame(t *testing.T) {
	fx := newBetFixture(t)

	_, err := fx.service.SettleGame(context.Background(), fx.scheduled.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestBetServiceSettlePushesWhenPlayerSatOut(t *testing.T) {
	fx := newBetFixture(t)
	ctx := context.Background()

	b := fx.placeBet(t, "over", 25.5)

	// Game goes final but no stat line was synced for the player.
	homeScore, awayScore := 99, 97
	fx.scheduled.HomeScore = &homeScore
	fx.scheduled.AwayScore = &awayScore
	fx.scheduled.Status = game.StatusFinal
	_, err := fx.games.Upsert(ctx, fx.scheduled)
	require.NoError(t, err)

	summary, err := fx.service.SettleGame(ctx, fx.scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pushed)

	got, err := fx.service.GetBet(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bet.StatusPush, got.Status)
}
