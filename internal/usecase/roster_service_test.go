package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/roster"
	"github.com/hoopstack/hoops-tracker/internal/domain/user"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/memory"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

var (
	alice = user.Principal{ID: "user-alice", Name: "Alice"}
	bob   = user.Principal{ID: "user-bob", Name: "Bob"}
	admin = user.Principal{ID: "user-admin", Name: "Ops", IsAdmin: true}
)

type rosterFixture struct {
	service *usecase.RosterService
	players *memory.PlayerRepository
}

func newRosterFixture(t *testing.T) *rosterFixture {
	t.Helper()
	players := memory.NewPlayerRepository()
	return &rosterFixture{
		service: usecase.NewRosterService(
			memory.NewRosterRepository(),
			memory.NewWatchlistRepository(),
			players,
			logging.NewNop(),
		),
		players: players,
	}
}

func (fx *rosterFixture) seedPlayers(t *testing.T, n int) []player.Player {
	t.Helper()
	out := make([]player.Player, 0, n)
	for i := 1; i <= n; i++ {
		p := &player.Player{
			NBAPlayerID: int64(1000 + i),
			Name:        fmt.Sprintf("Player %02d", i),
			Position:    "G",
			IsActive:    true,
		}
		_, err := fx.players.Upsert(context.Background(), p)
		require.NoError(t, err)
		out = append(out, *p)
	}
	return out
}

func TestRosterServiceCreateAndGet(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()
	players := fx.seedPlayers(t, 2)

	r, err := fx.service.CreateRoster(ctx, alice, "  My Starters ")
	require.NoError(t, err)
	assert.Equal(t, "My Starters", r.Name)
	assert.NotZero(t, r.ID)

	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[0].ID)
	require.NoError(t, err)
	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[1].ID)
	require.NoError(t, err)

	detail, err := fx.service.GetRoster(ctx, alice, r.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Players, 2)

	listed, err := fx.service.ListRosters(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRosterServiceValidation(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateRoster(ctx, alice, "   ")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = fx.service.CreateRoster(ctx, alice, strings.Repeat("x", 101))
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestRosterServiceCapEnforced(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()
	players := fx.seedPlayers(t, roster.MaxPlayers+1)

	r, err := fx.service.CreateRoster(ctx, alice, "Deep Bench")
	require.NoError(t, err)

	for i := 0; i < roster.MaxPlayers; i++ {
		_, err := fx.service.AddPlayer(ctx, alice, r.ID, players[i].ID)
		require.NoError(t, err)
	}

	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[roster.MaxPlayers].ID)
	require.ErrorIs(t, err, usecase.ErrInvalidInput)

	// Removing one frees a slot.
	require.NoError(t, fx.service.RemovePlayer(ctx, alice, r.ID, players[0].ID))
	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[roster.MaxPlayers].ID)
	assert.NoError(t, err)
}

func TestRosterServiceDuplicateAndUnknownPlayers(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()
	players := fx.seedPlayers(t, 1)

	r, err := fx.service.CreateRoster(ctx, alice, "Starters")
	require.NoError(t, err)

	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[0].ID)
	require.NoError(t, err)
	_, err = fx.service.AddPlayer(ctx, alice, r.ID, players[0].ID)
	assert.ErrorIs(t, err, usecase.ErrConflict)

	_, err = fx.service.AddPlayer(ctx, alice, r.ID, 9999)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestRosterServiceOwnership(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()
	players := fx.seedPlayers(t, 1)

	r, err := fx.service.CreateRoster(ctx, alice, "Starters")
	require.NoError(t, err)

	_, err = fx.service.AddPlayer(ctx, bob, r.ID, players[0].ID)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	assert.ErrorIs(t, fx.service.DeleteRoster(ctx, bob, r.ID), usecase.ErrUnauthorized)
	_, err = fx.service.GetRoster(ctx, bob, r.ID)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	// Admins can read but not mutate someone else's roster.
	_, err = fx.service.GetRoster(ctx, admin, r.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, fx.service.DeleteRoster(ctx, admin, r.ID), usecase.ErrUnauthorized)

	require.NoError(t, fx.service.DeleteRoster(ctx, alice, r.ID))
	_, err = fx.service.GetRoster(ctx, alice, r.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestRosterServiceWatchlist(t *testing.T) {
	fx := newRosterFixture(t)
	ctx := context.Background()
	players := fx.seedPlayers(t, 2)

	item, err := fx.service.AddToWatchlist(ctx, alice, players[0].ID, "breakout candidate")
	require.NoError(t, err)
	assert.Equal(t, "breakout candidate", item.Note)

	_, err = fx.service.AddToWatchlist(ctx, alice, players[0].ID, "again")
	assert.ErrorIs(t, err, usecase.ErrConflict)

	_, err = fx.service.AddToWatchlist(ctx, alice, players[1].ID, strings.Repeat("n", 501))
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = fx.service.AddToWatchlist(ctx, alice, 9999, "")
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	// Watchlists are scoped per user.
	_, err = fx.service.AddToWatchlist(ctx, bob, players[0].ID, "")
	require.NoError(t, err)

	entries, err := fx.service.Watchlist(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, players[0].ID, entries[0].Player.ID)

	require.NoError(t, fx.service.RemoveFromWatchlist(ctx, alice, players[0].ID))
	entries, err = fx.service.Watchlist(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
