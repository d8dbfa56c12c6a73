package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/memory"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

func finalGame(id, seasonID, homeTeam, awayTeam int64, homeScore, awayScore int) game.Game {
	return game.Game{
		ID:         id,
		NBAGameID:  id,
		SeasonID:   seasonID,
		GameDate:   time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		HomeTeamID: homeTeam,
		AwayTeamID: awayTeam,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
		Status:     game.StatusFinal,
	}
}

func TestComputeStandings_WinPctAndGamesBehind(t *testing.T) {
	t.Parallel()

	finals := []game.Game{
		finalGame(1, 1, 10, 20, 110, 100),
		finalGame(2, 1, 10, 30, 105, 95),
		finalGame(3, 1, 20, 30, 99, 98),
		finalGame(4, 1, 30, 10, 90, 101),
	}

	rows := usecase.ComputeStandings(1, finals)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	leader := rows[0]
	if leader.TeamID != 10 {
		t.Fatalf("expected team 10 to lead, got %d", leader.TeamID)
	}
	if leader.Wins != 3 || leader.Losses != 0 {
		t.Fatalf("leader record %d-%d, want 3-0", leader.Wins, leader.Losses)
	}
	if leader.WinPct != 1.0 {
		t.Fatalf("leader win pct %v, want 1.0", leader.WinPct)
	}
	if leader.GamesBehind != 0 {
		t.Fatalf("rank-1 games behind %v, want 0", leader.GamesBehind)
	}

	byTeam := make(map[int64]standing.Standing)
	for _, row := range rows {
		byTeam[row.TeamID] = row
	}
	// Team 20: 1-1, diff 0; leader diff 3 -> GB 1.5.
	if gb := byTeam[20].GamesBehind; gb != 1.5 {
		t.Fatalf("team 20 games behind %v, want 1.5", gb)
	}
	// Team 30: 0-3, diff -3 -> GB 3.
	if gb := byTeam[30].GamesBehind; gb != 3 {
		t.Fatalf("team 30 games behind %v, want 3", gb)
	}
	if gp := byTeam[30].GamesPlayed; gp != 3 {
		t.Fatalf("team 30 games played %d, want 3", gp)
	}
}

func TestComputeStandings_TieCountsHalfWin(t *testing.T) {
	t.Parallel()

	tied := finalGame(1, 1, 10, 20, 100, 100)
	rows := usecase.ComputeStandings(1, []game.Game{tied})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Ties != 1 || row.GamesPlayed != 1 {
			t.Fatalf("unexpected record %+v", row)
		}
		if row.WinPct != 0.5 {
			t.Fatalf("win pct %v, want 0.5", row.WinPct)
		}
		if row.GamesBehind != 0 {
			t.Fatalf("games behind %v, want 0", row.GamesBehind)
		}
	}
}

func TestComputeStandings_EmptySeason(t *testing.T) {
	t.Parallel()

	rows := usecase.ComputeStandings(1, nil)
	if len(rows) != 0 {
		t.Fatalf("got %d rows for empty season, want 0", len(rows))
	}
}

func TestComputeStandings_SkipsUnfinishedGames(t *testing.T) {
	t.Parallel()

	scheduled := game.Game{
		ID: 9, NBAGameID: 9, SeasonID: 1,
		HomeTeamID: 10, AwayTeamID: 20,
		Status: game.StatusScheduled,
	}
	rows := usecase.ComputeStandings(1, []game.Game{scheduled, finalGame(1, 1, 10, 20, 101, 100)})
	for _, row := range rows {
		if row.GamesPlayed != 1 {
			t.Fatalf("scheduled game leaked into standings: %+v", row)
		}
	}
}

func TestStandingsService_RecalculateIsIdempotent(t *testing.T) {
	t.Parallel()

	games := memory.NewGameRepository()
	standings := memory.NewStandingRepository()
	svc := usecase.NewStandingsService(games, standings, logging.NewNop())
	ctx := context.Background()

	for i, g := range []game.Game{
		finalGame(1, 1, 10, 20, 110, 100),
		finalGame(2, 1, 20, 10, 95, 99),
	} {
		g.NBAGameID = int64(i + 1)
		if _, err := games.Upsert(ctx, &g); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}

	if err := svc.Recalculate(ctx, 1); err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	first, err := standings.ListBySeason(ctx, 1)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}

	if err := svc.Recalculate(ctx, 1); err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	second, err := standings.ListBySeason(ctx, 1)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d then %d rows, want 2 and 2", len(first), len(second))
	}
	for i := range first {
		if first[i].TeamID != second[i].TeamID || first[i].Wins != second[i].Wins || first[i].GamesBehind != second[i].GamesBehind {
			t.Fatalf("recalculation changed results: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestStandingsService_ConcurrentRecalculationsSerialize(t *testing.T) {
	t.Parallel()

	games := memory.NewGameRepository()
	standings := memory.NewStandingRepository()
	svc := usecase.NewStandingsService(games, standings, logging.NewNop())
	ctx := context.Background()

	g := finalGame(1, 1, 10, 20, 110, 100)
	if _, err := games.Upsert(ctx, &g); err != nil {
		t.Fatalf("seed game: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			errCh <- svc.Recalculate(ctx, 1)
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent recalculate: %v", err)
		}
	}

	rows, err := standings.ListBySeason(ctx, 1)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}
