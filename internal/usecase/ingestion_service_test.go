package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/memory"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type ingestionFixture struct {
	teams   *memory.TeamRepository
	players *memory.PlayerRepository
	games   *memory.GameRepository
	stats   *memory.PlayerStatRepository
	svc     *usecase.IngestionService
}

func newIngestionFixture() *ingestionFixture {
	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	games := memory.NewGameRepository()
	stats := memory.NewPlayerStatRepository(players)
	return &ingestionFixture{
		teams:   teams,
		players: players,
		games:   games,
		stats:   stats,
		svc:     usecase.NewIngestionService(teams, players, games, stats, logging.NewNop()),
	}
}

func providerTeam(id int64, name, abbr, conference string) nbastats.TeamRecord {
	return nbastats.TeamRecord{
		ID: id, Name: name, Abbreviation: abbr,
		City: name, Conference: conference, Division: "Atlantic",
	}
}

func TestIngestion_UpsertTeams_PartialBatch(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()
	ctx := context.Background()

	records := make([]nbastats.TeamRecord, 0, 10)
	for i := int64(1); i <= 9; i++ {
		records = append(records, providerTeam(i, "Team "+strconv.FormatInt(i, 10), "T"+strconv.FormatInt(i, 10), "East"))
	}
	// Tenth record has no name and must be quarantined alone.
	records = append(records, providerTeam(10, "", "BAD", "East"))

	report, err := fix.svc.UpsertTeams(ctx, records)
	if err != nil {
		t.Fatalf("UpsertTeams: %v", err)
	}
	if report.Inserted != 9 {
		t.Fatalf("inserted %d, want 9", report.Inserted)
	}
	if report.Failed != 1 {
		t.Fatalf("failed %d, want 1", report.Failed)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("got %d row errors, want 1", len(report.Errors))
	}
	if report.Errors[0].Field != "full_name" {
		t.Fatalf("row error field %q, want full_name", report.Errors[0].Field)
	}

	stored, err := fix.teams.List(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(stored) != 9 {
		t.Fatalf("stored %d teams, want 9", len(stored))
	}
}

// failingTeamRepository simulates a store whose writes start failing,
// as when the database connection drops mid-batch.
type failingTeamRepository struct {
	*memory.TeamRepository
	upsertErr error
}

func (r *failingTeamRepository) Upsert(ctx context.Context, t *team.Team) (datasync.UpsertOutcome, error) {
	if r.upsertErr != nil {
		return "", r.upsertErr
	}
	return r.TeamRepository.Upsert(ctx, t)
}

func TestIngestion_UpsertTeams_ConnectionLossAbortsBatch(t *testing.T) {
	t.Parallel()

	teams := &failingTeamRepository{
		TeamRepository: memory.NewTeamRepository(),
		upsertErr: &datasync.TransientError{
			Op:  "upsert teams key=1",
			Err: errors.New("driver: bad connection"),
		},
	}
	players := memory.NewPlayerRepository()
	svc := usecase.NewIngestionService(teams, players, memory.NewGameRepository(), memory.NewPlayerStatRepository(players), logging.NewNop())

	report, err := svc.UpsertTeams(context.Background(), []nbastats.TeamRecord{
		providerTeam(1, "Boston Celtics", "BOS", "East"),
		providerTeam(2, "Denver Nuggets", "DEN", "West"),
	})
	if err == nil {
		t.Fatal("expected the batch to abort")
	}
	if !datasync.IsTransient(err) {
		t.Fatalf("abort must stay retryable, got %v", err)
	}
	// A dead store is not a bad row: nothing may land in quarantine.
	if report.Failed != 0 {
		t.Fatalf("quarantined %d rows on connection loss, want 0", report.Failed)
	}
	if report.Inserted != 0 {
		t.Fatalf("reported %d inserts from a failed batch, want 0", report.Inserted)
	}
}

func TestIngestion_UpsertTeams_Idempotent(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()
	ctx := context.Background()
	records := []nbastats.TeamRecord{
		providerTeam(1, "Boston Celtics", "BOS", "East"),
		providerTeam(2, "Denver Nuggets", "DEN", "West"),
	}

	first, err := fix.svc.UpsertTeams(ctx, records)
	if err != nil {
		t.Fatalf("first UpsertTeams: %v", err)
	}
	if first.Inserted != 2 || first.Updated != 0 || first.Skipped != 0 {
		t.Fatalf("first run report %s, want 2 inserted", first.String())
	}

	second, err := fix.svc.UpsertTeams(ctx, records)
	if err != nil {
		t.Fatalf("second UpsertTeams: %v", err)
	}
	if second.Inserted != 0 || second.Updated != 0 || second.Skipped != 2 {
		t.Fatalf("second run report %s, want 2 skipped", second.String())
	}
}

func TestIngestion_UpsertPlayers_TracksSeenIDs(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()
	ctx := context.Background()

	if _, err := fix.svc.UpsertTeams(ctx, []nbastats.TeamRecord{providerTeam(1, "Boston Celtics", "BOS", "East")}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	report, seen, err := fix.svc.UpsertPlayers(ctx, []nbastats.PlayerRecord{
		{ID: 7, FirstName: "Jayson", LastName: "Tatum", Team: &nbastats.TeamRecord{ID: 1}},
		{ID: 8, FirstName: "Derrick", LastName: "White", Team: &nbastats.TeamRecord{ID: 1}},
	})
	if err != nil {
		t.Fatalf("UpsertPlayers: %v", err)
	}
	if report.Inserted != 2 {
		t.Fatalf("inserted %d, want 2", report.Inserted)
	}
	if len(seen) != 2 {
		t.Fatalf("seen %d ids, want 2", len(seen))
	}

	// Second sync without player 8: soft-deactivate, never delete.
	if _, _, err := fix.svc.UpsertPlayers(ctx, []nbastats.PlayerRecord{
		{ID: 7, FirstName: "Jayson", LastName: "Tatum", Team: &nbastats.TeamRecord{ID: 1}},
	}); err != nil {
		t.Fatalf("second UpsertPlayers: %v", err)
	}
	count, err := fix.svc.DeactivateMissingPlayers(ctx, []int64{7})
	if err != nil {
		t.Fatalf("DeactivateMissingPlayers: %v", err)
	}
	if count != 1 {
		t.Fatalf("deactivated %d, want 1", count)
	}

	gone, err := fix.players.GetByNBAPlayerID(ctx, 8)
	if err != nil {
		t.Fatalf("deactivated player must still resolve: %v", err)
	}
	if gone.IsActive {
		t.Fatal("expected player 8 inactive")
	}
}

func TestIngestion_UpsertStatLines_QuarantinesUnknownGame(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()
	ctx := context.Background()

	if _, err := fix.svc.UpsertTeams(ctx, []nbastats.TeamRecord{
		providerTeam(1, "Boston Celtics", "BOS", "East"),
		providerTeam(2, "Denver Nuggets", "DEN", "West"),
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	if _, _, err := fix.svc.UpsertPlayers(ctx, []nbastats.PlayerRecord{
		{ID: 7, FirstName: "Jayson", LastName: "Tatum", Team: &nbastats.TeamRecord{ID: 1}},
	}); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	home, away := 110, 100
	if _, err := fix.svc.UpsertGames(ctx, 1, []nbastats.GameRecord{{
		ID: 55, Date: "2025-11-02", Status: "Final",
		HomeTeam: nbastats.TeamRecord{ID: 1}, AwayTeam: nbastats.TeamRecord{ID: 2},
		HomeScore: &home, AwayScore: &away,
	}}); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	report, err := fix.svc.UpsertStatLines(ctx, []nbastats.StatRecord{
		{
			ID:     1,
			Player: nbastats.PlayerRecord{ID: 7},
			Game:   nbastats.GameRecord{ID: 55},
			Points: 30, Minutes: "34",
		},
		{
			ID:     2,
			Player: nbastats.PlayerRecord{ID: 7},
			Game:   nbastats.GameRecord{ID: 999},
			Points: 10, Minutes: "20",
		},
	})
	if err != nil {
		t.Fatalf("UpsertStatLines: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("failed %d, want 1 quarantined line", report.Failed)
	}
	if report.Inserted == 0 {
		t.Fatal("expected tall rows inserted for the good line")
	}

	rows, err := fix.stats.ListByPlayerSeason(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected stored stat rows")
	}
}

func TestIngestion_UpsertStatLines_RerunSkips(t *testing.T) {
	t.Parallel()

	fix := newIngestionFixture()
	ctx := context.Background()

	if _, err := fix.svc.UpsertTeams(ctx, []nbastats.TeamRecord{
		providerTeam(1, "Boston Celtics", "BOS", "East"),
		providerTeam(2, "Denver Nuggets", "DEN", "West"),
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	if _, _, err := fix.svc.UpsertPlayers(ctx, []nbastats.PlayerRecord{
		{ID: 7, FirstName: "Jayson", LastName: "Tatum", Team: &nbastats.TeamRecord{ID: 1}},
	}); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	home, away := 110, 100
	if _, err := fix.svc.UpsertGames(ctx, 1, []nbastats.GameRecord{{
		ID: 55, Date: "2025-11-02", Status: "Final",
		HomeTeam: nbastats.TeamRecord{ID: 1}, AwayTeam: nbastats.TeamRecord{ID: 2},
		HomeScore: &home, AwayScore: &away,
	}}); err != nil {
		t.Fatalf("seed games: %v", err)
	}

	line := nbastats.StatRecord{
		ID:     1,
		Player: nbastats.PlayerRecord{ID: 7},
		Game:   nbastats.GameRecord{ID: 55},
		Points: 30, Minutes: "34",
	}

	first, err := fix.svc.UpsertStatLines(ctx, []nbastats.StatRecord{line})
	if err != nil {
		t.Fatalf("first UpsertStatLines: %v", err)
	}
	if first.Inserted == 0 || first.Skipped != 0 {
		t.Fatalf("first run report %s, want inserts only", first.String())
	}

	second, err := fix.svc.UpsertStatLines(ctx, []nbastats.StatRecord{line})
	if err != nil {
		t.Fatalf("second UpsertStatLines: %v", err)
	}
	if second.Inserted != 0 || second.Skipped != first.Inserted {
		t.Fatalf("second run report %s, want %d skipped", second.String(), first.Inserted)
	}
}
