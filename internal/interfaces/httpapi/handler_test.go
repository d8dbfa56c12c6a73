package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/season"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/memory"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

// stubProvider serves a single team and nothing else, enough to drive
// a full sync through every stage.
type stubProvider struct{}

func (stubProvider) FetchTeams(context.Context) ([]nbastats.TeamRecord, nbastats.PageMeta, error) {
	return []nbastats.TeamRecord{
		{ID: 14, Name: "Los Angeles Lakers", Abbreviation: "LAL", City: "Los Angeles", Conference: "West", Division: "Pacific"},
	}, nbastats.PageMeta{}, nil
}

func (stubProvider) FetchPlayers(context.Context, *int64) (nbastats.PlayerPage, error) {
	return nbastats.PlayerPage{}, nil
}

func (stubProvider) FetchGames(context.Context, int, *int64) (nbastats.GamePage, error) {
	return nbastats.GamePage{}, nil
}

func (stubProvider) FetchGameStats(context.Context, int64, *int64) (nbastats.StatPage, error) {
	return nbastats.StatPage{}, nil
}

type apiFixture struct {
	router  http.Handler
	sync    *usecase.SyncService
	players *memory.PlayerRepository
	seasons *memory.SeasonRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	games := memory.NewGameRepository()
	stats := memory.NewPlayerStatRepository(players)
	standings := memory.NewStandingRepository()
	seasons := memory.NewSeasonRepository()
	syncLogs := memory.NewSyncLogRepository()
	rosters := memory.NewRosterRepository()
	watch := memory.NewWatchlistRepository()
	bets := memory.NewBetRepository()

	logger := logging.NewNop()
	ingestion := usecase.NewIngestionService(teams, players, games, stats, logger)
	standingsService := usecase.NewStandingsService(games, standings, logger)
	syncService := usecase.NewSyncService(
		stubProvider{}, ingestion, standingsService, seasons, syncLogs,
		nil, nil, logger,
		usecase.SyncConfig{WorkerCount: 2, MaxAttempts: 1, SeasonYear: 2025},
	)

	handler := NewHandler(
		usecase.NewStatsService(players, teams, stats, standings, seasons, logger),
		usecase.NewRosterService(rosters, watch, players, logger),
		usecase.NewBetService(bets, games, players, stats, logger),
		syncService,
		logger,
	)

	verifier := NewStaticTokenVerifier(map[string]string{"tok-alice": "user-alice"}, "tok-admin")
	router := NewRouter(handler, verifier, logger, []string{"*"}, "job-secret")

	return &apiFixture{router: router, sync: syncService, players: players, seasons: seasons}
}

func (fx *apiFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope.Data
}

func seedPlayer(t *testing.T, fx *apiFixture, name string, nbaID int64) int64 {
	t.Helper()

	p := &player.Player{NBAPlayerID: nbaID, Name: name, IsActive: true}
	if _, err := fx.players.Upsert(context.Background(), p); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return p.ID
}

func TestRouter_Healthz(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SearchPlayersPublic(t *testing.T) {
	fx := newAPIFixture(t)
	seedPlayer(t, fx, "LeBron James", 237)
	seedPlayer(t, fx, "Jayson Tatum", 434)

	rec := fx.do(t, http.MethodGet, "/v1/players?q=tatum", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if got, _ := data["total"].(float64); got != 1 {
		t.Fatalf("expected total 1, got %v", data["total"])
	}
}

func TestRouter_RosterFlow(t *testing.T) {
	fx := newAPIFixture(t)
	playerID := seedPlayer(t, fx, "Luka Doncic", 132)

	rec := fx.do(t, http.MethodPost, "/v1/rosters", "", `{"name":"My Squad"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec = fx.do(t, http.MethodPost, "/v1/rosters", "tok-alice", `{"name":"My Squad"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeData(t, rec)
	rosterID := int64(created["id"].(float64))

	body := `{"player_id":` + strconv.FormatInt(playerID, 10) + `}`
	rec = fx.do(t, http.MethodPost, rosterPath(rosterID)+"/players", "tok-alice", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 adding player, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = fx.do(t, http.MethodGet, rosterPath(rosterID), "tok-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	detail := decodeData(t, rec)
	players, _ := detail["players"].([]any)
	if len(players) != 1 {
		t.Fatalf("expected 1 roster player, got %d", len(players))
	}
}

func TestRouter_AdminSync(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/v1/admin/sync", "tok-alice", `{"mode":"full"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for non-admin, got %d", rec.Code)
	}

	rec = fx.do(t, http.MethodPost, "/v1/admin/sync", "tok-admin", `{"mode":"full"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	jobID, _ := data["job_id"].(string)
	if jobID == "" {
		t.Fatalf("expected a job id in response")
	}

	fx.sync.Wait(jobID)

	rec = fx.do(t, http.MethodGet, "/v1/admin/sync/jobs/"+jobID, "tok-admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	status := decodeData(t, rec)
	if got, _ := status["state"].(string); got != "completed" {
		t.Fatalf("expected job state completed, got %v: %s", status["state"], rec.Body.String())
	}

	current, err := fx.seasons.GetCurrent(context.Background(), season.TypeRegular)
	if err != nil {
		t.Fatalf("expected current season after sync: %v", err)
	}
	if current.Year != 2025 {
		t.Fatalf("expected season year 2025, got %d", current.Year)
	}
}

func TestRouter_InternalSettleRequiresJobToken(t *testing.T) {
	fx := newAPIFixture(t)

	rec := fx.do(t, http.MethodPost, "/v1/internal/jobs/games/1/settle-bets", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/games/1/settle-bets", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec = httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	// Game 1 does not exist, so settlement reports not found.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown game, got %d: %s", rec.Code, rec.Body.String())
	}
}

func rosterPath(id int64) string {
	return "/v1/rosters/" + strconv.FormatInt(id, 10)
}
