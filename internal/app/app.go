package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/hoopstack/hoops-tracker/external/nbastats"
	"github.com/hoopstack/hoops-tracker/internal/config"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/cache"
	"github.com/hoopstack/hoops-tracker/internal/infrastructure/repository/postgres"
	"github.com/hoopstack/hoops-tracker/internal/interfaces/httpapi"
	basecache "github.com/hoopstack/hoops-tracker/internal/platform/cache"
	idgen "github.com/hoopstack/hoops-tracker/internal/platform/id"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/platform/resilience"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

// App holds the wired service graph and owns its shared resources.
type App struct {
	Server *http.Server
	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	teamRepo := team.Repository(postgres.NewTeamRepository(db))
	playerRepo := player.Repository(postgres.NewPlayerRepository(db))
	gameRepo := game.Repository(postgres.NewGameRepository(db))
	statRepo := playerstat.Repository(postgres.NewPlayerStatRepository(db))
	standingRepo := standing.Repository(postgres.NewStandingRepository(db))
	seasonRepo := postgres.NewSeasonRepository(db)
	syncLogRepo := postgres.NewSyncLogRepository(db)
	rosterRepo := postgres.NewRosterRepository(db)
	watchlistRepo := postgres.NewWatchlistRepository(db)
	betRepo := postgres.NewBetRepository(db)

	var invalidator usecase.Invalidator
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		teamRepo = cache.NewTeamRepository(teamRepo, store)
		playerRepo = cache.NewPlayerRepository(playerRepo, store)
		gameRepo = cache.NewGameRepository(gameRepo, store)
		statRepo = cache.NewPlayerStatRepository(statRepo, store)
		standingRepo = cache.NewStandingRepository(standingRepo, store)
		invalidator = cache.NewInvalidator(store)
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL)
	}

	provider := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:           cfg.NBAStatsBaseURL,
		APIKey:            cfg.NBAStatsAPIKey,
		Timeout:           cfg.NBAStatsTimeout,
		MaxRetries:        cfg.NBAStatsMaxRetries,
		RequestsPerMinute: cfg.NBAStatsRequestsPerMinute,
		PageSize:          cfg.NBAStatsPageSize,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NBAStatsCircuitEnabled,
			FailureThreshold: cfg.NBAStatsCircuitFailureCount,
			OpenTimeout:      cfg.NBAStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NBAStatsCircuitHalfOpenMaxReq,
		},
	})

	ingestionSvc := usecase.NewIngestionService(teamRepo, playerRepo, gameRepo, statRepo, logger)
	standingsSvc := usecase.NewStandingsService(gameRepo, standingRepo, logger)
	statsSvc := usecase.NewStatsService(playerRepo, teamRepo, statRepo, standingRepo, seasonRepo, logger)
	rosterSvc := usecase.NewRosterService(rosterRepo, watchlistRepo, playerRepo, logger)
	betSvc := usecase.NewBetService(betRepo, gameRepo, playerRepo, statRepo, logger)
	syncSvc := usecase.NewSyncService(
		provider,
		ingestionSvc,
		standingsSvc,
		seasonRepo,
		syncLogRepo,
		invalidator,
		idgen.NewRandomGenerator(),
		logger,
		usecase.SyncConfig{
			WorkerCount:  cfg.SyncWorkerCount,
			JobRetention: cfg.SyncJobRetention,
			SeasonYear:   cfg.SyncSeasonYear,
		},
	)

	handler := httpapi.NewHandler(statsSvc, rosterSvc, betSvc, syncSvc, logger)
	verifier := httpapi.NewStaticTokenVerifier(cfg.APITokens, cfg.AdminAPIToken)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db, logger: logger}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
