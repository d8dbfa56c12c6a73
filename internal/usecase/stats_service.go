package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/season"
	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 100
	defaultLeaderLimit = 10
	maxLeaderLimit     = 50
)

// PlayerDetail bundles a player's profile with season aggregates and
// the recent game log.
type PlayerDetail struct {
	Player      player.Player              `json:"player"`
	Team        *team.Team                 `json:"team,omitempty"`
	Season      season.Season              `json:"season"`
	Averages    *playerstat.SeasonAverages `json:"averages,omitempty"`
	RecentGames []playerstat.Stat          `json:"recent_games,omitempty"`
}

// StandingRow is a standings line joined with team identity.
type StandingRow struct {
	standing.Standing
	TeamName     string          `json:"team_name"`
	Abbreviation string          `json:"abbreviation"`
	Conference   team.Conference `json:"conference"`
	Rank         int             `json:"rank"`
}

// StatsService serves the read side: leaders, search, player detail,
// standings, team listings. Callers wire cache-decorated repositories
// in; the service itself holds no cache state.
type StatsService struct {
	players   player.Repository
	teams     team.Repository
	stats     playerstat.Repository
	standings standing.Repository
	seasons   season.Repository
	logger    *logging.Logger
}

func NewStatsService(
	players player.Repository,
	teams team.Repository,
	stats playerstat.Repository,
	standings standing.Repository,
	seasons season.Repository,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		players:   players,
		teams:     teams,
		stats:     stats,
		standings: standings,
		seasons:   seasons,
		logger:    logger,
	}
}

// LeagueLeaders ranks players by per-game average of one stat key.
// seasonID zero means the current regular season.
func (s *StatsService) LeagueLeaders(ctx context.Context, seasonID int64, statKey string, limit int) ([]playerstat.LeaderRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.LeagueLeaders")
	defer span.End()

	key, err := playerstat.ParseKey(statKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if limit <= 0 {
		limit = defaultLeaderLimit
	}
	if limit > maxLeaderLimit {
		limit = maxLeaderLimit
	}

	current, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	rows, err := s.stats.Leaders(ctx, current.ID, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaders season_id=%d key=%s: %w", current.ID, key, err)
	}
	return rows, nil
}

// SearchPlayers returns a page of players plus the total match count.
func (s *StatsService) SearchPlayers(ctx context.Context, filter player.SearchFilter) ([]player.Player, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.SearchPlayers")
	defer span.End()

	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, total, err := s.players.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("search players: %w", err)
	}
	return rows, total, nil
}

// PlayerDetail loads one player's profile, team, season averages, and
// recent game log. The three dependent reads run concurrently.
func (s *StatsService) PlayerDetail(ctx context.Context, playerID int64, seasonID int64) (*PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerDetail")
	defer span.End()

	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	p, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("get player id=%d: %w", playerID, err)
	}
	current, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	detail := &PlayerDetail{Player: *p, Season: *current}

	grp := pool.New().WithContext(ctx).WithCancelOnError()
	if p.TeamID != nil {
		teamID := *p.TeamID
		grp.Go(func(ctx context.Context) error {
			t, err := s.teams.GetByID(ctx, teamID)
			if err != nil {
				return fmt.Errorf("get team id=%d: %w", teamID, err)
			}
			detail.Team = t
			return nil
		})
	}
	grp.Go(func(ctx context.Context) error {
		avg, err := s.stats.Averages(ctx, playerID, current.ID)
		if err != nil {
			return fmt.Errorf("load averages player_id=%d: %w", playerID, err)
		}
		if avg.GamesPlayed > 0 {
			detail.Averages = avg
		}
		return nil
	})
	grp.Go(func(ctx context.Context) error {
		log, err := s.stats.ListByPlayerSeason(ctx, playerID, current.ID)
		if err != nil {
			return fmt.Errorf("load game log player_id=%d: %w", playerID, err)
		}
		detail.RecentGames = recentGameLog(log, 10)
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// SeasonStandings returns ranked standings joined with team identity,
// optionally filtered to one conference.
func (s *StatsService) SeasonStandings(ctx context.Context, seasonID int64, conference string) ([]StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.SeasonStandings")
	defer span.End()

	var conf team.Conference
	if conference != "" {
		normalized, ok := team.NormalizeConference(conference)
		if !ok {
			return nil, fmt.Errorf("%w: unknown conference %q", ErrInvalidInput, conference)
		}
		conf = normalized
	}

	current, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standings.ListBySeason(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list standings season_id=%d: %w", current.ID, err)
	}

	out := make([]StandingRow, 0, len(rows))
	for _, row := range rows {
		t, err := s.teams.GetByID(ctx, row.TeamID)
		if err != nil {
			return nil, fmt.Errorf("get team id=%d for standings: %w", row.TeamID, err)
		}
		if conf != "" && t.Conference != conf {
			continue
		}
		out = append(out, StandingRow{
			Standing:     row,
			TeamName:     t.Name,
			Abbreviation: t.Abbreviation,
			Conference:   t.Conference,
			Rank:         len(out) + 1,
		})
	}
	return out, nil
}

// ListTeams returns every synced team.
func (s *StatsService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ListTeams")
	defer span.End()

	rows, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return rows, nil
}

func (s *StatsService) GetTeam(ctx context.Context, teamID int64) (*team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetTeam")
	defer span.End()

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team id=%d: %w", teamID, err)
	}
	return t, nil
}

func (s *StatsService) resolveSeason(ctx context.Context, seasonID int64) (*season.Season, error) {
	if seasonID > 0 {
		current, err := s.seasons.GetByID(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("get season id=%d: %w", seasonID, err)
		}
		return current, nil
	}
	current, err := s.seasons.GetCurrent(ctx, season.TypeRegular)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no current season, run a sync first", ErrNotFound)
		}
		return nil, fmt.Errorf("get current season: %w", err)
	}
	return current, nil
}

// recentGameLog keeps the newest n games of a tall stat listing,
// assuming the repository returns rows ordered newest first.
func recentGameLog(rows []playerstat.Stat, games int) []playerstat.Stat {
	if games <= 0 || len(rows) == 0 {
		return rows
	}
	seen := make(map[int64]bool)
	cut := len(rows)
	for i, row := range rows {
		if !seen[row.NBAGameID] {
			if len(seen) == games {
				cut = i
				break
			}
			seen[row.NBAGameID] = true
		}
	}
	return rows[:cut]
}
