package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
)

// StandingsService rebuilds a season's won-lost table from its final
// games. Recalculations for the same season are serialized; concurrent
// calls for different seasons proceed independently.
type StandingsService struct {
	games     game.Repository
	standings standing.Repository
	logger    *logging.Logger

	mu          sync.Mutex
	seasonLocks map[int64]*sync.Mutex
}

func NewStandingsService(games game.Repository, standings standing.Repository, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		games:       games,
		standings:   standings,
		logger:      logger,
		seasonLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *StandingsService) Recalculate(ctx context.Context, seasonID int64) error {
	if seasonID <= 0 {
		return fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "StandingsService.Recalculate")
	defer span.End()

	lock := s.seasonLock(seasonID)
	lock.Lock()
	defer lock.Unlock()

	finals, err := s.games.ListFinalBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list final games season_id=%d: %w", seasonID, err)
	}

	rows := ComputeStandings(seasonID, finals)
	if err := s.standings.ReplaceBySeason(ctx, seasonID, rows); err != nil {
		return fmt.Errorf("replace standings season_id=%d: %w", seasonID, err)
	}

	s.logger.InfoContext(ctx, "standings recalculated",
		"season_id", seasonID,
		"teams", len(rows),
		"final_games", len(finals),
	)
	return nil
}

func (s *StandingsService) seasonLock(seasonID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.seasonLocks[seasonID]
	if !ok {
		lock = &sync.Mutex{}
		s.seasonLocks[seasonID] = lock
	}
	return lock
}

// ComputeStandings derives the whole-season table from final games. It
// is pure and deterministic: rows come back ordered by win percentage,
// then wins, then team id.
//
// Games behind compares each team against the single league leader:
// ((leaderW - leaderL) - (teamW - teamL)) / 2. The leader is the team
// with the best win percentage, wins breaking ties.
func ComputeStandings(seasonID int64, finals []game.Game) []standing.Standing {
	type record struct {
		wins, losses, ties int
	}
	records := make(map[int64]*record)
	tally := func(teamID int64) *record {
		rec, ok := records[teamID]
		if !ok {
			rec = &record{}
			records[teamID] = rec
		}
		return rec
	}

	for _, g := range finals {
		if !g.IsFinal() {
			continue
		}
		home, away := tally(g.HomeTeamID), tally(g.AwayTeamID)
		switch winner := g.Winner(); winner {
		case g.HomeTeamID:
			home.wins++
			away.losses++
		case g.AwayTeamID:
			away.wins++
			home.losses++
		default:
			home.ties++
			away.ties++
		}
	}

	rows := make([]standing.Standing, 0, len(records))
	for teamID, rec := range records {
		played := rec.wins + rec.losses + rec.ties
		pct := 0.0
		if played > 0 {
			pct = round3((float64(rec.wins) + 0.5*float64(rec.ties)) / float64(played))
		}
		rows = append(rows, standing.Standing{
			TeamID:      teamID,
			SeasonID:    seasonID,
			Wins:        rec.wins,
			Losses:      rec.losses,
			Ties:        rec.ties,
			GamesPlayed: played,
			WinPct:      pct,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WinPct != rows[j].WinPct {
			return rows[i].WinPct > rows[j].WinPct
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	if len(rows) > 0 {
		leaderDiff := rows[0].WinDiff()
		for i := range rows {
			rows[i].GamesBehind = float64(leaderDiff-rows[i].WinDiff()) / 2
		}
	}
	return rows
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
