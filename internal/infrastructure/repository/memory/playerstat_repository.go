package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
)

type statKey struct {
	playerID  int64
	seasonID  int64
	key       playerstat.Key
	gameDate  string
	nbaGameID int64
}

// PlayerStatRepository stores tall stat rows keyed the same way the
// database uniqueness constraint is keyed, so re-syncs overwrite in place.
type PlayerStatRepository struct {
	mu      sync.RWMutex
	rows    map[statKey]playerstat.Stat
	players *PlayerRepository
	nextID  int64
}

// NewPlayerStatRepository optionally takes the player repository so
// Leaders can resolve player names; pass nil when names do not matter.
func NewPlayerStatRepository(players *PlayerRepository) *PlayerStatRepository {
	return &PlayerStatRepository{rows: make(map[statKey]playerstat.Stat), players: players, nextID: 1}
}

func (r *PlayerStatRepository) Upsert(_ context.Context, s *playerstat.Stat) (datasync.UpsertOutcome, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	key := statKey{
		playerID:  s.PlayerID,
		seasonID:  s.SeasonID,
		key:       s.Key,
		gameDate:  s.GameDate.Format("2006-01-02"),
		nbaGameID: s.NBAGameID,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.rows[key]; ok {
		s.ID = existing.ID
		if existing.Value == s.Value && existing.GameID == s.GameID {
			return datasync.OutcomeSkipped, nil
		}
		r.rows[key] = *s
		return datasync.OutcomeUpdated, nil
	}

	s.ID = r.nextID
	r.nextID++
	r.rows[key] = *s
	return datasync.OutcomeInserted, nil
}

func (r *PlayerStatRepository) ListByPlayerSeason(_ context.Context, playerID, seasonID int64) ([]playerstat.Stat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstat.Stat, 0, 64)
	for _, row := range r.rows {
		if row.PlayerID == playerID && row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	// Newest game first, matching the SQL repo's ORDER BY game_date DESC.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.After(out[j].GameDate)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (r *PlayerStatRepository) Leaders(ctx context.Context, seasonID int64, key playerstat.Key, limit int) ([]playerstat.LeaderRow, error) {
	r.mu.RLock()
	type agg struct {
		total float64
		games int
	}
	totals := make(map[int64]*agg)
	for _, row := range r.rows {
		if row.SeasonID != seasonID || row.Key != key {
			continue
		}
		entry, ok := totals[row.PlayerID]
		if !ok {
			entry = &agg{}
			totals[row.PlayerID] = entry
		}
		entry.total += row.Value
		entry.games++
	}
	r.mu.RUnlock()

	out := make([]playerstat.LeaderRow, 0, len(totals))
	for playerID, entry := range totals {
		row := playerstat.LeaderRow{
			PlayerID:    playerID,
			GamesPlayed: entry.games,
			Total:       entry.total,
			PerGame:     entry.total / float64(entry.games),
		}
		if r.players != nil {
			if p, err := r.players.GetByID(ctx, playerID); err == nil {
				row.PlayerName = p.Name
				row.TeamID = p.TeamID
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PerGame != out[j].PerGame {
			return out[i].PerGame > out[j].PerGame
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PlayerStatRepository) Averages(_ context.Context, playerID, seasonID int64) (*playerstat.SeasonAverages, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := make(map[playerstat.Key]float64)
	games := make(map[int64]struct{})
	for _, row := range r.rows {
		if row.PlayerID != playerID || row.SeasonID != seasonID {
			continue
		}
		totals[row.Key] += row.Value
		games[row.NBAGameID] = struct{}{}
	}

	out := &playerstat.SeasonAverages{
		SeasonID:    seasonID,
		GamesPlayed: len(games),
		PerGame:     make(map[playerstat.Key]float64, len(totals)),
	}
	if out.GamesPlayed == 0 {
		return out, nil
	}
	for key, total := range totals {
		out.PerGame[key] = total / float64(out.GamesPlayed)
	}
	return out, nil
}
