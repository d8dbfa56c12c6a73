package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/game"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type GameRepository struct {
	mu     sync.RWMutex
	byID   map[int64]game.Game
	nextID int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{byID: make(map[int64]game.Game), nextID: 1}
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: game %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *GameRepository) GetByNBAGameID(_ context.Context, nbaGameID int64) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byID {
		if row.NBAGameID == nbaGameID {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: game nba_game_id=%d", usecase.ErrNotFound, nbaGameID)
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID int64) ([]game.Game, error) {
	return r.list(seasonID, false), nil
}

func (r *GameRepository) ListFinalBySeason(_ context.Context, seasonID int64) ([]game.Game, error) {
	return r.list(seasonID, true), nil
}

func (r *GameRepository) list(seasonID int64, finalOnly bool) []game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.byID))
	for _, row := range r.byID {
		if row.SeasonID != seasonID {
			continue
		}
		if finalOnly && !row.IsFinal() {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.Before(out[j].GameDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *GameRepository) Upsert(_ context.Context, g *game.Game) (datasync.UpsertOutcome, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.byID {
		if row.NBAGameID != g.NBAGameID {
			continue
		}
		g.ID = id
		if gamesEqual(row, *g) {
			return datasync.OutcomeSkipped, nil
		}
		r.byID[id] = *g
		return datasync.OutcomeUpdated, nil
	}

	g.ID = r.nextID
	r.nextID++
	r.byID[g.ID] = *g
	return datasync.OutcomeInserted, nil
}

func gamesEqual(a, b game.Game) bool {
	return a.NBAGameID == b.NBAGameID &&
		a.SeasonID == b.SeasonID &&
		a.GameDate.Equal(b.GameDate) &&
		a.HomeTeamID == b.HomeTeamID &&
		a.AwayTeamID == b.AwayTeamID &&
		a.Status == b.Status &&
		intPtrEqual(a.HomeScore, b.HomeScore) &&
		intPtrEqual(a.AwayScore, b.AwayScore)
}
