package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byID   map[int64]team.Team
	nextID int64
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byID: make(map[int64]team.Team), nextID: 1}
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: team %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *TeamRepository) GetByNBATeamID(_ context.Context, nbaTeamID int64) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byID {
		if row.NBATeamID == nbaTeamID {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: team nba_team_id=%d", usecase.ErrNotFound, nbaTeamID)
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byID))
	for _, row := range r.byID {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, t *team.Team) (datasync.UpsertOutcome, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.byID {
		if row.NBATeamID != t.NBATeamID {
			continue
		}
		t.ID = id
		if row == *t {
			return datasync.OutcomeSkipped, nil
		}
		r.byID[id] = *t
		return datasync.OutcomeUpdated, nil
	}

	t.ID = r.nextID
	r.nextID++
	r.byID[t.ID] = *t
	return datasync.OutcomeInserted, nil
}
