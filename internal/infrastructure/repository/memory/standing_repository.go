package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type StandingRepository struct {
	mu       sync.RWMutex
	bySeason map[int64][]standing.Standing
	nextID   int64
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{bySeason: make(map[int64][]standing.Standing), nextID: 1}
}

func (r *StandingRepository) ListBySeason(_ context.Context, seasonID int64) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.bySeason[seasonID]
	out := make([]standing.Standing, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *StandingRepository) GetByTeamSeason(_ context.Context, teamID, seasonID int64) (*standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.bySeason[seasonID] {
		if row.TeamID == teamID {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: standing team=%d season=%d", usecase.ErrNotFound, teamID, seasonID)
}

func (r *StandingRepository) ReplaceBySeason(_ context.Context, seasonID int64, rows []standing.Standing) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]standing.Standing, len(rows))
	copy(replacement, rows)
	for i := range replacement {
		replacement[i].ID = r.nextID
		r.nextID++
	}
	r.bySeason[seasonID] = replacement
	return nil
}
