package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/season"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	byID   map[int64]season.Season
	nextID int64
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{byID: make(map[int64]season.Season), nextID: 1}
}

func (r *SeasonRepository) GetByID(_ context.Context, id int64) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: season %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *SeasonRepository) GetCurrent(_ context.Context, seasonType season.Type) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byID {
		if row.Type == seasonType && row.IsCurrent {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: no current %s season", usecase.ErrNotFound, seasonType)
}

func (r *SeasonRepository) GetByYearAndType(_ context.Context, year int, seasonType season.Type) (*season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byID {
		if row.Year == year && row.Type == seasonType {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: season year=%d type=%s", usecase.ErrNotFound, year, seasonType)
}

func (r *SeasonRepository) EnsureCurrent(_ context.Context, s *season.Season) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var existingID int64
	for id, row := range r.byID {
		if row.Year == s.Year && row.Type == s.Type {
			existingID = id
			break
		}
	}
	if existingID == 0 {
		existingID = r.nextID
		r.nextID++
	}
	s.ID = existingID

	if s.IsCurrent {
		for id, row := range r.byID {
			if row.Type == s.Type && row.IsCurrent && id != existingID {
				row.IsCurrent = false
				r.byID[id] = row
			}
		}
	}
	r.byID[existingID] = *s
	return nil
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.byID))
	for _, row := range r.byID {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}
