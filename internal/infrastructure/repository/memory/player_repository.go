package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byID   map[int64]player.Player
	nextID int64
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{byID: make(map[int64]player.Player), nextID: 1}
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: player %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *PlayerRepository) GetByNBAPlayerID(_ context.Context, nbaPlayerID int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byID {
		if row.NBAPlayerID == nbaPlayerID {
			out := row
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: player nba_player_id=%d", usecase.ErrNotFound, nbaPlayerID)
}

func (r *PlayerRepository) Search(_ context.Context, filter player.SearchFilter) ([]player.Player, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matched := make([]player.Player, 0, len(r.byID))
	for _, row := range r.byID {
		if !filter.IncludeInactive && !row.IsActive {
			continue
		}
		if filter.TeamID != nil {
			if row.TeamID == nil || *row.TeamID != *filter.TeamID {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(row.Name), query) {
			continue
		}
		matched = append(matched, row)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	offset := filter.Offset
	if offset > total {
		offset = total
	}
	matched = matched[offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *PlayerRepository) Upsert(_ context.Context, p *player.Player) (datasync.UpsertOutcome, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.byID {
		if row.NBAPlayerID != p.NBAPlayerID {
			continue
		}
		p.ID = id
		if playersEqual(row, *p) {
			return datasync.OutcomeSkipped, nil
		}
		r.byID[id] = *p
		return datasync.OutcomeUpdated, nil
	}

	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = *p
	return datasync.OutcomeInserted, nil
}

func (r *PlayerRepository) DeactivateMissing(_ context.Context, seen []int64) (int, error) {
	if len(seen) == 0 {
		return 0, nil
	}

	keep := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		keep[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deactivated := 0
	for id, row := range r.byID {
		if _, ok := keep[row.NBAPlayerID]; ok || !row.IsActive {
			continue
		}
		row.IsActive = false
		r.byID[id] = row
		deactivated++
	}
	return deactivated, nil
}

func playersEqual(a, b player.Player) bool {
	if a.NBAPlayerID != b.NBAPlayerID || a.Name != b.Name || a.Position != b.Position ||
		a.JerseyNumber != b.JerseyNumber || a.IsActive != b.IsActive {
		return false
	}
	if !int64PtrEqual(a.TeamID, b.TeamID) {
		return false
	}
	return intPtrEqual(a.HeightInches, b.HeightInches) && intPtrEqual(a.WeightPounds, b.WeightPounds)
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
