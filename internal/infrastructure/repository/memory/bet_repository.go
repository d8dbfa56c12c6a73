package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/bet"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type BetRepository struct {
	mu     sync.RWMutex
	byID   map[int64]bet.Bet
	nextID int64
}

func NewBetRepository() *BetRepository {
	return &BetRepository{byID: make(map[int64]bet.Bet), nextID: 1}
}

func (r *BetRepository) Create(_ context.Context, b *bet.Bet) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++
	if b.Status == "" {
		b.Status = bet.StatusPending
	}
	b.CreatedAt = time.Now().UTC()
	r.byID[b.ID] = *b
	return nil
}

func (r *BetRepository) GetByID(_ context.Context, id int64) (*bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: bet %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *BetRepository) ListByUser(_ context.Context, userID string) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0, 8)
	for _, row := range r.byID {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BetRepository) ListUnsettledByGame(_ context.Context, gameID int64) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0, 8)
	for _, row := range r.byID {
		if row.GameID != gameID {
			continue
		}
		if row.Status == bet.StatusPending || row.Status == bet.StatusActive {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BetRepository) Update(_ context.Context, b *bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return fmt.Errorf("%w: bet %d", usecase.ErrNotFound, b.ID)
	}
	r.byID[b.ID] = *b
	return nil
}
