package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/watchlist"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type WatchlistRepository struct {
	mu     sync.RWMutex
	items  map[int64]watchlist.Item
	nextID int64
}

func NewWatchlistRepository() *WatchlistRepository {
	return &WatchlistRepository{items: make(map[int64]watchlist.Item), nextID: 1}
}

func (r *WatchlistRepository) Add(_ context.Context, item *watchlist.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.items {
		if row.UserID == item.UserID && row.PlayerID == item.PlayerID {
			return fmt.Errorf("%w: player %d already watched", usecase.ErrConflict, item.PlayerID)
		}
	}

	item.ID = r.nextID
	r.nextID++
	item.AddedAt = time.Now().UTC()
	r.items[item.ID] = *item
	return nil
}

func (r *WatchlistRepository) Remove(_ context.Context, userID string, playerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, row := range r.items {
		if row.UserID == userID && row.PlayerID == playerID {
			delete(r.items, id)
			return nil
		}
	}
	return fmt.Errorf("%w: player %d not watched", usecase.ErrNotFound, playerID)
}

func (r *WatchlistRepository) ListByUser(_ context.Context, userID string) ([]watchlist.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]watchlist.Item, 0, 8)
	for _, row := range r.items {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *WatchlistRepository) Exists(_ context.Context, userID string, playerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.items {
		if row.UserID == userID && row.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}
