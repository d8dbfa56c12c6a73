package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/roster"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

type RosterRepository struct {
	mu          sync.RWMutex
	rosters     map[int64]roster.Roster
	entries     map[int64][]roster.Entry
	nextID      int64
	nextEntryID int64
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{
		rosters:     make(map[int64]roster.Roster),
		entries:     make(map[int64][]roster.Entry),
		nextID:      1,
		nextEntryID: 1,
	}
}

func (r *RosterRepository) Create(_ context.Context, item *roster.Roster) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.rosters[item.ID] = *item
	return nil
}

func (r *RosterRepository) GetByID(_ context.Context, id int64) (*roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rosters[id]
	if !ok {
		return nil, fmt.Errorf("%w: roster %d", usecase.ErrNotFound, id)
	}
	return &row, nil
}

func (r *RosterRepository) ListByUser(_ context.Context, userID string) ([]roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Roster, 0, 4)
	for _, row := range r.rosters {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RosterRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rosters[id]; !ok {
		return fmt.Errorf("%w: roster %d", usecase.ErrNotFound, id)
	}
	delete(r.rosters, id)
	delete(r.entries, id)
	return nil
}

func (r *RosterRepository) AddPlayer(_ context.Context, rosterID, playerID int64) (*roster.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rosters[rosterID]; !ok {
		return nil, fmt.Errorf("%w: roster %d", usecase.ErrNotFound, rosterID)
	}
	for _, entry := range r.entries[rosterID] {
		if entry.PlayerID == playerID {
			return nil, fmt.Errorf("%w: player %d already on roster %d", usecase.ErrConflict, playerID, rosterID)
		}
	}

	entry := roster.Entry{
		ID:       r.nextEntryID,
		RosterID: rosterID,
		PlayerID: playerID,
		AddedAt:  time.Now().UTC(),
	}
	r.nextEntryID++
	r.entries[rosterID] = append(r.entries[rosterID], entry)
	return &entry, nil
}

func (r *RosterRepository) RemovePlayer(_ context.Context, rosterID, playerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.entries[rosterID]
	for i, entry := range rows {
		if entry.PlayerID == playerID {
			r.entries[rosterID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: player %d not on roster %d", usecase.ErrNotFound, playerID, rosterID)
}

func (r *RosterRepository) ListEntries(_ context.Context, rosterID int64) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.entries[rosterID]
	out := make([]roster.Entry, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *RosterRepository) CountEntries(_ context.Context, rosterID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[rosterID]), nil
}
