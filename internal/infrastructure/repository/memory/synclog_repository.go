package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

type SyncLogRepository struct {
	mu      sync.RWMutex
	entries []datasync.LogEntry
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{}
}

func (r *SyncLogRepository) Record(_ context.Context, entry datasync.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].JobID == entry.JobID {
			r.entries[i] = entry
			return nil
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *SyncLogRepository) Recent(_ context.Context, limit int) ([]datasync.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]datasync.LogEntry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
