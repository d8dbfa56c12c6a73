package cache

import (
	"context"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	basecache "github.com/hoopstack/hoops-tracker/internal/platform/cache"
)

// Invalidator drops whole key families after a sync batch rewrites an
// entity. Per-row deletes in the decorators keep single reads fresh;
// this catches derived views (standings, leaders) in one sweep.
type Invalidator struct {
	cache *basecache.Store
}

func NewInvalidator(cache *basecache.Store) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) InvalidateEntity(ctx context.Context, entity datasync.EntityType) {
	for _, prefix := range prefixesFor(entity) {
		i.cache.DeletePrefix(ctx, prefix)
	}
}

func prefixesFor(entity datasync.EntityType) []string {
	switch entity {
	case datasync.EntityTeams:
		return []string{"team:"}
	case datasync.EntityPlayers:
		return []string{"player:"}
	case datasync.EntityGames:
		return []string{"game:", "standing:"}
	case datasync.EntityStats:
		return []string{"stat:"}
	default:
		return nil
	}
}
