package watchlist

import "context"

type Repository interface {
	Add(ctx context.Context, item *Item) error
	Remove(ctx context.Context, userID string, playerID int64) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	Exists(ctx context.Context, userID string, playerID int64) (bool, error)
}
