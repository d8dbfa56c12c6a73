package roster

import "context"

type Repository interface {
	Create(ctx context.Context, r *Roster) error
	GetByID(ctx context.Context, id int64) (*Roster, error)
	ListByUser(ctx context.Context, userID string) ([]Roster, error)
	Delete(ctx context.Context, id int64) error

	AddPlayer(ctx context.Context, rosterID, playerID int64) (*Entry, error)
	RemovePlayer(ctx context.Context, rosterID, playerID int64) error
	ListEntries(ctx context.Context, rosterID int64) ([]Entry, error)
	CountEntries(ctx context.Context, rosterID int64) (int, error)
}
