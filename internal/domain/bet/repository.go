package bet

import "context"

type Repository interface {
	Create(ctx context.Context, b *Bet) error
	GetByID(ctx context.Context, id int64) (*Bet, error)
	ListByUser(ctx context.Context, userID string) ([]Bet, error)
	ListUnsettledByGame(ctx context.Context, gameID int64) ([]Bet, error)
	Update(ctx context.Context, b *Bet) error
}
