package season

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Season, error)
	GetCurrent(ctx context.Context, seasonType Type) (*Season, error)
	GetByYearAndType(ctx context.Context, year int, seasonType Type) (*Season, error)
	// EnsureCurrent upserts the season and, when marking it current,
	// clears the flag from any other season of the same type.
	EnsureCurrent(ctx context.Context, s *Season) error
	List(ctx context.Context) ([]Season, error)
}
