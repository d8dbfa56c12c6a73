package standing

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Standing, error)
	GetByTeamSeason(ctx context.Context, teamID, seasonID int64) (*Standing, error)
	// ReplaceBySeason swaps the whole season cohort in one transaction so
	// readers never observe a half-recomputed table.
	ReplaceBySeason(ctx context.Context, seasonID int64, rows []Standing) error
}
