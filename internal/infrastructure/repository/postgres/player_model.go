package postgres

import (
	"database/sql"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/player"
)

type playerTableModel struct {
	ID           int64         `db:"id"`
	NBAPlayerID  int64         `db:"nba_player_id"`
	Name         string        `db:"name"`
	TeamID       sql.NullInt64 `db:"team_id"`
	Position     string        `db:"position"`
	JerseyNumber string        `db:"jersey_number"`
	HeightInches sql.NullInt64 `db:"height_inches"`
	WeightPounds sql.NullInt64 `db:"weight_pounds"`
	IsActive     bool          `db:"is_active"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	NBAPlayerID  int64         `db:"nba_player_id"`
	Name         string        `db:"name"`
	TeamID       sql.NullInt64 `db:"team_id"`
	Position     string        `db:"position"`
	JerseyNumber string        `db:"jersey_number"`
	HeightInches sql.NullInt64 `db:"height_inches"`
	WeightPounds sql.NullInt64 `db:"weight_pounds"`
	IsActive     bool          `db:"is_active"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           m.ID,
		NBAPlayerID:  m.NBAPlayerID,
		Name:         m.Name,
		TeamID:       nullInt64ToInt64Ptr(m.TeamID),
		Position:     m.Position,
		JerseyNumber: m.JerseyNumber,
		HeightInches: nullInt64ToIntPtr(m.HeightInches),
		WeightPounds: nullInt64ToIntPtr(m.WeightPounds),
		IsActive:     m.IsActive,
	}
}
