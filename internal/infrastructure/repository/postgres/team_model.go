package postgres

import (
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/team"
)

type teamTableModel struct {
	ID           int64     `db:"id"`
	NBATeamID    int64     `db:"nba_team_id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	City         string    `db:"city"`
	Conference   string    `db:"conference"`
	Division     string    `db:"division"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	NBATeamID    int64  `db:"nba_team_id"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
	City         string `db:"city"`
	Conference   string `db:"conference"`
	Division     string `db:"division"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:           m.ID,
		NBATeamID:    m.NBATeamID,
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		City:         m.City,
		Conference:   team.Conference(m.Conference),
		Division:     m.Division,
	}
}
