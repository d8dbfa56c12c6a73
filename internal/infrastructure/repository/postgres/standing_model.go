package postgres

import (
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/standing"
)

type standingTableModel struct {
	ID          int64     `db:"id"`
	TeamID      int64     `db:"team_id"`
	SeasonID    int64     `db:"season_id"`
	Wins        int       `db:"wins"`
	Losses      int       `db:"losses"`
	Ties        int       `db:"ties"`
	GamesPlayed int       `db:"games_played"`
	WinPct      float64   `db:"win_pct"`
	GamesBehind float64   `db:"games_behind"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type standingInsertModel struct {
	TeamID      int64   `db:"team_id"`
	SeasonID    int64   `db:"season_id"`
	Wins        int     `db:"wins"`
	Losses      int     `db:"losses"`
	Ties        int     `db:"ties"`
	GamesPlayed int     `db:"games_played"`
	WinPct      float64 `db:"win_pct"`
	GamesBehind float64 `db:"games_behind"`
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		ID:          m.ID,
		TeamID:      m.TeamID,
		SeasonID:    m.SeasonID,
		Wins:        m.Wins,
		Losses:      m.Losses,
		Ties:        m.Ties,
		GamesPlayed: m.GamesPlayed,
		WinPct:      m.WinPct,
		GamesBehind: m.GamesBehind,
	}
}
