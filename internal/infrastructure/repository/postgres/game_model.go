package postgres

import (
	"database/sql"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/game"
)

type gameTableModel struct {
	ID         int64         `db:"id"`
	NBAGameID  int64         `db:"nba_game_id"`
	SeasonID   int64         `db:"season_id"`
	GameDate   time.Time     `db:"game_date"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Status     string        `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type gameInsertModel struct {
	NBAGameID  int64         `db:"nba_game_id"`
	SeasonID   int64         `db:"season_id"`
	GameDate   time.Time     `db:"game_date"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Status     string        `db:"status"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:         m.ID,
		NBAGameID:  m.NBAGameID,
		SeasonID:   m.SeasonID,
		GameDate:   m.GameDate,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		Status:     game.Status(m.Status),
	}
}
